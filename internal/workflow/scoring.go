package workflow

import (
	"context"
	"sort"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

// ScoringService implements component I: manual score verification,
// direct score application, and the published-competition results
// projection.
type ScoringService struct {
	runner repository.Runner
}

func NewScoringService(runner repository.Runner) *ScoringService {
	return &ScoringService{runner: runner}
}

// VerifyScan applies a human-corrected score to the scan's linked attempt.
func (s *ScoringService) VerifyScan(ctx context.Context, scanID domain.ID, verifiedBy domain.ID, correctedScore int) error {
	if correctedScore < 0 {
		return apperrors.NewValidationError("corrected_score must be non-negative")
	}
	return s.runner.RunInTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		scan, err := repos.Scans.GetByID(ctx, scanID)
		if err != nil {
			return err
		}
		if err := scan.Verify(verifiedBy, correctedScore); err != nil {
			return err
		}
		if err := repos.Scans.Update(ctx, scan); err != nil {
			return err
		}

		attempt, err := repos.Attempts.GetByID(ctx, *scan.AttemptID)
		if err != nil {
			return err
		}
		if err := attempt.ApplyScore(correctedScore, nil); err != nil {
			return err
		}
		if err := repos.Attempts.Update(ctx, attempt); err != nil {
			return err
		}

		return audit.Record(ctx, repos.AuditLogs, "scan", scan.ID, "score_verified", &verifiedBy, "", map[string]interface{}{
			"corrected_score": correctedScore,
			"attempt_id":      attempt.ID,
		})
	})
}

// ApplyScore applies a score directly to an attempt, with no scan row.
func (s *ScoringService) ApplyScore(ctx context.Context, attemptID domain.ID, actorID domain.ID, score int) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		attempt, err := repos.Attempts.GetByID(ctx, attemptID)
		if err != nil {
			return err
		}
		if err := attempt.ApplyScore(score, nil); err != nil {
			return err
		}
		if err := repos.Attempts.Update(ctx, attempt); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "attempt", attempt.ID, "score_applied", &actorID, "", map[string]interface{}{
			"score": score,
		})
	})
}

// PublishAttempt transitions a scored attempt to published.
func (s *ScoringService) PublishAttempt(ctx context.Context, attemptID domain.ID, actorID domain.ID) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		attempt, err := repos.Attempts.GetByID(ctx, attemptID)
		if err != nil {
			return err
		}
		if err := attempt.Publish(); err != nil {
			return err
		}
		if err := repos.Attempts.Update(ctx, attempt); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "attempt", attempt.ID, "published", &actorID, "", nil)
	})
}

// ResultRow is one ranked participant's published result.
type ResultRow struct {
	Rank            int
	ParticipantName string
	School          string
	Grade           *int
	Score           int
	MaxScore        int
}

// Results computes standard ranking (ties share a rank, the next rank
// advances by the number of tied entries) over a published competition's
// scored-or-published attempts.
func (s *ScoringService) Results(ctx context.Context, repos *repository.Repositories, competitionID domain.ID) ([]ResultRow, error) {
	comp, err := repos.Competitions.GetByID(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if comp.Status != domain.CompetitionPublished {
		return nil, apperrors.New(apperrors.ErrorTypeForbidden, "results are not published for this competition")
	}

	attempts, err := repos.Attempts.GetResultsForCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	sort.Slice(attempts, func(i, j int) bool { return *attempts[i].ScoreTotal > *attempts[j].ScoreTotal })

	rows := make([]ResultRow, 0, len(attempts))
	for i, attempt := range attempts {
		reg, err := repos.Registrations.GetByID(ctx, attempt.RegistrationID)
		if err != nil {
			return nil, err
		}
		participant, err := repos.Participants.GetByID(ctx, reg.ParticipantID)
		if err != nil {
			return nil, err
		}

		rank := i + 1
		if i > 0 && *attempt.ScoreTotal == *attempts[i-1].ScoreTotal {
			rank = rows[i-1].Rank
		}

		rows = append(rows, ResultRow{
			Rank:            rank,
			ParticipantName: participant.FullName,
			School:          participant.School,
			Grade:           participant.Grade,
			Score:           *attempt.ScoreTotal,
			MaxScore:        comp.MaxScore,
		})
	}
	return rows, nil
}
