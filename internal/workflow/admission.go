package workflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/metrics"
	"github.com/olympiadqr/olympiadqr/internal/ports"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/seating"
	"github.com/olympiadqr/olympiadqr/internal/token"
)

// AdmissionService implements component F: verify (read-only preview) and
// approve (the transactional fan-out into B/C/D/E plus sheet rendering
// and object storage).
type AdmissionService struct {
	runner        repository.Runner
	tokens        *token.Service
	objectStore   ports.ObjectStore
	sheetRenderer ports.SheetRenderer
	sheetsBucket  string
	metrics       *metrics.Metrics

	scoreFieldXMM, scoreFieldYMM, scoreFieldWMM, scoreFieldHMM float64
}

func NewAdmissionService(runner repository.Runner, tokens *token.Service, objectStore ports.ObjectStore, sheetRenderer ports.SheetRenderer, sheetsBucket string, scoreFieldXMM, scoreFieldYMM, scoreFieldWMM, scoreFieldHMM float64, m *metrics.Metrics) *AdmissionService {
	return &AdmissionService{
		runner:        runner,
		tokens:        tokens,
		objectStore:   objectStore,
		sheetRenderer: sheetRenderer,
		sheetsBucket:  sheetsBucket,
		metrics:       m,
		scoreFieldXMM: scoreFieldXMM,
		scoreFieldYMM: scoreFieldYMM,
		scoreFieldWMM: scoreFieldWMM,
		scoreFieldHMM: scoreFieldHMM,
	}
}

// VerifyResult is the read-only preview returned to an admitter.
type VerifyResult struct {
	CanProceed      bool
	Reason          string
	RegistrationID  domain.ID
	ParticipantName string
	InstitutionName string
	DOB             *time.Time
	HasDocuments    bool
}

// Verify never mutates state. It checks the raw token's validity and the
// competition's status in the order NotFound, Expired, Used, then status.
func (s *AdmissionService) Verify(ctx context.Context, repos *repository.Repositories, rawToken string) (*VerifyResult, error) {
	hash := s.tokens.Hash(rawToken)
	entryToken, err := repos.EntryTokens.GetByHash(ctx, hash)
	if err != nil {
		s.metrics.AdmissionVerifications.WithLabelValues("error").Inc()
		return nil, apperrors.New(apperrors.ErrorTypeNotFound, "entry token not found")
	}
	now := time.Now().UTC()
	if !now.Before(entryToken.ExpiresAt) {
		s.metrics.AdmissionVerifications.WithLabelValues("deny").Inc()
		return nil, apperrors.New(apperrors.ErrorTypeInvalidState, "entry token expired")
	}
	if entryToken.UsedAt != nil {
		s.metrics.AdmissionVerifications.WithLabelValues("deny").Inc()
		return nil, apperrors.New(apperrors.ErrorTypeInvalidState, "entry token already used")
	}

	reg, err := repos.Registrations.GetByID(ctx, entryToken.RegistrationID)
	if err != nil {
		s.metrics.AdmissionVerifications.WithLabelValues("error").Inc()
		return nil, err
	}
	participant, err := repos.Participants.GetByID(ctx, reg.ParticipantID)
	if err != nil {
		s.metrics.AdmissionVerifications.WithLabelValues("error").Inc()
		return nil, err
	}
	comp, err := repos.Competitions.GetByID(ctx, reg.CompetitionID)
	if err != nil {
		s.metrics.AdmissionVerifications.WithLabelValues("error").Inc()
		return nil, err
	}

	result := &VerifyResult{RegistrationID: reg.ID, ParticipantName: participant.FullName, DOB: participant.DOB}

	if participant.InstitutionID != nil {
		if inst, err := repos.Institutions.GetByID(ctx, *participant.InstitutionID); err == nil {
			result.InstitutionName = inst.Name
		}
	}
	docs, _ := repos.Documents.GetByParticipant(ctx, participant.ID)
	result.HasDocuments = len(docs) > 0

	if comp.Status != domain.CompetitionInProgress {
		result.CanProceed = false
		result.Reason = fmt.Sprintf("competition is %s, not in_progress", comp.Status)
		s.metrics.AdmissionVerifications.WithLabelValues("deny").Inc()
		return result, nil
	}
	result.CanProceed = true
	s.metrics.AdmissionVerifications.WithLabelValues("allow").Inc()
	return result, nil
}

// ApproveResult is returned to the caller after a successful approval.
type ApproveResult struct {
	AttemptID     domain.ID
	VariantNumber int
	PDFDownload   string
	RawSheetToken string
	RoomName      string
	SeatNumber    int
}

// Approve implements spec §4.F steps 1-12 as a single transaction.
func (s *AdmissionService) Approve(ctx context.Context, registrationID domain.ID, rawToken string, admitterID domain.ID, ip string) (*ApproveResult, error) {
	var result *ApproveResult
	err := s.runner.RunInTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		hash := s.tokens.Hash(rawToken)
		entryToken, err := repos.EntryTokens.GetByHash(ctx, hash)
		if err != nil {
			return apperrors.New(apperrors.ErrorTypeNotFound, "entry token not found")
		}
		if entryToken.RegistrationID != registrationID {
			return apperrors.New(apperrors.ErrorTypeValidation, "entry token does not belong to this registration")
		}

		now := time.Now().UTC()
		if err := entryToken.Use(now); err != nil {
			return err
		}
		if err := repos.EntryTokens.Update(ctx, entryToken); err != nil {
			return err
		}

		reg, err := repos.Registrations.GetByID(ctx, registrationID)
		if err != nil {
			return err
		}
		if err := reg.Admit(); err != nil {
			return err
		}
		if err := repos.Registrations.Update(ctx, reg); err != nil {
			return err
		}

		comp, err := repos.Competitions.GetByID(ctx, reg.CompetitionID)
		if err != nil {
			return err
		}
		participant, err := repos.Participants.GetByID(ctx, reg.ParticipantID)
		if err != nil {
			return err
		}

		var roomName string
		var seatNumber int
		variantNumber, err := pickVariant(ctx, repos, reg, participant, comp, &roomName, &seatNumber)
		if err != nil {
			return err
		}

		sheetPair, err := s.tokens.Generate(token.DefaultSizeBytes)
		if err != nil {
			return err
		}

		attempt, err := domain.NewAttempt(reg.ID, variantNumber, sheetPair.Hash)
		if err != nil {
			return err
		}

		pdfBytes, err := s.sheetRenderer.RenderAnswerSheet(ports.AnswerSheetRequest{
			CompetitionName: comp.Name,
			VariantNumber:   variantNumber,
			RawSheetToken:   sheetPair.Raw,
			ScoreFieldXMM:   s.scoreFieldXMM,
			ScoreFieldYMM:   s.scoreFieldYMM,
			ScoreFieldWMM:   s.scoreFieldWMM,
			ScoreFieldHMM:   s.scoreFieldHMM,
		})
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to render answer sheet")
		}

		objectKey := fmt.Sprintf("sheets/%s/%s.pdf", comp.ID, attempt.ID)
		if err := s.objectStore.Put(ctx, s.sheetsBucket, objectKey, pdfBytes, "application/pdf"); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to upload answer sheet")
		}
		attempt.SetPDFPath(objectKey)

		if err := repos.Attempts.Create(ctx, attempt); err != nil {
			return err
		}

		answerSheet, err := domain.NewAnswerSheet(attempt.ID, sheetPair.Hash, domain.AnswerSheetPrimary, objectKey)
		if err != nil {
			return err
		}
		if err := repos.AnswerSheets.Create(ctx, answerSheet); err != nil {
			return err
		}

		if err := reg.Complete(); err != nil {
			return err
		}
		if err := repos.Registrations.Update(ctx, reg); err != nil {
			return err
		}

		if err := audit.Record(ctx, repos.AuditLogs, "registration", reg.ID, "admitted", &admitterID, ip, map[string]interface{}{
			"variant_number": variantNumber,
			"attempt_id":     attempt.ID,
			"room":           roomName,
			"seat":           seatNumber,
		}); err != nil {
			return err
		}

		result = &ApproveResult{
			AttemptID:     attempt.ID,
			VariantNumber: variantNumber,
			PDFDownload:   fmt.Sprintf("admission/sheets/%s/download", attempt.ID),
			RawSheetToken: sheetPair.Raw,
			RoomName:      roomName,
			SeatNumber:    seatNumber,
		}
		return nil
	})
	if err != nil {
		s.metrics.AdmissionApprovals.WithLabelValues("error").Inc()
		return nil, err
	}
	s.metrics.AdmissionApprovals.WithLabelValues("success").Inc()
	return result, nil
}

// pickVariant invokes the seating scheduler when rooms exist, otherwise
// draws a uniformly random variant and leaves room/seat fields unset.
func pickVariant(ctx context.Context, repos *repository.Repositories, reg *domain.Registration, participant *domain.Participant, comp *domain.Competition, roomName *string, seatNumber *int) (int, error) {
	assignment, err := seating.Assign(ctx, repos, reg, participant, comp.VariantsCount)
	if err == seating.ErrNoRooms {
		n, randErr := cryptoRandInt(comp.VariantsCount)
		if randErr != nil {
			return 0, randErr
		}
		return n, nil
	}
	if err != nil {
		return 0, err
	}
	room, err := repos.Rooms.GetByID(ctx, assignment.RoomID)
	if err == nil {
		*roomName = room.Name
	}
	*seatNumber = assignment.SeatNumber
	return assignment.VariantNumber, nil
}

func cryptoRandInt(variantsCount int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(variantsCount)))
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to draw a random variant")
	}
	return int(n.Int64()) + 1, nil
}
