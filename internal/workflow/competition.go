package workflow

import (
	"context"

	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

// CompetitionService implements component K: a thin wrapper resolving the
// id, invoking the requested transition, and persisting + auditing it.
type CompetitionService struct {
	runner repository.Runner
}

func NewCompetitionService(runner repository.Runner) *CompetitionService {
	return &CompetitionService{runner: runner}
}

type transitionFunc func(*domain.Competition) error

func (s *CompetitionService) transition(ctx context.Context, id domain.ID, action string, actorID domain.ID, fn transitionFunc) (*domain.Competition, error) {
	var comp *domain.Competition
	err := s.runner.RunInTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		comp, err = repos.Competitions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(comp); err != nil {
			return err
		}
		if err := repos.Competitions.Update(ctx, comp); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "competition", comp.ID, action, &actorID, "", map[string]interface{}{
			"status": comp.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return comp, nil
}

func (s *CompetitionService) OpenRegistration(ctx context.Context, id, actorID domain.ID) (*domain.Competition, error) {
	return s.transition(ctx, id, "open_registration", actorID, (*domain.Competition).OpenRegistration)
}

func (s *CompetitionService) Start(ctx context.Context, id, actorID domain.ID) (*domain.Competition, error) {
	return s.transition(ctx, id, "start", actorID, (*domain.Competition).Start)
}

func (s *CompetitionService) StartChecking(ctx context.Context, id, actorID domain.ID) (*domain.Competition, error) {
	return s.transition(ctx, id, "start_checking", actorID, (*domain.Competition).StartChecking)
}

// Publish transitions the competition only. Whether this cascades into
// publishing attempts was an open question in the source; the decision
// here is that it does NOT cascade — attempts are published individually
// via the scoring workflow.
func (s *CompetitionService) Publish(ctx context.Context, id, actorID domain.ID) (*domain.Competition, error) {
	return s.transition(ctx, id, "publish", actorID, (*domain.Competition).Publish)
}
