// Package workflow composes the domain, repository, and audit layers into
// the transactional operations the HTTP layer invokes (components F, G,
// H, I, J, K).
package workflow

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/token"
)

// RegistrationService implements component G: create a registration and
// its entry token, plus the refresh-token operation.
type RegistrationService struct {
	runner    repository.Runner
	tokens    *token.Service
	tokenTTL  time.Duration
}

func NewRegistrationService(runner repository.Runner, tokens *token.Service, tokenTTL time.Duration) *RegistrationService {
	return &RegistrationService{runner: runner, tokens: tokens, tokenTTL: tokenTTL}
}

// RegisterResult is returned to the caller: the new registration id and
// the raw entry token, shown once.
type RegisterResult struct {
	RegistrationID domain.ID
	RawToken       string
}

// Register implements spec §4.G steps 1-5.
func (s *RegistrationService) Register(ctx context.Context, participantID, competitionID domain.ID, skipStatusCheck bool) (*RegisterResult, error) {
	var result *RegisterResult
	err := s.runner.RunInTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		comp, err := repos.Competitions.GetByID(ctx, competitionID)
		if err != nil {
			return err
		}
		if !skipStatusCheck && comp.Status != domain.CompetitionRegistrationOpen {
			return apperrors.New(apperrors.ErrorTypeInvalidState, "registration is not open for this competition")
		}

		if _, err := repos.Registrations.GetByParticipantAndCompetition(ctx, participantID, competitionID); err == nil {
			return apperrors.NewConflictError("already registered for this competition")
		}

		reg := domain.NewRegistration(participantID, competitionID)
		if err := repos.Registrations.Create(ctx, reg); err != nil {
			return err
		}

		pair, err := s.tokens.Generate(token.DefaultSizeBytes)
		if err != nil {
			return err
		}
		entryToken := domain.NewEntryToken(reg.ID, pair.Hash, pair.Raw, s.tokenTTL)
		if err := repos.EntryTokens.Create(ctx, entryToken); err != nil {
			return err
		}

		if err := audit.Record(ctx, repos.AuditLogs, "registration", reg.ID, "registered", &participantID, "", map[string]interface{}{
			"competition_id": competitionID,
		}); err != nil {
			return err
		}

		result = &RegisterResult{RegistrationID: reg.ID, RawToken: pair.Raw}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RefreshToken regenerates the raw/hash pair for an expired, unused entry
// token, preserving the row's identity.
func (s *RegistrationService) RefreshToken(ctx context.Context, registrationID domain.ID) (string, error) {
	var raw string
	err := s.runner.RunInTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		entryToken, err := repos.EntryTokens.GetByRegistration(ctx, registrationID)
		if err != nil {
			return err
		}
		if time.Now().UTC().Before(entryToken.ExpiresAt) {
			return apperrors.New(apperrors.ErrorTypeInvalidState, "entry token has not expired")
		}

		pair, err := s.tokens.Generate(token.DefaultSizeBytes)
		if err != nil {
			return err
		}
		if err := entryToken.Refresh(pair.Hash, pair.Raw, s.tokenTTL); err != nil {
			return err
		}
		if err := repos.EntryTokens.Update(ctx, entryToken); err != nil {
			return err
		}

		if err := audit.Record(ctx, repos.AuditLogs, "entry_token", entryToken.ID, "refreshed", nil, "", nil); err != nil {
			return err
		}

		raw = pair.Raw
		return nil
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}
