package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type entryTokenRow struct {
	ID             domain.ID  `db:"id"`
	RegistrationID domain.ID  `db:"registration_id"`
	TokenHash      string     `db:"token_hash"`
	RawToken       string     `db:"raw_token"`
	ExpiresAt      time.Time  `db:"expires_at"`
	UsedAt         *time.Time `db:"used_at"`
	CreatedAt      time.Time  `db:"created_at"`
}

func (r entryTokenRow) toDomain() *domain.EntryToken {
	return &domain.EntryToken{
		ID: r.ID, RegistrationID: r.RegistrationID, TokenHash: r.TokenHash, RawToken: r.RawToken,
		ExpiresAt: r.ExpiresAt, UsedAt: r.UsedAt, CreatedAt: r.CreatedAt,
	}
}

type entryTokenRepo struct{ q dbtx }

func (r *entryTokenRepo) Create(ctx context.Context, t *domain.EntryToken) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO entry_tokens (id, registration_id, token_hash, raw_token, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.RegistrationID, t.TokenHash, t.RawToken, t.ExpiresAt, t.UsedAt, t.CreatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("entry_token")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert entry token")
	}
	return nil
}

func (r *entryTokenRepo) GetByID(ctx context.Context, id domain.ID) (*domain.EntryToken, error) {
	var row entryTokenRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM entry_tokens WHERE id = $1`, id); err != nil {
		return nil, notFound("entry_token", err)
	}
	return row.toDomain(), nil
}

func (r *entryTokenRepo) GetByHash(ctx context.Context, hash string) (*domain.EntryToken, error) {
	var row entryTokenRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM entry_tokens WHERE token_hash = $1`, hash); err != nil {
		return nil, notFound("entry_token", err)
	}
	return row.toDomain(), nil
}

func (r *entryTokenRepo) GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.EntryToken, error) {
	var row entryTokenRow
	err := r.q.GetContext(ctx, &row, `SELECT * FROM entry_tokens WHERE registration_id = $1`, registrationID)
	if err != nil {
		return nil, notFound("entry_token", err)
	}
	return row.toDomain(), nil
}

func (r *entryTokenRepo) Update(ctx context.Context, t *domain.EntryToken) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE entry_tokens SET token_hash = $2, raw_token = $3, expires_at = $4, used_at = $5 WHERE id = $1`,
		t.ID, t.TokenHash, t.RawToken, t.ExpiresAt, t.UsedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update entry token")
	}
	return nil
}
