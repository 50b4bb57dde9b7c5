package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type userRow struct {
	ID           domain.ID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type userRepo struct{ q dbtx }

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("user")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert user")
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	var row userRow
	err := r.q.GetContext(ctx, &row, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	return row.toDomain(), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	err := r.q.GetContext(ctx, &row, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, notFound("user", err)
	}
	return row.toDomain(), nil
}

func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users SET email = $2, password_hash = $3, role = $4, is_active = $5, updated_at = $6
		WHERE id = $1`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.IsActive, u.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("user")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update user")
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id domain.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to delete user")
	}
	return nil
}

func (r *userRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	var rows []userRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM users ORDER BY created_at OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list users")
	}
	out := make([]*domain.User, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
