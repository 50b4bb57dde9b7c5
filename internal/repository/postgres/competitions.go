package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type competitionRow struct {
	ID                domain.ID `db:"id"`
	Name              string    `db:"name"`
	Date              time.Time `db:"date"`
	RegistrationStart time.Time `db:"registration_start"`
	RegistrationEnd   time.Time `db:"registration_end"`
	VariantsCount     int       `db:"variants_count"`
	MaxScore          int       `db:"max_score"`
	Status            string    `db:"status"`
	CreatedBy         domain.ID `db:"created_by"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r competitionRow) toDomain() *domain.Competition {
	return &domain.Competition{
		ID: r.ID, Name: r.Name, Date: r.Date,
		RegistrationStart: r.RegistrationStart, RegistrationEnd: r.RegistrationEnd,
		VariantsCount: r.VariantsCount, MaxScore: r.MaxScore,
		Status: domain.CompetitionStatus(r.Status), CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type competitionRepo struct{ q dbtx }

func (r *competitionRepo) Create(ctx context.Context, c *domain.Competition) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO competitions (id, name, date, registration_start, registration_end, variants_count, max_score, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Name, c.Date, c.RegistrationStart, c.RegistrationEnd, c.VariantsCount, c.MaxScore, c.Status, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert competition")
	}
	return nil
}

func (r *competitionRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Competition, error) {
	var row competitionRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM competitions WHERE id = $1`, id); err != nil {
		return nil, notFound("competition", err)
	}
	return row.toDomain(), nil
}

func (r *competitionRepo) Update(ctx context.Context, c *domain.Competition) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE competitions SET name = $2, date = $3, registration_start = $4, registration_end = $5,
			variants_count = $6, max_score = $7, status = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.Name, c.Date, c.RegistrationStart, c.RegistrationEnd, c.VariantsCount, c.MaxScore, c.Status, c.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update competition")
	}
	return nil
}

func (r *competitionRepo) Delete(ctx context.Context, id domain.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM competitions WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to delete competition")
	}
	return nil
}

func (r *competitionRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.Competition, error) {
	var rows []competitionRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM competitions ORDER BY date DESC OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list competitions")
	}
	out := make([]*domain.Competition, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *competitionRepo) GetByStatus(ctx context.Context, status domain.CompetitionStatus, skip, limit int) ([]*domain.Competition, error) {
	var rows []competitionRow
	err := r.q.SelectContext(ctx, &rows,
		`SELECT * FROM competitions WHERE status = $1 ORDER BY date DESC OFFSET $2 LIMIT $3`, status, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list competitions by status")
	}
	out := make([]*domain.Competition, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
