package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type institutionRow struct {
	ID        domain.ID `db:"id"`
	Name      string    `db:"name"`
	ShortName string    `db:"short_name"`
	City      string    `db:"city"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r institutionRow) toDomain() *domain.Institution {
	return &domain.Institution{
		ID: r.ID, Name: r.Name, ShortName: r.ShortName, City: r.City,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type institutionRepo struct{ q dbtx }

func (r *institutionRepo) Create(ctx context.Context, i *domain.Institution) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO institutions (id, name, short_name, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		i.ID, i.Name, i.ShortName, i.City, i.CreatedAt, i.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("institution")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert institution")
	}
	return nil
}

func (r *institutionRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Institution, error) {
	var row institutionRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM institutions WHERE id = $1`, id); err != nil {
		return nil, notFound("institution", err)
	}
	return row.toDomain(), nil
}

func (r *institutionRepo) GetByName(ctx context.Context, name string) (*domain.Institution, error) {
	var row institutionRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM institutions WHERE name = $1`, name); err != nil {
		return nil, notFound("institution", err)
	}
	return row.toDomain(), nil
}

func (r *institutionRepo) Update(ctx context.Context, i *domain.Institution) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE institutions SET name = $2, short_name = $3, city = $4, updated_at = $5 WHERE id = $1`,
		i.ID, i.Name, i.ShortName, i.City, i.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("institution")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update institution")
	}
	return nil
}

func (r *institutionRepo) Delete(ctx context.Context, id domain.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM institutions WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to delete institution")
	}
	return nil
}

func (r *institutionRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.Institution, error) {
	var rows []institutionRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM institutions ORDER BY name OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list institutions")
	}
	out := make([]*domain.Institution, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// Search matches institution names case-insensitively for autocomplete.
func (r *institutionRepo) Search(ctx context.Context, q string, limit int) ([]*domain.Institution, error) {
	var rows []institutionRow
	err := r.q.SelectContext(ctx, &rows,
		`SELECT * FROM institutions WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2`, q, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to search institutions")
	}
	out := make([]*domain.Institution, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
