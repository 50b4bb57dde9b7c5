package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type participantRow struct {
	ID            domain.ID  `db:"id"`
	UserID        domain.ID  `db:"user_id"`
	FullName      string     `db:"full_name"`
	School        string     `db:"school"`
	Grade         *int       `db:"grade"`
	InstitutionID *domain.ID `db:"institution_id"`
	DOB           *time.Time `db:"dob"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r participantRow) toDomain() *domain.Participant {
	return &domain.Participant{
		ID: r.ID, UserID: r.UserID, FullName: r.FullName, School: r.School,
		Grade: r.Grade, InstitutionID: r.InstitutionID, DOB: r.DOB,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type participantRepo struct{ q dbtx }

func (r *participantRepo) Create(ctx context.Context, p *domain.Participant) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO participants (id, user_id, full_name, school, grade, institution_id, dob, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.UserID, p.FullName, p.School, p.Grade, p.InstitutionID, p.DOB, p.CreatedAt, p.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("participant")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert participant")
	}
	return nil
}

func (r *participantRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Participant, error) {
	var row participantRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM participants WHERE id = $1`, id); err != nil {
		return nil, notFound("participant", err)
	}
	return row.toDomain(), nil
}

func (r *participantRepo) GetByUserID(ctx context.Context, userID domain.ID) (*domain.Participant, error) {
	var row participantRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM participants WHERE user_id = $1`, userID); err != nil {
		return nil, notFound("participant", err)
	}
	return row.toDomain(), nil
}

func (r *participantRepo) Update(ctx context.Context, p *domain.Participant) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE participants SET full_name = $2, school = $3, grade = $4, institution_id = $5, dob = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.FullName, p.School, p.Grade, p.InstitutionID, p.DOB, p.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update participant")
	}
	return nil
}

func (r *participantRepo) Delete(ctx context.Context, id domain.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to delete participant")
	}
	return nil
}

func (r *participantRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.Participant, error) {
	var rows []participantRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM participants ORDER BY created_at OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list participants")
	}
	out := make([]*domain.Participant, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
