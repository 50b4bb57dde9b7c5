package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type registrationRow struct {
	ID            domain.ID `db:"id"`
	ParticipantID domain.ID `db:"participant_id"`
	CompetitionID domain.ID `db:"competition_id"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r registrationRow) toDomain() *domain.Registration {
	return &domain.Registration{
		ID: r.ID, ParticipantID: r.ParticipantID, CompetitionID: r.CompetitionID,
		Status: domain.RegistrationStatus(r.Status), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type registrationRepo struct{ q dbtx }

func (r *registrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO registrations (id, participant_id, competition_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		reg.ID, reg.ParticipantID, reg.CompetitionID, reg.Status, reg.CreatedAt, reg.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("registration")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert registration")
	}
	return nil
}

func (r *registrationRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Registration, error) {
	var row registrationRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM registrations WHERE id = $1`, id); err != nil {
		return nil, notFound("registration", err)
	}
	return row.toDomain(), nil
}

func (r *registrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	_, err := r.q.ExecContext(ctx, `UPDATE registrations SET status = $2, updated_at = $3 WHERE id = $1`,
		reg.ID, reg.Status, reg.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update registration")
	}
	return nil
}

func (r *registrationRepo) Delete(ctx context.Context, id domain.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to delete registration")
	}
	return nil
}

func (r *registrationRepo) GetByParticipantAndCompetition(ctx context.Context, participantID, competitionID domain.ID) (*domain.Registration, error) {
	var row registrationRow
	err := r.q.GetContext(ctx, &row,
		`SELECT * FROM registrations WHERE participant_id = $1 AND competition_id = $2`, participantID, competitionID)
	if err != nil {
		return nil, notFound("registration", err)
	}
	return row.toDomain(), nil
}

func (r *registrationRepo) GetByParticipant(ctx context.Context, participantID domain.ID, skip, limit int) ([]*domain.Registration, error) {
	var rows []registrationRow
	err := r.q.SelectContext(ctx, &rows,
		`SELECT * FROM registrations WHERE participant_id = $1 ORDER BY created_at OFFSET $2 LIMIT $3`, participantID, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list registrations")
	}
	out := make([]*domain.Registration, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *registrationRepo) GetByCompetition(ctx context.Context, competitionID domain.ID, skip, limit int) ([]*domain.Registration, error) {
	var rows []registrationRow
	err := r.q.SelectContext(ctx, &rows,
		`SELECT * FROM registrations WHERE competition_id = $1 ORDER BY created_at OFFSET $2 LIMIT $3`, competitionID, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list registrations")
	}
	out := make([]*domain.Registration, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
