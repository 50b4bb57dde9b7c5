package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type roomRow struct {
	ID            domain.ID `db:"id"`
	CompetitionID domain.ID `db:"competition_id"`
	Name          string    `db:"name"`
	Capacity      int       `db:"capacity"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r roomRow) toDomain() *domain.Room {
	return &domain.Room{
		ID: r.ID, CompetitionID: r.CompetitionID, Name: r.Name, Capacity: r.Capacity,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type roomRepo struct{ q dbtx }

func (r *roomRepo) Create(ctx context.Context, room *domain.Room) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO rooms (id, competition_id, name, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		room.ID, room.CompetitionID, room.Name, room.Capacity, room.CreatedAt, room.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("room")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert room")
	}
	return nil
}

func (r *roomRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Room, error) {
	var row roomRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM rooms WHERE id = $1`, id); err != nil {
		return nil, notFound("room", err)
	}
	return row.toDomain(), nil
}

func (r *roomRepo) Update(ctx context.Context, room *domain.Room) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE rooms SET name = $2, capacity = $3, updated_at = $4 WHERE id = $1`,
		room.ID, room.Name, room.Capacity, room.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("room")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update room")
	}
	return nil
}

func (r *roomRepo) Delete(ctx context.Context, id domain.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to delete room")
	}
	return nil
}

func (r *roomRepo) GetByCompetition(ctx context.Context, competitionID domain.ID) ([]*domain.Room, error) {
	var rows []roomRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM rooms WHERE competition_id = $1 ORDER BY name`, competitionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list rooms")
	}
	out := make([]*domain.Room, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *roomRepo) GetByCompetitionAndName(ctx context.Context, competitionID domain.ID, name string) (*domain.Room, error) {
	var row roomRow
	err := r.q.GetContext(ctx, &row, `SELECT * FROM rooms WHERE competition_id = $1 AND name = $2`, competitionID, name)
	if err != nil {
		return nil, notFound("room", err)
	}
	return row.toDomain(), nil
}
