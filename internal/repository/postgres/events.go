package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type eventRow struct {
	ID         domain.ID `db:"id"`
	AttemptID  domain.ID `db:"attempt_id"`
	EventType  string    `db:"event_type"`
	Timestamp  time.Time `db:"timestamp"`
	RecordedBy domain.ID `db:"recorded_by"`
}

func (r eventRow) toDomain() *domain.ParticipantEvent {
	return &domain.ParticipantEvent{
		ID: r.ID, AttemptID: r.AttemptID, EventType: domain.EventType(r.EventType),
		Timestamp: r.Timestamp, RecordedBy: r.RecordedBy,
	}
}

type eventRepo struct{ q dbtx }

func (r *eventRepo) Create(ctx context.Context, e *domain.ParticipantEvent) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO participant_events (id, attempt_id, event_type, timestamp, recorded_by)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.AttemptID, e.EventType, e.Timestamp, e.RecordedBy)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert participant event")
	}
	return nil
}

func (r *eventRepo) GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.ParticipantEvent, error) {
	var rows []eventRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM participant_events WHERE attempt_id = $1 ORDER BY timestamp`, attemptID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list participant events")
	}
	out := make([]*domain.ParticipantEvent, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
