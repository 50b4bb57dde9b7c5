package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type auditLogRow struct {
	ID         domain.ID  `db:"id"`
	EntityType string     `db:"entity_type"`
	EntityID   domain.ID  `db:"entity_id"`
	Action     string     `db:"action"`
	UserID     *domain.ID `db:"user_id"`
	IPAddress  string     `db:"ip_address"`
	Details    []byte     `db:"details"`
	Timestamp  time.Time  `db:"timestamp"`
}

func (r auditLogRow) toDomain() (*domain.AuditLog, error) {
	details := map[string]interface{}{}
	if len(r.Details) > 0 {
		if err := json.Unmarshal(r.Details, &details); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to decode audit log details")
		}
	}
	return &domain.AuditLog{
		ID: r.ID, EntityType: r.EntityType, EntityID: r.EntityID, Action: r.Action,
		UserID: r.UserID, IPAddress: r.IPAddress, Details: details, Timestamp: r.Timestamp,
	}, nil
}

type auditLogRepo struct{ q dbtx }

func (r *auditLogRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode audit log details")
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO audit_logs (id, entity_type, entity_id, action, user_id, ip_address, details, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.EntityType, a.EntityID, a.Action, a.UserID, a.IPAddress, details, a.Timestamp)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert audit log")
	}
	return nil
}

func (r *auditLogRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.AuditLog, error) {
	var rows []auditLogRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM audit_logs ORDER BY timestamp DESC OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list audit logs")
	}
	out := make([]*domain.AuditLog, len(rows))
	for i, row := range rows {
		log, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = log
	}
	return out, nil
}

func (r *auditLogRepo) GetByEntity(ctx context.Context, entityType string, entityID domain.ID) ([]*domain.AuditLog, error) {
	var rows []auditLogRow
	err := r.q.SelectContext(ctx, &rows,
		`SELECT * FROM audit_logs WHERE entity_type = $1 AND entity_id = $2 ORDER BY timestamp`, entityType, entityID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list audit logs by entity")
	}
	out := make([]*domain.AuditLog, len(rows))
	for i, row := range rows {
		log, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = log
	}
	return out, nil
}
