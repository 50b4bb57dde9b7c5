// Package audit appends the single record each state-changing workflow
// writes in the same transaction as the mutation it describes (component D).
package audit

import (
	"context"

	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

// Record writes one AuditLog row. Callers pass nil userID for
// system-initiated actions (e.g. the OCR worker). A failure here must
// propagate and abort the surrounding transaction — it is never swallowed.
func Record(ctx context.Context, repo repository.AuditLogRepository, entityType string, entityID domain.ID, action string, userID *domain.ID, ipAddress string, details map[string]interface{}) error {
	entry := domain.NewAuditLog(entityType, entityID, action, userID, ipAddress, details)
	return repo.Create(ctx, entry)
}
