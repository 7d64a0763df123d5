package ports

import (
	"context"

	"github.com/japezoa/bike-manager/internal/core/domain"
)

// AuditRepository is append-plus-read only. There is deliberately no update
// or delete operation.
type AuditRepository interface {
	AppendAuditLog(ctx context.Context, entry *domain.AuditLog) error
	ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}
