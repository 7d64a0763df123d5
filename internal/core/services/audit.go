package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
)

type AuditService struct {
	auditRepo ports.AuditRepository
	logger    ports.LoggerPort
}

func NewAuditService(auditRepo ports.AuditRepository, logger ports.LoggerPort) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record appends one audit entry for a CRUD side effect, diffing the before
// and after snapshots field by field. A failed append is logged and swallowed
// so the primary operation is never rolled back by its audit trail.
func (s *AuditService) Record(
	ctx context.Context,
	session *domain.Session,
	action domain.AuditAction,
	entityType domain.EntityType,
	entityID uuid.UUID,
	description string,
	before, after interface{},
) {
	entry := &domain.AuditLog{
		ID:          uuid.New(),
		UserEmail:   session.Email,
		UserName:    session.Name,
		UserRole:    session.Role,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		Changes:     domain.DiffChanges(snapshot(before), snapshot(after)),
	}

	if err := s.auditRepo.AppendAuditLog(ctx, entry); err != nil {
		s.logger.Warn("Failed to append audit log", map[string]interface{}{
			"error":       err.Error(),
			"entity_type": entityType,
			"entity_id":   entityID,
			"action":      action,
		})
		return
	}

	s.logger.Info("Audit log appended", map[string]interface{}{
		"entity_type": entityType,
		"entity_id":   entityID,
		"action":      action,
		"user_email":  session.Email,
	})
}

func (s *AuditService) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if filter.Limit == 0 {
		filter.Limit = 100
	}
	entries, err := s.auditRepo.ListAuditLogs(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list audit logs", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return entries, nil
}

// snapshot flattens an entity into a snake_case field map for diffing. Nested
// legacy camelCase keys inside jsonb sub-records are normalized too, so diffs
// always speak the storage convention.
func snapshot(v interface{}) map[string]interface{} {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil
	}
	converted, ok := domain.ToSnakeCase(generic).(map[string]interface{})
	if !ok {
		return nil
	}
	// Nested structures are compared by value as a whole field.
	for k, nested := range converted {
		switch nested.(type) {
		case map[string]interface{}, []interface{}:
			converted[k] = canonicalJSON(nested)
		}
	}
	return converted
}

func canonicalJSON(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
