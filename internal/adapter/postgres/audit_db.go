package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/japezoa/bike-manager/internal/core/domain"
)

// AuditRepository only ever inserts and selects. No update or delete
// statement exists anywhere in this file.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) AppendAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}

	query := `INSERT INTO audit_logs (id, user_email, user_name, user_role, action,
			entity_type, entity_id, description, changes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query,
		entry.ID,
		entry.UserEmail,
		entry.UserName,
		entry.UserRole,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Description,
		changes,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (r *AuditRepository) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT id, created_at, user_email, user_name, user_role, action, entity_type,
		entity_id, description, changes FROM audit_logs`

	var (
		conditions []string
		args       []interface{}
	)
	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, clause+" $"+strconv.Itoa(len(args)))
	}

	if filter.Action != "" {
		addCondition("action =", filter.Action)
	}
	if filter.EntityType != "" {
		addCondition("entity_type =", filter.EntityType)
	}
	if filter.EntityID != nil {
		addCondition("entity_id =", *filter.EntityID)
	}
	if filter.UserEmail != "" {
		addCondition("user_email =", filter.UserEmail)
	}
	if filter.UserRole != "" {
		addCondition("user_role =", filter.UserRole)
	}
	if filter.Since != nil {
		addCondition("created_at >=", *filter.Since)
	}
	if filter.Until != nil {
		addCondition("created_at <=", *filter.Until)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var entries []*domain.AuditLog
	for rows.Next() {
		entry := &domain.AuditLog{}
		var changes []byte
		err := rows.Scan(
			&entry.ID,
			&entry.CreatedAt,
			&entry.UserEmail,
			&entry.UserName,
			&entry.UserRole,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Description,
			&changes,
		)
		if err != nil {
			return nil, translateError(err)
		}
		if len(changes) > 0 && string(changes) != "null" {
			if err := json.Unmarshal(changes, &entry.Changes); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrBackend, err)
			}
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}
