package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
)

type EntityType string

const (
	EntityBicycle     EntityType = "bicycle"
	EntityOwner       EntityType = "owner"
	EntityMaintenance EntityType = "maintenance"
	EntityWorkOrder   EntityType = "work_order"
)

// FieldChange is one before/after pair inside an audit entry.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// AuditLog is append-only; the application never updates or deletes entries.
type AuditLog struct {
	ID          uuid.UUID              `json:"id"`
	CreatedAt   time.Time              `json:"created_at"`
	UserEmail   string                 `json:"user_email"`
	UserName    string                 `json:"user_name"`
	UserRole    Role                   `json:"user_role"`
	Action      AuditAction            `json:"action"`
	EntityType  EntityType             `json:"entity_type"`
	EntityID    uuid.UUID              `json:"entity_id"`
	Description string                 `json:"description"`
	Changes     map[string]FieldChange `json:"changes,omitempty"`
}

// AuditFilter narrows an audit listing. Zero values are ignored.
type AuditFilter struct {
	Action     AuditAction
	EntityType EntityType
	EntityID   *uuid.UUID
	UserEmail  string
	UserRole   Role
	Since      *time.Time
	Until      *time.Time
	Limit      int
}

// DiffChanges compares two field snapshots and keeps only the fields whose
// values differ. Values are compared by their canonical string form so that
// numbers arriving as int vs float64 after a JSON round trip still match.
func DiffChanges(before, after map[string]interface{}) map[string]FieldChange {
	changes := make(map[string]FieldChange)
	for key, newVal := range after {
		oldVal, existed := before[key]
		if !existed || fmt.Sprintf("%v", oldVal) != fmt.Sprintf("%v", newVal) {
			changes[key] = FieldChange{Old: oldVal, New: newVal}
		}
	}
	for key, oldVal := range before {
		if _, still := after[key]; !still {
			changes[key] = FieldChange{Old: oldVal, New: nil}
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

// FormatChanges renders a diff as `field: "old" → "new"` pairs, sorted by
// field name for stable output.
func FormatChanges(changes map[string]FieldChange) string {
	if len(changes) == 0 {
		return ""
	}
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		c := changes[k]
		parts = append(parts, fmt.Sprintf("%s: %q → %q", k, fmt.Sprintf("%v", c.Old), fmt.Sprintf("%v", c.New)))
	}
	return strings.Join(parts, ", ")
}
