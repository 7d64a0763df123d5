package domain

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceType string

const (
	MaintenancePart  MaintenanceType = "repuesto"
	MaintenanceLabor MaintenanceType = "mano_de_obra"
)

// Maintenance is a normalized service entry for one bicycle. Cost and the
// kilometer checkpoints are optional.
type Maintenance struct {
	ID                        uuid.UUID       `json:"id"`
	BicycleID                 uuid.UUID       `json:"bicycle_id" validate:"required"`
	Date                      string          `json:"date" validate:"required"`
	MaintenanceType           MaintenanceType `json:"maintenance_type" validate:"required,oneof=repuesto mano_de_obra"`
	Description               string          `json:"description" validate:"required"`
	Cost                      *int64          `json:"cost,omitempty" validate:"omitempty,min=0"`
	KilometersAtMaintenance   *int            `json:"kilometers_at_maintenance,omitempty" validate:"omitempty,min=0"`
	NextMaintenanceKilometers *int            `json:"next_maintenance_kilometers,omitempty" validate:"omitempty,min=0"`
	CreatedBy                 *uuid.UUID      `json:"created_by,omitempty"`
	UpdatedBy                 *uuid.UUID      `json:"updated_by,omitempty"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

type MaintenanceUpdate struct {
	Date                      *string          `json:"date,omitempty"`
	MaintenanceType           *MaintenanceType `json:"maintenance_type,omitempty"`
	Description               *string          `json:"description,omitempty"`
	Cost                      *int64           `json:"cost,omitempty"`
	KilometersAtMaintenance   *int             `json:"kilometers_at_maintenance,omitempty"`
	NextMaintenanceKilometers *int             `json:"next_maintenance_kilometers,omitempty"`
}

func (u *MaintenanceUpdate) ApplyTo(m *Maintenance) {
	if u.Date != nil {
		m.Date = *u.Date
	}
	if u.MaintenanceType != nil {
		m.MaintenanceType = *u.MaintenanceType
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Cost != nil {
		m.Cost = u.Cost
	}
	if u.KilometersAtMaintenance != nil {
		m.KilometersAtMaintenance = u.KilometersAtMaintenance
	}
	if u.NextMaintenanceKilometers != nil {
		m.NextMaintenanceKilometers = u.NextMaintenanceKilometers
	}
}
