package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type MaintenanceRepository interface {
	CreateMaintenance(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error)
	GetMaintenanceByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error)
	ListMaintenancesByBicycle(ctx context.Context, bicycleID uuid.UUID) ([]*domain.Maintenance, error)
	UpdateMaintenance(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error)
	DeleteMaintenance(ctx context.Context, id uuid.UUID) error
	TotalCost(ctx context.Context, bicycleID uuid.UUID) (int64, error)
	LastMaintenanceDate(ctx context.Context, bicycleID uuid.UUID) (string, error)
}
