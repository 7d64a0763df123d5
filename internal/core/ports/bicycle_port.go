package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type BicycleRepository interface {
	CreateBicycle(ctx context.Context, bike *domain.Bicycle) (*domain.Bicycle, error)
	GetBicycleByID(ctx context.Context, id uuid.UUID) (*domain.Bicycle, error)
	ListBicycles(ctx context.Context) ([]*domain.Bicycle, error)
	ListBicyclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Bicycle, error)
	UpdateBicycle(ctx context.Context, bike *domain.Bicycle) (*domain.Bicycle, error)
	UpdateDisplayOrder(ctx context.Context, id uuid.UUID, displayOrder int) error
	DeleteBicycle(ctx context.Context, id uuid.UUID) error
}
