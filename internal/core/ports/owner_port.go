package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type OwnerRepository interface {
	CreateOwner(ctx context.Context, owner *domain.Owner) (*domain.Owner, error)
	GetOwnerByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error)
	GetOwnerByUserID(ctx context.Context, userID uuid.UUID) (*domain.Owner, error)
	GetOwnerByEmail(ctx context.Context, email string) (*domain.Owner, error)
	GetOwnerByRUT(ctx context.Context, rut string) (*domain.Owner, error)
	ListOwners(ctx context.Context) ([]*domain.Owner, error)
	ListOwnersByRole(ctx context.Context, role domain.Role) ([]*domain.Owner, error)
	UpdateOwner(ctx context.Context, owner *domain.Owner) (*domain.Owner, error)
	LinkUserID(ctx context.Context, ownerID, userID uuid.UUID) (*domain.Owner, error)
	DeleteOwner(ctx context.Context, id uuid.UUID) error
	CountBicycles(ctx context.Context, ownerID uuid.UUID) (int, error)
}
