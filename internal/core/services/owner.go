package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
)

type OwnerService struct {
	ownerRepo ports.OwnerRepository
	audit     *AuditService
	logger    ports.LoggerPort
	validate  *validator.Validate
}

func NewOwnerService(
	ownerRepo ports.OwnerRepository,
	audit *AuditService,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *OwnerService {
	return &OwnerService{
		ownerRepo: ownerRepo,
		audit:     audit,
		logger:    logger,
		validate:  validate,
	}
}

func (s *OwnerService) CreateOwner(ctx context.Context, session *domain.Session, owner *domain.Owner) (*domain.Owner, error) {
	if err := s.validate.Struct(owner); err != nil {
		s.logger.Error("Owner validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Advisory uniqueness pre-checks; the unique constraints in the store
	// remain the authority and surface as the same conflict.
	if err := s.checkUniqueness(ctx, owner.RUT, owner.Email, uuid.Nil); err != nil {
		return nil, err
	}

	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}

	created, err := s.ownerRepo.CreateOwner(ctx, owner)
	if err != nil {
		s.logger.Error("Failed to create owner", map[string]interface{}{
			"error": err.Error(),
			"rut":   owner.RUT,
		})
		return nil, err
	}

	s.audit.Record(ctx, session, domain.ActionCreate, domain.EntityOwner, created.ID,
		fmt.Sprintf("Created owner %s", created.Name), nil, created)

	s.logger.Info("Owner created successfully", map[string]interface{}{
		"owner_id": created.ID.String(),
		"role":     created.Role,
	})

	return created, nil
}

func (s *OwnerService) GetOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid owner ID", domain.ErrValidation)
	}
	owner, err := s.ownerRepo.GetOwnerByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get owner", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": ownerID,
		})
		return nil, err
	}
	return owner, nil
}

// ListOwners returns the full collection for staff and only the caller's own
// profile for customers. Advisory: row-level policies also apply at the store.
func (s *OwnerService) ListOwners(ctx context.Context, session *domain.Session) ([]*domain.Owner, error) {
	if !session.Capabilities().CanViewAllOwners {
		owner, err := s.ownerRepo.GetOwnerByID(ctx, session.OwnerID)
		if err != nil {
			return nil, err
		}
		return []*domain.Owner{owner}, nil
	}
	return s.ownerRepo.ListOwners(ctx)
}

// ListAssignableOwners feeds the owner picker: customers only. A non-customer
// owner on a bicycle is blocked here and nowhere else, by design of the
// source system.
func (s *OwnerService) ListAssignableOwners(ctx context.Context) ([]*domain.Owner, error) {
	return s.ownerRepo.ListOwnersByRole(ctx, domain.RoleCustomer)
}

func (s *OwnerService) UpdateOwner(ctx context.Context, session *domain.Session, ownerID string, update *domain.OwnerUpdate) (*domain.Owner, error) {
	existing, err := s.GetOwnerByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	next := *existing
	update.ApplyTo(&next)

	if err := s.validate.Struct(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if next.RUT != existing.RUT || next.Email != existing.Email {
		if err := s.checkUniqueness(ctx, next.RUT, next.Email, existing.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.ownerRepo.UpdateOwner(ctx, &next)
	if err != nil {
		s.logger.Error("Failed to update owner", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": ownerID,
		})
		return nil, err
	}

	s.audit.Record(ctx, session, domain.ActionUpdate, domain.EntityOwner, updated.ID,
		fmt.Sprintf("Updated owner %s", updated.Name), existing, updated)

	s.logger.Info("Owner updated successfully", map[string]interface{}{
		"owner_id": updated.ID.String(),
	})

	return updated, nil
}

// DeleteOwner fails with ErrConstraint while any bicycle references the
// owner; the row stays present.
func (s *OwnerService) DeleteOwner(ctx context.Context, session *domain.Session, ownerID string) error {
	existing, err := s.GetOwnerByID(ctx, ownerID)
	if err != nil {
		return err
	}

	count, err := s.ownerRepo.CountBicycles(ctx, existing.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Warn("Owner delete blocked by registered bicycles", map[string]interface{}{
			"owner_id": ownerID,
			"bicycles": count,
		})
		return fmt.Errorf("%w: owner has %d registered bicycles", domain.ErrConstraint, count)
	}

	if err := s.ownerRepo.DeleteOwner(ctx, existing.ID); err != nil {
		s.logger.Error("Failed to delete owner", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": ownerID,
		})
		return err
	}

	s.audit.Record(ctx, session, domain.ActionDelete, domain.EntityOwner, existing.ID,
		fmt.Sprintf("Deleted owner %s", existing.Name), existing, nil)

	s.logger.Info("Owner deleted successfully", map[string]interface{}{
		"owner_id": ownerID,
	})

	return nil
}

func (s *OwnerService) CountBicycles(ctx context.Context, ownerID string) (int, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid owner ID", domain.ErrValidation)
	}
	return s.ownerRepo.CountBicycles(ctx, id)
}

func (s *OwnerService) checkUniqueness(ctx context.Context, rut, email string, selfID uuid.UUID) error {
	byRUT, err := s.ownerRepo.GetOwnerByRUT(ctx, rut)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if byRUT != nil && byRUT.ID != selfID {
		return fmt.Errorf("%w: an owner with this RUT already exists", domain.ErrConflict)
	}

	byEmail, err := s.ownerRepo.GetOwnerByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if byEmail != nil && byEmail.ID != selfID {
		return fmt.Errorf("%w: an owner with this email already exists", domain.ErrConflict)
	}
	return nil
}
