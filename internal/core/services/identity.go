package services

import (
	"context"
	"errors"

	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
)

type IdentityService struct {
	ownerRepo ports.OwnerRepository
	logger    ports.LoggerPort
}

func NewIdentityService(ownerRepo ports.OwnerRepository, logger ports.LoggerPort) *IdentityService {
	return &IdentityService{
		ownerRepo: ownerRepo,
		logger:    logger,
	}
}

// Resolve maps an authenticated identity to a local owner profile: first by
// the stable auth uid, then by email. An email match persists the uid onto
// the profile so the next sign-in hits the first lookup (self-healing link).
// domain.ErrNotFound means "no profile": deny access, force sign-out.
func (s *IdentityService) Resolve(ctx context.Context, identity *domain.Identity) (*domain.Session, error) {
	owner, err := s.ownerRepo.GetOwnerByUserID(ctx, identity.UserID)
	if err == nil {
		return sessionFor(owner, identity), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Failed to look up owner by auth uid", map[string]interface{}{
			"error":   err.Error(),
			"user_id": identity.UserID.String(),
		})
		return nil, err
	}

	owner, err = s.ownerRepo.GetOwnerByEmail(ctx, identity.Email)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("No owner profile for identity", map[string]interface{}{
			"user_id": identity.UserID.String(),
			"email":   identity.Email,
		})
		return nil, domain.ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to look up owner by email", map[string]interface{}{
			"error": err.Error(),
			"email": identity.Email,
		})
		return nil, err
	}

	linked, err := s.ownerRepo.LinkUserID(ctx, owner.ID, identity.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Linked auth account to owner profile", map[string]interface{}{
		"owner_id": linked.ID.String(),
		"user_id":  identity.UserID.String(),
	})

	return sessionFor(linked, identity), nil
}

func sessionFor(owner *domain.Owner, identity *domain.Identity) *domain.Session {
	return &domain.Session{
		OwnerID: owner.ID,
		UserID:  identity.UserID,
		Email:   owner.Email,
		Name:    owner.Name,
		Role:    owner.Role,
	}
}
