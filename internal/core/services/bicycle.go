package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
)

const bicycleCacheTTL = 15 * time.Minute

type BicycleService struct {
	bicycleRepo ports.BicycleRepository
	ownerRepo   ports.OwnerRepository
	audit       *AuditService
	logger      ports.LoggerPort
	validate    *validator.Validate
	cache       ports.CachePort
}

func NewBicycleService(
	bicycleRepo ports.BicycleRepository,
	ownerRepo ports.OwnerRepository,
	audit *AuditService,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *BicycleService {
	return &BicycleService{
		bicycleRepo: bicycleRepo,
		ownerRepo:   ownerRepo,
		audit:       audit,
		logger:      logger,
		validate:    validate,
		cache:       cache,
	}
}

func (s *BicycleService) CreateBicycle(ctx context.Context, session *domain.Session, bike *domain.Bicycle) (*domain.Bicycle, error) {
	if err := s.validate.Struct(bike); err != nil {
		s.logger.Error("Bicycle validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if bike.ID == uuid.Nil {
		bike.ID = uuid.New()
	}

	created, err := s.bicycleRepo.CreateBicycle(ctx, bike)
	if err != nil {
		s.logger.Error("Failed to create bicycle", map[string]interface{}{
			"error": err.Error(),
			"name":  bike.Name,
		})
		return nil, err
	}

	s.audit.Record(ctx, session, domain.ActionCreate, domain.EntityBicycle, created.ID,
		fmt.Sprintf("Created bicycle %s", created.Name), nil, created)

	s.logger.Info("Bicycle created successfully", map[string]interface{}{
		"bicycle_id": created.ID.String(),
	})

	return created, nil
}

func (s *BicycleService) GetBicycleByID(ctx context.Context, bicycleID string) (*domain.Bicycle, error) {
	id, err := uuid.Parse(bicycleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bicycle ID", domain.ErrValidation)
	}

	cacheKey := fmt.Sprintf("bicycle:%s", bicycleID)
	cachedData, err := s.cache.Get(cacheKey)
	if err == nil {
		var cached domain.Bicycle
		if err := json.Unmarshal(cachedData, &cached); err == nil {
			return &cached, nil
		}
	}

	bike, err := s.bicycleRepo.GetBicycleByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get bicycle", map[string]interface{}{
			"error":      err.Error(),
			"bicycle_id": bicycleID,
		})
		return nil, err
	}

	if bike.OwnerID != nil {
		owner, err := s.ownerRepo.GetOwnerByID(ctx, *bike.OwnerID)
		if err == nil {
			bike.Owner = owner
		}
	}

	if data, err := json.Marshal(bike); err == nil {
		if err := s.cache.Set(cacheKey, data, bicycleCacheTTL); err != nil {
			s.logger.Warn("Failed to cache bicycle", map[string]interface{}{
				"error":      err.Error(),
				"bicycle_id": bicycleID,
			})
		}
	}

	return bike, nil
}

// ListBicycles applies the role visibility rule: customers only see their own
// bicycles, staff see everything narrowed by the filter. The storage tier's
// row-level policies remain the real enforcement.
func (s *BicycleService) ListBicycles(ctx context.Context, session *domain.Session, filter domain.BicycleFilter) ([]*domain.Bicycle, error) {
	bikes, err := s.bicycleRepo.ListBicycles(ctx)
	if err != nil {
		s.logger.Error("Failed to list bicycles", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	visible := domain.VisibleBicycles(session, bikes, filter)

	s.logger.Info("Listed bicycles", map[string]interface{}{
		"total":   len(bikes),
		"visible": len(visible),
		"role":    session.Role,
	})

	return visible, nil
}

func (s *BicycleService) UpdateBicycle(ctx context.Context, session *domain.Session, bicycleID string, apply func(*domain.Bicycle)) (*domain.Bicycle, error) {
	existing, err := s.GetBicycleByID(ctx, bicycleID)
	if err != nil {
		return nil, err
	}

	next := *existing
	next.Owner = nil
	apply(&next)

	if err := s.validate.Struct(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	updated, err := s.bicycleRepo.UpdateBicycle(ctx, &next)
	if err != nil {
		s.logger.Error("Failed to update bicycle", map[string]interface{}{
			"error":      err.Error(),
			"bicycle_id": bicycleID,
		})
		return nil, err
	}

	s.invalidate(bicycleID)

	s.audit.Record(ctx, session, domain.ActionUpdate, domain.EntityBicycle, updated.ID,
		fmt.Sprintf("Updated bicycle %s", updated.Name), existing, updated)

	s.logger.Info("Bicycle updated successfully", map[string]interface{}{
		"bicycle_id": bicycleID,
	})

	return updated, nil
}

func (s *BicycleService) DeleteBicycle(ctx context.Context, session *domain.Session, bicycleID string) error {
	existing, err := s.GetBicycleByID(ctx, bicycleID)
	if err != nil {
		return err
	}

	if err := s.bicycleRepo.DeleteBicycle(ctx, existing.ID); err != nil {
		s.logger.Error("Failed to delete bicycle", map[string]interface{}{
			"error":      err.Error(),
			"bicycle_id": bicycleID,
		})
		return err
	}

	s.invalidate(bicycleID)

	s.audit.Record(ctx, session, domain.ActionDelete, domain.EntityBicycle, existing.ID,
		fmt.Sprintf("Deleted bicycle %s", existing.Name), existing, nil)

	s.logger.Info("Bicycle deleted successfully", map[string]interface{}{
		"bicycle_id": bicycleID,
	})

	return nil
}

// UpdateDisplayOrder is best effort: one update per row, no transaction.
// Every row is attempted and the first failure is reported afterwards, so a
// partial reorder is possible by contract.
func (s *BicycleService) UpdateDisplayOrder(ctx context.Context, entries []domain.ReorderEntry) error {
	var firstErr error
	failed := 0
	for _, entry := range entries {
		if err := s.bicycleRepo.UpdateDisplayOrder(ctx, entry.ID, entry.DisplayOrder); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Warn("Failed to update display order", map[string]interface{}{
				"error":      err.Error(),
				"bicycle_id": entry.ID.String(),
			})
			continue
		}
		s.invalidate(entry.ID.String())
	}

	if firstErr != nil {
		s.logger.Error("Bulk reorder partially applied", map[string]interface{}{
			"attempted": len(entries),
			"failed":    failed,
		})
		return firstErr
	}
	return nil
}

func (s *BicycleService) invalidate(bicycleID string) {
	cacheKey := fmt.Sprintf("bicycle:%s", bicycleID)
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate bicycle cache", map[string]interface{}{
			"error":      err.Error(),
			"bicycle_id": bicycleID,
		})
	}
}
