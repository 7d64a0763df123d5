package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
)

type MaintenanceService struct {
	maintenanceRepo ports.MaintenanceRepository
	audit           *AuditService
	logger          ports.LoggerPort
	validate        *validator.Validate
	cache           ports.CachePort
}

func NewMaintenanceService(
	maintenanceRepo ports.MaintenanceRepository,
	audit *AuditService,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *MaintenanceService {
	return &MaintenanceService{
		maintenanceRepo: maintenanceRepo,
		audit:           audit,
		logger:          logger,
		validate:        validate,
		cache:           cache,
	}
}

func (s *MaintenanceService) CreateMaintenance(ctx context.Context, session *domain.Session, m *domain.Maintenance) (*domain.Maintenance, error) {
	if err := s.validate.Struct(m); err != nil {
		s.logger.Error("Maintenance validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	createdBy := session.UserID
	m.CreatedBy = &createdBy

	created, err := s.maintenanceRepo.CreateMaintenance(ctx, m)
	if err != nil {
		s.logger.Error("Failed to create maintenance", map[string]interface{}{
			"error":      err.Error(),
			"bicycle_id": m.BicycleID.String(),
		})
		return nil, err
	}

	s.invalidateBicycle(created.BicycleID)

	s.audit.Record(ctx, session, domain.ActionCreate, domain.EntityMaintenance, created.ID,
		fmt.Sprintf("Created maintenance for bicycle %s", created.BicycleID), nil, created)

	s.logger.Info("Maintenance created successfully", map[string]interface{}{
		"maintenance_id": created.ID.String(),
		"bicycle_id":     created.BicycleID.String(),
	})

	return created, nil
}

func (s *MaintenanceService) GetMaintenanceByID(ctx context.Context, maintenanceID string) (*domain.Maintenance, error) {
	id, err := uuid.Parse(maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid maintenance ID", domain.ErrValidation)
	}
	m, err := s.maintenanceRepo.GetMaintenanceByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get maintenance", map[string]interface{}{
			"error":          err.Error(),
			"maintenance_id": maintenanceID,
		})
		return nil, err
	}
	return m, nil
}

func (s *MaintenanceService) ListMaintenancesByBicycle(ctx context.Context, bicycleID string) ([]*domain.Maintenance, error) {
	id, err := uuid.Parse(bicycleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bicycle ID", domain.ErrValidation)
	}
	return s.maintenanceRepo.ListMaintenancesByBicycle(ctx, id)
}

func (s *MaintenanceService) UpdateMaintenance(ctx context.Context, session *domain.Session, maintenanceID string, update *domain.MaintenanceUpdate) (*domain.Maintenance, error) {
	existing, err := s.GetMaintenanceByID(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}

	next := *existing
	update.ApplyTo(&next)
	updatedBy := session.UserID
	next.UpdatedBy = &updatedBy

	if err := s.validate.Struct(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	updated, err := s.maintenanceRepo.UpdateMaintenance(ctx, &next)
	if err != nil {
		s.logger.Error("Failed to update maintenance", map[string]interface{}{
			"error":          err.Error(),
			"maintenance_id": maintenanceID,
		})
		return nil, err
	}

	s.invalidateBicycle(updated.BicycleID)

	s.audit.Record(ctx, session, domain.ActionUpdate, domain.EntityMaintenance, updated.ID,
		fmt.Sprintf("Updated maintenance for bicycle %s", updated.BicycleID), existing, updated)

	s.logger.Info("Maintenance updated successfully", map[string]interface{}{
		"maintenance_id": maintenanceID,
	})

	return updated, nil
}

func (s *MaintenanceService) DeleteMaintenance(ctx context.Context, session *domain.Session, maintenanceID string) error {
	existing, err := s.GetMaintenanceByID(ctx, maintenanceID)
	if err != nil {
		return err
	}

	if err := s.maintenanceRepo.DeleteMaintenance(ctx, existing.ID); err != nil {
		s.logger.Error("Failed to delete maintenance", map[string]interface{}{
			"error":          err.Error(),
			"maintenance_id": maintenanceID,
		})
		return err
	}

	s.invalidateBicycle(existing.BicycleID)

	s.audit.Record(ctx, session, domain.ActionDelete, domain.EntityMaintenance, existing.ID,
		fmt.Sprintf("Deleted maintenance for bicycle %s", existing.BicycleID), existing, nil)

	s.logger.Info("Maintenance deleted successfully", map[string]interface{}{
		"maintenance_id": maintenanceID,
	})

	return nil
}

func (s *MaintenanceService) TotalCost(ctx context.Context, bicycleID string) (int64, error) {
	id, err := uuid.Parse(bicycleID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid bicycle ID", domain.ErrValidation)
	}
	return s.maintenanceRepo.TotalCost(ctx, id)
}

func (s *MaintenanceService) LastMaintenanceDate(ctx context.Context, bicycleID string) (string, error) {
	id, err := uuid.Parse(bicycleID)
	if err != nil {
		return "", fmt.Errorf("%w: invalid bicycle ID", domain.ErrValidation)
	}
	return s.maintenanceRepo.LastMaintenanceDate(ctx, id)
}

func (s *MaintenanceService) invalidateBicycle(bicycleID uuid.UUID) {
	cacheKey := fmt.Sprintf("bicycle:%s", bicycleID.String())
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate bicycle cache", map[string]interface{}{
			"error":      err.Error(),
			"bicycle_id": bicycleID.String(),
		})
	}
}
