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

type WorkOrderService struct {
	orderRepo        ports.WorkOrderRepository
	notificationRepo ports.NotificationRepository
	bicycleRepo      ports.BicycleRepository
	ownerRepo        ports.OwnerRepository
	audit            *AuditService
	logger           ports.LoggerPort
	validate         *validator.Validate
}

func NewWorkOrderService(
	orderRepo ports.WorkOrderRepository,
	notificationRepo ports.NotificationRepository,
	bicycleRepo ports.BicycleRepository,
	ownerRepo ports.OwnerRepository,
	audit *AuditService,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *WorkOrderService {
	return &WorkOrderService{
		orderRepo:        orderRepo,
		notificationRepo: notificationRepo,
		bicycleRepo:      bicycleRepo,
		ownerRepo:        ownerRepo,
		audit:            audit,
		logger:           logger,
		validate:         validate,
	}
}

func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, session *domain.Session, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	if order.Status == "" {
		order.Status = domain.OrderPending
	}
	if order.Priority == "" {
		order.Priority = domain.PriorityNormal
	}
	if err := s.validate.Struct(order); err != nil {
		s.logger.Error("Work order validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	// Totals are always server-derived; whatever the client sent is replaced.
	order.Subtotal, order.IVA, order.Total = domain.CalculateTotals(order.Items)

	if order.WorkOrderNumber == "" {
		number, err := s.orderRepo.NextWorkOrderNumber(ctx)
		if err != nil {
			s.logger.Error("Failed to generate work order number", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, err
		}
		order.WorkOrderNumber = number
	}

	created, err := s.orderRepo.CreateWorkOrder(ctx, order)
	if err != nil {
		s.logger.Error("Failed to create work order", map[string]interface{}{
			"error":      err.Error(),
			"bicycle_id": order.BicycleID.String(),
		})
		return nil, err
	}

	s.audit.Record(ctx, session, domain.ActionCreate, domain.EntityWorkOrder, created.ID,
		fmt.Sprintf("Created work order %s", created.WorkOrderNumber), nil, created)

	s.logger.Info("Work order created successfully", map[string]interface{}{
		"work_order_id":     created.ID.String(),
		"work_order_number": created.WorkOrderNumber,
	})

	return created, nil
}

func (s *WorkOrderService) GetWorkOrderByID(ctx context.Context, orderID string) (*domain.WorkOrder, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid work order ID", domain.ErrValidation)
	}

	order, err := s.orderRepo.GetWorkOrderByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get work order", map[string]interface{}{
			"error":         err.Error(),
			"work_order_id": orderID,
		})
		return nil, err
	}

	// Embed the bicycle and its owner for the detail view.
	bike, err := s.bicycleRepo.GetBicycleByID(ctx, order.BicycleID)
	if err == nil {
		if bike.OwnerID != nil {
			if owner, err := s.ownerRepo.GetOwnerByID(ctx, *bike.OwnerID); err == nil {
				bike.Owner = owner
			}
		}
		order.Bicycle = bike
	}
	if order.AssignedToID != nil {
		if assignee, err := s.ownerRepo.GetOwnerByID(ctx, *order.AssignedToID); err == nil {
			order.AssignedTo = assignee
		}
	}

	return order, nil
}

// ListWorkOrders narrows to the caller's own bicycles for customers.
func (s *WorkOrderService) ListWorkOrders(ctx context.Context, session *domain.Session) ([]*domain.WorkOrder, error) {
	orders, err := s.orderRepo.ListWorkOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.visibleOrders(ctx, session, orders)
}

func (s *WorkOrderService) ListWorkOrdersByStatus(ctx context.Context, session *domain.Session, status domain.WorkOrderStatus) ([]*domain.WorkOrder, error) {
	orders, err := s.orderRepo.ListWorkOrdersByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.visibleOrders(ctx, session, orders)
}

func (s *WorkOrderService) ListWorkOrdersByBicycle(ctx context.Context, session *domain.Session, bicycleID string) ([]*domain.WorkOrder, error) {
	id, err := uuid.Parse(bicycleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bicycle ID", domain.ErrValidation)
	}
	orders, err := s.orderRepo.ListWorkOrdersByBicycle(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.visibleOrders(ctx, session, orders)
}

func (s *WorkOrderService) visibleOrders(ctx context.Context, session *domain.Session, orders []*domain.WorkOrder) ([]*domain.WorkOrder, error) {
	if session.IsStaff() {
		return orders, nil
	}

	// A customer sees an order only when the bicycle on it is theirs. Orders
	// are matched by the bicycle id carried on each row, never by position.
	visible := make([]*domain.WorkOrder, 0, len(orders))
	for _, order := range orders {
		bike, err := s.bicycleRepo.GetBicycleByID(ctx, order.BicycleID)
		if err != nil {
			continue
		}
		if bike.OwnerID != nil && *bike.OwnerID == session.OwnerID {
			visible = append(visible, order)
		}
	}
	return visible, nil
}

func (s *WorkOrderService) UpdateWorkOrder(ctx context.Context, session *domain.Session, orderID string, apply func(*domain.WorkOrder)) (*domain.WorkOrder, error) {
	existing, err := s.GetWorkOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next := *existing
	next.Bicycle = nil
	next.AssignedTo = nil
	apply(&next)

	if err := s.validate.Struct(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	next.Subtotal, next.IVA, next.Total = domain.CalculateTotals(next.Items)

	updated, err := s.orderRepo.UpdateWorkOrder(ctx, &next)
	if err != nil {
		s.logger.Error("Failed to update work order", map[string]interface{}{
			"error":         err.Error(),
			"work_order_id": orderID,
		})
		return nil, err
	}

	s.audit.Record(ctx, session, domain.ActionUpdate, domain.EntityWorkOrder, updated.ID,
		fmt.Sprintf("Updated work order %s", updated.WorkOrderNumber), existing, updated)

	return updated, nil
}

// UpdateStatus enforces the workflow and fires the completion notification.
// Exactly one notification per transition to completed, addressed to the
// bicycle owner's linked auth account; no linked account, no notification.
func (s *WorkOrderService) UpdateStatus(ctx context.Context, session *domain.Session, orderID string, status domain.WorkOrderStatus) (*domain.WorkOrder, error) {
	existing, err := s.GetWorkOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(existing.Status, status) {
		s.logger.Warn("Rejected work order status transition", map[string]interface{}{
			"work_order_id": orderID,
			"from":          existing.Status,
			"to":            status,
		})
		return nil, fmt.Errorf("%w: cannot transition from %s to %s", domain.ErrValidation, existing.Status, status)
	}

	if err := s.orderRepo.UpdateWorkOrderStatus(ctx, existing.ID, status); err != nil {
		s.logger.Error("Failed to update work order status", map[string]interface{}{
			"error":         err.Error(),
			"work_order_id": orderID,
		})
		return nil, err
	}

	updated := *existing
	updated.Status = status

	s.audit.Record(ctx, session, domain.ActionUpdate, domain.EntityWorkOrder, existing.ID,
		fmt.Sprintf("Work order %s: %s → %s", existing.WorkOrderNumber, existing.Status, status),
		existing, &updated)

	if status == domain.OrderCompleted {
		s.notifyOrderReady(ctx, existing)
	}

	s.logger.Info("Work order status updated", map[string]interface{}{
		"work_order_id": orderID,
		"status":        status,
	})

	return &updated, nil
}

func (s *WorkOrderService) notifyOrderReady(ctx context.Context, order *domain.WorkOrder) {
	owner := orderOwner(order)
	if owner == nil || owner.UserID == nil {
		// No linked auth account: skip silently by contract.
		return
	}

	notification := &domain.Notification{
		ID:          uuid.New(),
		UserID:      *owner.UserID,
		WorkOrderID: order.ID,
		Type:        domain.NotificationOrderReady,
		Message:     "Tu bicicleta está lista para retirar",
	}
	if _, err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		s.logger.Error("Failed to create notification", map[string]interface{}{
			"error":         err.Error(),
			"work_order_id": order.ID.String(),
		})
		return
	}

	s.logger.Info("Notification created", map[string]interface{}{
		"work_order_id": order.ID.String(),
		"user_id":       owner.UserID.String(),
	})
}

func orderOwner(order *domain.WorkOrder) *domain.Owner {
	if order.Bicycle == nil {
		return nil
	}
	return order.Bicycle.Owner
}

func (s *WorkOrderService) DeleteWorkOrder(ctx context.Context, session *domain.Session, orderID string) error {
	existing, err := s.GetWorkOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orderRepo.DeleteWorkOrder(ctx, existing.ID); err != nil {
		s.logger.Error("Failed to delete work order", map[string]interface{}{
			"error":         err.Error(),
			"work_order_id": orderID,
		})
		return err
	}

	s.audit.Record(ctx, session, domain.ActionDelete, domain.EntityWorkOrder, existing.ID,
		fmt.Sprintf("Deleted work order %s", existing.WorkOrderNumber), existing, nil)

	return nil
}

func (s *WorkOrderService) WorkshopStats(ctx context.Context) (*domain.WorkshopStats, error) {
	stats, err := s.orderRepo.WorkshopStats(ctx)
	if err != nil {
		s.logger.Error("Failed to compute workshop stats", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return stats, nil
}

func (s *WorkOrderService) ListNotifications(ctx context.Context, session *domain.Session) ([]*domain.Notification, error) {
	return s.notificationRepo.ListNotificationsByUser(ctx, session.UserID)
}

func (s *WorkOrderService) MarkNotificationRead(ctx context.Context, notificationID string) error {
	id, err := uuid.Parse(notificationID)
	if err != nil {
		return fmt.Errorf("%w: invalid notification ID", domain.ErrValidation)
	}
	if err := s.notificationRepo.MarkNotificationRead(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to mark notification read", map[string]interface{}{
				"error":           err.Error(),
				"notification_id": notificationID,
			})
		}
		return err
	}
	return nil
}
