package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type WorkOrderRepository interface {
	CreateWorkOrder(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error)
	GetWorkOrderByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error)
	ListWorkOrders(ctx context.Context) ([]*domain.WorkOrder, error)
	ListWorkOrdersByStatus(ctx context.Context, status domain.WorkOrderStatus) ([]*domain.WorkOrder, error)
	ListWorkOrdersByBicycle(ctx context.Context, bicycleID uuid.UUID) ([]*domain.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error)
	UpdateWorkOrderStatus(ctx context.Context, id uuid.UUID, status domain.WorkOrderStatus) error
	DeleteWorkOrder(ctx context.Context, id uuid.UUID) error
	NextWorkOrderNumber(ctx context.Context) (string, error)
	WorkshopStats(ctx context.Context) (*domain.WorkshopStats, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
}
