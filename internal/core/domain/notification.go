package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationOrderReady    NotificationType = "order_ready"
	NotificationOrderCreated  NotificationType = "order_created"
	NotificationStatusChanged NotificationType = "status_changed"
)

// Notification is a one-way message addressed to an owner's linked auth
// account. UserID is the auth provider uid, not the owner row id.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	WorkOrderID uuid.UUID        `json:"work_order_id"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
