package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type WorkOrderStatus string

const (
	OrderPending      WorkOrderStatus = "pending"
	OrderInProgress   WorkOrderStatus = "in_progress"
	OrderWaitingParts WorkOrderStatus = "waiting_parts"
	OrderCompleted    WorkOrderStatus = "completed"
	OrderDelivered    WorkOrderStatus = "delivered"
	OrderCancelled    WorkOrderStatus = "cancelled"
)

type WorkItemCategory string

const (
	ItemLabor      WorkItemCategory = "labor"
	ItemPart       WorkItemCategory = "part"
	ItemAdjustment WorkItemCategory = "adjustment"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// WorkItem is one priced line of a work order. Legacy wire format, camelCase
// tags; stored snake_case in jsonb.
type WorkItem struct {
	ID          string           `json:"id,omitempty"`
	Description string           `json:"description" validate:"required"`
	Quantity    int              `json:"quantity" validate:"min=1"`
	UnitPrice   int64            `json:"unitPrice" validate:"min=0"`
	Total       int64            `json:"total" validate:"min=0"`
	Category    WorkItemCategory `json:"category" validate:"required,oneof=labor part adjustment"`
}

type WorkOrder struct {
	ID                    uuid.UUID       `json:"id"`
	WorkOrderNumber       string          `json:"work_order_number"`
	BicycleID             uuid.UUID       `json:"bicycle_id" validate:"required"`
	Bicycle               *Bicycle        `json:"bicycle,omitempty"`
	EntryDate             string          `json:"entry_date" validate:"required"`
	EstimatedDeliveryDate string          `json:"estimated_delivery_date"`
	ActualDeliveryDate    *string         `json:"actual_delivery_date,omitempty"`
	Status                WorkOrderStatus `json:"status" validate:"required,oneof=pending in_progress waiting_parts completed delivered cancelled"`
	Description           string          `json:"description"`
	Items                 []WorkItem      `json:"items" validate:"dive"`
	Subtotal              int64           `json:"subtotal"`
	IVA                   int64           `json:"iva"`
	Total                 int64           `json:"total"`
	InternalNotes         string          `json:"internal_notes,omitempty"`
	AssignedToID          *uuid.UUID      `json:"assigned_to_id,omitempty"`
	AssignedTo            *Owner          `json:"assigned_to,omitempty"`
	ReceptionPhotos       []string        `json:"reception_photos"`
	WorkPhotos            []string        `json:"work_photos"`
	Priority              Priority        `json:"priority" validate:"omitempty,oneof=normal urgent"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// IVARate is the Chilean value-added tax applied to the subtotal.
const IVARate = 0.19

// CalculateTotals derives the financial fields from the line items. The tax
// line rounds half-up; subtotal and total stay exact.
func CalculateTotals(items []WorkItem) (subtotal, iva, total int64) {
	for _, item := range items {
		subtotal += item.Total
	}
	iva = int64(math.Round(float64(subtotal) * IVARate))
	total = subtotal + iva
	return subtotal, iva, total
}

// workOrderTransitions is the allowed status workflow. Cancelled is reachable
// from every non-terminal state; delivered and cancelled are terminal.
var workOrderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	OrderPending:      {OrderInProgress, OrderCancelled},
	OrderInProgress:   {OrderWaitingParts, OrderCompleted, OrderCancelled},
	OrderWaitingParts: {OrderInProgress, OrderCompleted, OrderCancelled},
	OrderCompleted:    {OrderDelivered, OrderCancelled},
	OrderDelivered:    {},
	OrderCancelled:    {},
}

func CanTransition(from, to WorkOrderStatus) bool {
	for _, next := range workOrderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// WorkshopStats is the dashboard aggregate.
type WorkshopStats struct {
	PendingOrders    int `json:"pending_orders"`
	InProgressOrders int `json:"in_progress_orders"`
	ReadyForPickup   int `json:"ready_for_pickup"`
	TotalBicycles    int `json:"total_bicycles"`
	TotalCustomers   int `json:"total_customers"`
}
