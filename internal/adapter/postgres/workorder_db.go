package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type WorkOrderRepository struct {
	db *sql.DB
}

func NewWorkOrderRepository(db *sql.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

const workOrderColumns = `id, work_order_number, bicycle_id, entry_date, estimated_delivery_date,
	actual_delivery_date, status, description, items, subtotal, iva, total, internal_notes,
	assigned_to_id, reception_photos, work_photos, priority, created_at, updated_at`

func scanWorkOrder(row interface{ Scan(...interface{}) error }) (*domain.WorkOrder, error) {
	order := &domain.WorkOrder{}
	var (
		actualDelivery, internalNotes, assignedTo sql.NullString
		items, receptionPhotos, workPhotos        []byte
	)
	err := row.Scan(
		&order.ID,
		&order.WorkOrderNumber,
		&order.BicycleID,
		&order.EntryDate,
		&order.EstimatedDeliveryDate,
		&actualDelivery,
		&order.Status,
		&order.Description,
		&items,
		&order.Subtotal,
		&order.IVA,
		&order.Total,
		&internalNotes,
		&assignedTo,
		&receptionPhotos,
		&workPhotos,
		&order.Priority,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if actualDelivery.Valid {
		order.ActualDeliveryDate = &actualDelivery.String
	}
	order.InternalNotes = internalNotes.String
	if assignedTo.Valid {
		if parsed, err := uuid.Parse(assignedTo.String); err == nil {
			order.AssignedToID = &parsed
		}
	}
	if err := unmarshalCamel(items, &order.Items); err != nil {
		return nil, err
	}
	if err := unmarshalCamel(receptionPhotos, &order.ReceptionPhotos); err != nil {
		return nil, err
	}
	if err := unmarshalCamel(workPhotos, &order.WorkPhotos); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *WorkOrderRepository) CreateWorkOrder(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	items, err := marshalSnake(order.Items)
	if err != nil {
		return nil, translateError(err)
	}
	receptionPhotos, err := marshalSnake(order.ReceptionPhotos)
	if err != nil {
		return nil, translateError(err)
	}
	workPhotos, err := marshalSnake(order.WorkPhotos)
	if err != nil {
		return nil, translateError(err)
	}

	query := `INSERT INTO work_orders (id, work_order_number, bicycle_id, entry_date,
			estimated_delivery_date, actual_delivery_date, status, description, items,
			subtotal, iva, total, internal_notes, assigned_to_id, reception_photos,
			work_photos, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		order.ID, order.WorkOrderNumber, order.BicycleID, order.EntryDate,
		order.EstimatedDeliveryDate, order.ActualDeliveryDate, order.Status, order.Description,
		items, order.Subtotal, order.IVA, order.Total, order.InternalNotes,
		nullableUUID(order.AssignedToID), receptionPhotos, workPhotos, order.Priority,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return order, nil
}

func (r *WorkOrderRepository) GetWorkOrderByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`
	order, err := scanWorkOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return order, nil
}

func (r *WorkOrderRepository) ListWorkOrders(ctx context.Context) ([]*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders ORDER BY entry_date DESC`
	return r.queryWorkOrders(ctx, query)
}

func (r *WorkOrderRepository) ListWorkOrdersByStatus(ctx context.Context, status domain.WorkOrderStatus) ([]*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE status = $1 ORDER BY entry_date DESC`
	return r.queryWorkOrders(ctx, query, status)
}

func (r *WorkOrderRepository) ListWorkOrdersByBicycle(ctx context.Context, bicycleID uuid.UUID) ([]*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE bicycle_id = $1 ORDER BY entry_date DESC`
	return r.queryWorkOrders(ctx, query, bicycleID)
}

func (r *WorkOrderRepository) queryWorkOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.WorkOrder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var orders []*domain.WorkOrder
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, translateError(err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return orders, nil
}

func (r *WorkOrderRepository) UpdateWorkOrder(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	items, err := marshalSnake(order.Items)
	if err != nil {
		return nil, translateError(err)
	}
	receptionPhotos, err := marshalSnake(order.ReceptionPhotos)
	if err != nil {
		return nil, translateError(err)
	}
	workPhotos, err := marshalSnake(order.WorkPhotos)
	if err != nil {
		return nil, translateError(err)
	}

	query := `UPDATE work_orders
		SET entry_date = $1, estimated_delivery_date = $2, actual_delivery_date = $3,
			status = $4, description = $5, items = $6, subtotal = $7, iva = $8, total = $9,
			internal_notes = NULLIF($10, ''), assigned_to_id = $11, reception_photos = $12,
			work_photos = $13, priority = $14, updated_at = CURRENT_TIMESTAMP
		WHERE id = $15
		RETURNING ` + workOrderColumns

	updated, err := scanWorkOrder(r.db.QueryRowContext(ctx, query,
		order.EntryDate, order.EstimatedDeliveryDate, order.ActualDeliveryDate,
		order.Status, order.Description, items, order.Subtotal, order.IVA, order.Total,
		order.InternalNotes, nullableUUID(order.AssignedToID), receptionPhotos,
		workPhotos, order.Priority, order.ID,
	))
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

func (r *WorkOrderRepository) UpdateWorkOrderStatus(ctx context.Context, id uuid.UUID, status domain.WorkOrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE work_orders SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id)
	if err != nil {
		return translateError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translateError(err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepository) DeleteWorkOrder(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translateError(err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextWorkOrderNumber calls the server-side sequence function so numbers stay
// unique across concurrent clients.
func (r *WorkOrderRepository) NextWorkOrderNumber(ctx context.Context) (string, error) {
	var number string
	if err := r.db.QueryRowContext(ctx, `SELECT generate_work_order_number()`).Scan(&number); err != nil {
		return "", translateError(err)
	}
	return number, nil
}

func (r *WorkOrderRepository) WorkshopStats(ctx context.Context) (*domain.WorkshopStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM work_orders WHERE status = 'pending'),
		(SELECT COUNT(*) FROM work_orders WHERE status = 'in_progress'),
		(SELECT COUNT(*) FROM work_orders WHERE status = 'completed'),
		(SELECT COUNT(*) FROM bicycles),
		(SELECT COUNT(*) FROM owners WHERE role = 'customer')`

	stats := &domain.WorkshopStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.PendingOrders,
		&stats.InProgressOrders,
		&stats.ReadyForPickup,
		&stats.TotalBicycles,
		&stats.TotalCustomers,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return stats, nil
}

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	query := `INSERT INTO notifications (id, user_id, work_order_id, type, message, read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		n.ID, n.UserID, n.WorkOrderID, n.Type, n.Message, n.Read,
	).Scan(&n.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return n, nil
}

func (r *NotificationRepository) ListNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	query := `SELECT id, user_id, work_order_id, type, message, read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.WorkOrderID, &n.Type, &n.Message, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, translateError(err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translateError(err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
