package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

// In-memory fakes for the repository ports. They mirror the store contract
// closely enough for service-level tests: not-found surfaces as
// domain.ErrNotFound, results are copies of the stored rows.

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, error) {
	v, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("cache miss")
	}
	return v, nil
}

func (c *fakeCache) Set(key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(key string) error {
	delete(c.entries, key)
	return nil
}

type fakeOwnerRepo struct {
	owners     map[uuid.UUID]*domain.Owner
	linkCalls  int
	createErr  error
	deleteErr  error
	bikeCounts map[uuid.UUID]int
}

func newFakeOwnerRepo() *fakeOwnerRepo {
	return &fakeOwnerRepo{
		owners:     make(map[uuid.UUID]*domain.Owner),
		bikeCounts: make(map[uuid.UUID]int),
	}
}

func (r *fakeOwnerRepo) put(o *domain.Owner) {
	cp := *o
	r.owners[o.ID] = &cp
}

func (r *fakeOwnerRepo) CreateOwner(_ context.Context, owner *domain.Owner) (*domain.Owner, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.put(owner)
	cp := *owner
	return &cp, nil
}

func (r *fakeOwnerRepo) GetOwnerByID(_ context.Context, id uuid.UUID) (*domain.Owner, error) {
	o, ok := r.owners[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOwnerRepo) GetOwnerByUserID(_ context.Context, userID uuid.UUID) (*domain.Owner, error) {
	for _, o := range r.owners {
		if o.UserID != nil && *o.UserID == userID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOwnerRepo) GetOwnerByEmail(_ context.Context, email string) (*domain.Owner, error) {
	for _, o := range r.owners {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOwnerRepo) GetOwnerByRUT(_ context.Context, rut string) (*domain.Owner, error) {
	for _, o := range r.owners {
		if o.RUT == rut {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOwnerRepo) ListOwners(_ context.Context) ([]*domain.Owner, error) {
	out := make([]*domain.Owner, 0, len(r.owners))
	for _, o := range r.owners {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOwnerRepo) ListOwnersByRole(_ context.Context, role domain.Role) ([]*domain.Owner, error) {
	var out []*domain.Owner
	for _, o := range r.owners {
		if o.Role == role {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOwnerRepo) UpdateOwner(_ context.Context, owner *domain.Owner) (*domain.Owner, error) {
	if _, ok := r.owners[owner.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.put(owner)
	cp := *owner
	return &cp, nil
}

func (r *fakeOwnerRepo) LinkUserID(_ context.Context, ownerID, userID uuid.UUID) (*domain.Owner, error) {
	r.linkCalls++
	o, ok := r.owners[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	uid := userID
	o.UserID = &uid
	cp := *o
	return &cp, nil
}

func (r *fakeOwnerRepo) DeleteOwner(_ context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.owners[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.owners, id)
	return nil
}

func (r *fakeOwnerRepo) CountBicycles(_ context.Context, ownerID uuid.UUID) (int, error) {
	return r.bikeCounts[ownerID], nil
}

type fakeBicycleRepo struct {
	bikes      map[uuid.UUID]*domain.Bicycle
	reorderErr map[uuid.UUID]error
	reordered  []uuid.UUID
}

func newFakeBicycleRepo() *fakeBicycleRepo {
	return &fakeBicycleRepo{
		bikes:      make(map[uuid.UUID]*domain.Bicycle),
		reorderErr: make(map[uuid.UUID]error),
	}
}

func (r *fakeBicycleRepo) put(b *domain.Bicycle) {
	cp := *b
	r.bikes[b.ID] = &cp
}

func (r *fakeBicycleRepo) CreateBicycle(_ context.Context, bike *domain.Bicycle) (*domain.Bicycle, error) {
	r.put(bike)
	cp := *bike
	return &cp, nil
}

func (r *fakeBicycleRepo) GetBicycleByID(_ context.Context, id uuid.UUID) (*domain.Bicycle, error) {
	b, ok := r.bikes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBicycleRepo) ListBicycles(_ context.Context) ([]*domain.Bicycle, error) {
	out := make([]*domain.Bicycle, 0, len(r.bikes))
	for _, b := range r.bikes {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBicycleRepo) ListBicyclesByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Bicycle, error) {
	var out []*domain.Bicycle
	for _, b := range r.bikes {
		if b.OwnerID != nil && *b.OwnerID == ownerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBicycleRepo) UpdateBicycle(_ context.Context, bike *domain.Bicycle) (*domain.Bicycle, error) {
	if _, ok := r.bikes[bike.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.put(bike)
	cp := *bike
	return &cp, nil
}

func (r *fakeBicycleRepo) UpdateDisplayOrder(_ context.Context, id uuid.UUID, displayOrder int) error {
	if err := r.reorderErr[id]; err != nil {
		return err
	}
	b, ok := r.bikes[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.DisplayOrder = displayOrder
	r.reordered = append(r.reordered, id)
	return nil
}

func (r *fakeBicycleRepo) DeleteBicycle(_ context.Context, id uuid.UUID) error {
	if _, ok := r.bikes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.bikes, id)
	return nil
}

type fakeWorkOrderRepo struct {
	orders     map[uuid.UUID]*domain.WorkOrder
	nextNumber string
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{
		orders:     make(map[uuid.UUID]*domain.WorkOrder),
		nextNumber: "OT-2026-00001",
	}
}

func (r *fakeWorkOrderRepo) put(o *domain.WorkOrder) {
	cp := *o
	r.orders[o.ID] = &cp
}

func (r *fakeWorkOrderRepo) CreateWorkOrder(_ context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	r.put(order)
	cp := *order
	return &cp, nil
}

func (r *fakeWorkOrderRepo) GetWorkOrderByID(_ context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeWorkOrderRepo) ListWorkOrders(_ context.Context) ([]*domain.WorkOrder, error) {
	out := make([]*domain.WorkOrder, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeWorkOrderRepo) ListWorkOrdersByStatus(_ context.Context, status domain.WorkOrderStatus) ([]*domain.WorkOrder, error) {
	var out []*domain.WorkOrder
	for _, o := range r.orders {
		if o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeWorkOrderRepo) ListWorkOrdersByBicycle(_ context.Context, bicycleID uuid.UUID) ([]*domain.WorkOrder, error) {
	var out []*domain.WorkOrder
	for _, o := range r.orders {
		if o.BicycleID == bicycleID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeWorkOrderRepo) UpdateWorkOrder(_ context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	if _, ok := r.orders[order.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.put(order)
	cp := *order
	return &cp, nil
}

func (r *fakeWorkOrderRepo) UpdateWorkOrderStatus(_ context.Context, id uuid.UUID, status domain.WorkOrderStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *fakeWorkOrderRepo) DeleteWorkOrder(_ context.Context, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeWorkOrderRepo) NextWorkOrderNumber(_ context.Context) (string, error) {
	return r.nextNumber, nil
}

func (r *fakeWorkOrderRepo) WorkshopStats(_ context.Context) (*domain.WorkshopStats, error) {
	stats := &domain.WorkshopStats{}
	for _, o := range r.orders {
		switch o.Status {
		case domain.OrderPending:
			stats.PendingOrders++
		case domain.OrderInProgress:
			stats.InProgressOrders++
		}
	}
	return stats, nil
}

type fakeMaintenanceRepo struct {
	maintenances map[uuid.UUID]*domain.Maintenance
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{maintenances: make(map[uuid.UUID]*domain.Maintenance)}
}

func (r *fakeMaintenanceRepo) put(m *domain.Maintenance) {
	cp := *m
	r.maintenances[m.ID] = &cp
}

func (r *fakeMaintenanceRepo) CreateMaintenance(_ context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	r.put(m)
	cp := *m
	return &cp, nil
}

func (r *fakeMaintenanceRepo) GetMaintenanceByID(_ context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	m, ok := r.maintenances[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaintenanceRepo) ListMaintenancesByBicycle(_ context.Context, bicycleID uuid.UUID) ([]*domain.Maintenance, error) {
	var out []*domain.Maintenance
	for _, m := range r.maintenances {
		if m.BicycleID == bicycleID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) UpdateMaintenance(_ context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	if _, ok := r.maintenances[m.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.put(m)
	cp := *m
	return &cp, nil
}

func (r *fakeMaintenanceRepo) DeleteMaintenance(_ context.Context, id uuid.UUID) error {
	if _, ok := r.maintenances[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.maintenances, id)
	return nil
}

func (r *fakeMaintenanceRepo) TotalCost(_ context.Context, bicycleID uuid.UUID) (int64, error) {
	var total int64
	for _, m := range r.maintenances {
		if m.BicycleID == bicycleID && m.Cost != nil {
			total += *m.Cost
		}
	}
	return total, nil
}

func (r *fakeMaintenanceRepo) LastMaintenanceDate(_ context.Context, bicycleID uuid.UUID) (string, error) {
	last := ""
	for _, m := range r.maintenances {
		if m.BicycleID == bicycleID && m.Date > last {
			last = m.Date
		}
	}
	return last, nil
}

type fakeNotificationRepo struct {
	notifications []*domain.Notification
	createErr     error
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	cp := *n
	r.notifications = append(r.notifications, &cp)
	return &cp, nil
}

func (r *fakeNotificationRepo) ListNotificationsByUser(_ context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkNotificationRead(_ context.Context, id uuid.UUID) error {
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeAuditRepo struct {
	entries   []*domain.AuditLog
	appendErr error
}

func (r *fakeAuditRepo) AppendAuditLog(_ context.Context, entry *domain.AuditLog) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeAuditRepo) ListAuditLogs(_ context.Context, _ domain.AuditFilter) ([]*domain.AuditLog, error) {
	return r.entries, nil
}
