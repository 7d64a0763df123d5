package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type bicycleFixture struct {
	svc   *BicycleService
	bikes *fakeBicycleRepo
	cache *fakeCache
	audit *fakeAuditRepo
}

func newBicycleFixture() *bicycleFixture {
	bikes := newFakeBicycleRepo()
	cache := newFakeCache()
	audit := &fakeAuditRepo{}
	svc := NewBicycleService(
		bikes, newFakeOwnerRepo(),
		NewAuditService(audit, nopLogger{}), nopLogger{}, validator.New(), cache,
	)
	return &bicycleFixture{svc: svc, bikes: bikes, cache: cache, audit: audit}
}

func validBicycle() *domain.Bicycle {
	return &domain.Bicycle{
		Name:          "Trek Marlin 7",
		Brand:         "Trek",
		BikeType:      domain.BikeTypeMTB,
		Status:        domain.StatusInUse,
		CurrentStatus: domain.WorkshopWithOwner,
	}
}

func TestCreateBicycle(t *testing.T) {
	f := newBicycleFixture()

	created, err := f.svc.CreateBicycle(context.Background(), adminSession(), validBicycle())
	if err != nil {
		t.Fatalf("CreateBicycle failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("created bicycle has no id")
	}
	if len(f.audit.entries) != 1 {
		t.Errorf("got %d audit entries, want 1", len(f.audit.entries))
	}
}

func TestCreateBicycleInvalidType(t *testing.T) {
	f := newBicycleFixture()

	bad := validBicycle()
	bad.BikeType = "BMX"
	_, err := f.svc.CreateBicycle(context.Background(), adminSession(), bad)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown bike type should fail validation, got %v", err)
	}
}

func TestGetBicycleCachesResult(t *testing.T) {
	f := newBicycleFixture()
	bike := validBicycle()
	bike.ID = uuid.New()
	f.bikes.put(bike)

	got, err := f.svc.GetBicycleByID(context.Background(), bike.ID.String())
	if err != nil {
		t.Fatalf("GetBicycleByID failed: %v", err)
	}
	if got.Name != bike.Name {
		t.Errorf("got bike %q, want %q", got.Name, bike.Name)
	}

	key := fmt.Sprintf("bicycle:%s", bike.ID)
	if _, err := f.cache.Get(key); err != nil {
		t.Error("bicycle should be cached after first read")
	}

	// Second read is served from the cache even if the row vanished.
	delete(f.bikes.bikes, bike.ID)
	if _, err := f.svc.GetBicycleByID(context.Background(), bike.ID.String()); err != nil {
		t.Errorf("cached read failed: %v", err)
	}
}

func TestUpdateBicycleInvalidatesCache(t *testing.T) {
	f := newBicycleFixture()
	bike := validBicycle()
	bike.ID = uuid.New()
	f.bikes.put(bike)

	// Warm the cache.
	if _, err := f.svc.GetBicycleByID(context.Background(), bike.ID.String()); err != nil {
		t.Fatalf("warm read failed: %v", err)
	}

	if _, err := f.svc.UpdateBicycle(context.Background(), adminSession(), bike.ID.String(), func(b *domain.Bicycle) {
		b.Status = domain.StatusSold
	}); err != nil {
		t.Fatalf("UpdateBicycle failed: %v", err)
	}

	key := fmt.Sprintf("bicycle:%s", bike.ID)
	if _, err := f.cache.Get(key); err == nil {
		t.Error("update must invalidate the cached bicycle")
	}

	got, err := f.svc.GetBicycleByID(context.Background(), bike.ID.String())
	if err != nil {
		t.Fatalf("re-read failed: %v", err)
	}
	if got.Status != domain.StatusSold {
		t.Errorf("status = %s, want sold", got.Status)
	}
}

func TestDeleteBicycleInvalidatesCache(t *testing.T) {
	f := newBicycleFixture()
	bike := validBicycle()
	bike.ID = uuid.New()
	f.bikes.put(bike)

	if _, err := f.svc.GetBicycleByID(context.Background(), bike.ID.String()); err != nil {
		t.Fatalf("warm read failed: %v", err)
	}
	if err := f.svc.DeleteBicycle(context.Background(), adminSession(), bike.ID.String()); err != nil {
		t.Fatalf("DeleteBicycle failed: %v", err)
	}

	key := fmt.Sprintf("bicycle:%s", bike.ID)
	if _, err := f.cache.Get(key); err == nil {
		t.Error("delete must invalidate the cached bicycle")
	}
}

func TestUpdateDisplayOrderBestEffort(t *testing.T) {
	f := newBicycleFixture()

	var entries []domain.ReorderEntry
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		bike := validBicycle()
		bike.ID = uuid.New()
		f.bikes.put(bike)
		ids = append(ids, bike.ID)
		entries = append(entries, domain.ReorderEntry{ID: bike.ID, DisplayOrder: i})
	}
	f.bikes.reorderErr[ids[1]] = errors.New("row locked")

	err := f.svc.UpdateDisplayOrder(context.Background(), entries)
	if err == nil {
		t.Fatal("first row failure must be reported")
	}

	// Rows after the failing one are still attempted.
	if len(f.bikes.reordered) != 2 {
		t.Fatalf("applied %d rows, want 2 (all but the failing one)", len(f.bikes.reordered))
	}
	first, _ := f.bikes.GetBicycleByID(context.Background(), ids[0])
	third, _ := f.bikes.GetBicycleByID(context.Background(), ids[2])
	if first.DisplayOrder != 0 || third.DisplayOrder != 2 {
		t.Error("surviving rows should keep their new positions")
	}
}

func TestListBicyclesCustomerNarrowed(t *testing.T) {
	f := newBicycleFixture()
	mine := uuid.New()
	other := uuid.New()

	b1 := validBicycle()
	b1.ID = uuid.New()
	b1.OwnerID = &mine
	f.bikes.put(b1)
	b2 := validBicycle()
	b2.ID = uuid.New()
	b2.OwnerID = &other
	f.bikes.put(b2)

	session := &domain.Session{OwnerID: mine, Role: domain.RoleCustomer}
	bikes, err := f.svc.ListBicycles(context.Background(), session, domain.BicycleFilter{})
	if err != nil {
		t.Fatalf("ListBicycles failed: %v", err)
	}
	if len(bikes) != 1 || *bikes[0].OwnerID != mine {
		t.Fatalf("customer should see exactly their own bicycle, got %d", len(bikes))
	}
}
