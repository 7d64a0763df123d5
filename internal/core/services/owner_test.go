package services

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

func adminSession() *domain.Session {
	return &domain.Session{
		OwnerID: uuid.New(),
		UserID:  uuid.New(),
		Email:   "admin@example.com",
		Name:    "Admin",
		Role:    domain.RoleAdmin,
	}
}

func validOwner() *domain.Owner {
	return &domain.Owner{
		RUT:    "12.345.678-9",
		Name:   "María Pérez",
		Age:    34,
		Gender: domain.GenderFemale,
		Email:  "maria@example.com",
		Phone:  "+56 9 1234 5678",
		Role:   domain.RoleCustomer,
	}
}

func newOwnerService(repo *fakeOwnerRepo, audit *fakeAuditRepo) *OwnerService {
	return NewOwnerService(repo, NewAuditService(audit, nopLogger{}), nopLogger{}, validator.New())
}

func TestCreateOwner(t *testing.T) {
	repo := newFakeOwnerRepo()
	audit := &fakeAuditRepo{}
	svc := newOwnerService(repo, audit)

	created, err := svc.CreateOwner(context.Background(), adminSession(), validOwner())
	if err != nil {
		t.Fatalf("CreateOwner failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("created owner has no id")
	}
	if len(audit.entries) != 1 {
		t.Fatalf("got %d audit entries, want 1", len(audit.entries))
	}
	if audit.entries[0].Action != domain.ActionCreate || audit.entries[0].EntityType != domain.EntityOwner {
		t.Errorf("audit entry = %s %s", audit.entries[0].Action, audit.entries[0].EntityType)
	}
}

func TestCreateOwnerDuplicateRUT(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := newOwnerService(repo, &fakeAuditRepo{})

	existing := validOwner()
	existing.ID = uuid.New()
	repo.put(existing)

	dup := validOwner()
	dup.Email = "otra@example.com" // same RUT, different email
	_, err := svc.CreateOwner(context.Background(), adminSession(), dup)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate RUT should conflict, got %v", err)
	}
}

func TestCreateOwnerDuplicateEmail(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := newOwnerService(repo, &fakeAuditRepo{})

	existing := validOwner()
	existing.ID = uuid.New()
	repo.put(existing)

	dup := validOwner()
	dup.RUT = "9.876.543-2"
	_, err := svc.CreateOwner(context.Background(), adminSession(), dup)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}
}

func TestCreateOwnerInvalid(t *testing.T) {
	svc := newOwnerService(newFakeOwnerRepo(), &fakeAuditRepo{})

	bad := validOwner()
	bad.Email = ""
	_, err := svc.CreateOwner(context.Background(), adminSession(), bad)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing email should fail validation, got %v", err)
	}
}

func TestUpdateOwnerKeepsOwnRUT(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := newOwnerService(repo, &fakeAuditRepo{})

	existing := validOwner()
	existing.ID = uuid.New()
	repo.put(existing)

	// Updating without changing RUT/email must not conflict with itself.
	newName := "María José Pérez"
	updated, err := svc.UpdateOwner(context.Background(), adminSession(), existing.ID.String(), &domain.OwnerUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateOwner failed: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("name = %q, want %q", updated.Name, newName)
	}
}

func TestDeleteOwnerWithBicyclesBlocked(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := newOwnerService(repo, &fakeAuditRepo{})

	existing := validOwner()
	existing.ID = uuid.New()
	repo.put(existing)
	repo.bikeCounts[existing.ID] = 2

	err := svc.DeleteOwner(context.Background(), adminSession(), existing.ID.String())
	if !errors.Is(err, domain.ErrConstraint) {
		t.Fatalf("delete with bicycles should be a constraint error, got %v", err)
	}
	if _, err := repo.GetOwnerByID(context.Background(), existing.ID); err != nil {
		t.Error("blocked delete must leave the owner in place")
	}
}

func TestDeleteOwnerWithoutBicycles(t *testing.T) {
	repo := newFakeOwnerRepo()
	audit := &fakeAuditRepo{}
	svc := newOwnerService(repo, audit)

	existing := validOwner()
	existing.ID = uuid.New()
	repo.put(existing)

	if err := svc.DeleteOwner(context.Background(), adminSession(), existing.ID.String()); err != nil {
		t.Fatalf("DeleteOwner failed: %v", err)
	}
	if _, err := repo.GetOwnerByID(context.Background(), existing.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("owner should be gone after delete")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != domain.ActionDelete {
		t.Error("delete should leave one audit entry")
	}
}

func TestListOwnersCustomerSeesOnlySelf(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := newOwnerService(repo, &fakeAuditRepo{})

	me := validOwner()
	me.ID = uuid.New()
	repo.put(me)
	other := validOwner()
	other.ID = uuid.New()
	other.RUT = "9.876.543-2"
	other.Email = "otro@example.com"
	repo.put(other)

	session := &domain.Session{OwnerID: me.ID, Role: domain.RoleCustomer}
	owners, err := svc.ListOwners(context.Background(), session)
	if err != nil {
		t.Fatalf("ListOwners failed: %v", err)
	}
	if len(owners) != 1 || owners[0].ID != me.ID {
		t.Fatalf("customer should see only their own profile, got %d owners", len(owners))
	}
}

func TestListAssignableOwnersOnlyCustomers(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := newOwnerService(repo, &fakeAuditRepo{})

	customer := validOwner()
	customer.ID = uuid.New()
	repo.put(customer)
	mechanic := validOwner()
	mechanic.ID = uuid.New()
	mechanic.RUT = "9.876.543-2"
	mechanic.Email = "mec@example.com"
	mechanic.Role = domain.RoleMechanic
	repo.put(mechanic)

	owners, err := svc.ListAssignableOwners(context.Background())
	if err != nil {
		t.Fatalf("ListAssignableOwners failed: %v", err)
	}
	if len(owners) != 1 || owners[0].Role != domain.RoleCustomer {
		t.Fatalf("picker should list customers only, got %d owners", len(owners))
	}
}
