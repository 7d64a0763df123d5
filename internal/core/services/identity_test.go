package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

func TestResolveByUserID(t *testing.T) {
	repo := newFakeOwnerRepo()
	uid := uuid.New()
	owner := &domain.Owner{
		ID:     uuid.New(),
		UserID: &uid,
		Name:   "María Pérez",
		Email:  "maria@example.com",
		Role:   domain.RoleAdmin,
	}
	repo.put(owner)

	svc := NewIdentityService(repo, nopLogger{})
	session, err := svc.Resolve(context.Background(), &domain.Identity{UserID: uid, Email: "maria@example.com"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if session.OwnerID != owner.ID {
		t.Errorf("session owner = %s, want %s", session.OwnerID, owner.ID)
	}
	if session.Role != domain.RoleAdmin {
		t.Errorf("session role = %s, want admin", session.Role)
	}
	if repo.linkCalls != 0 {
		t.Errorf("uid hit must not rewrite the link, got %d link calls", repo.linkCalls)
	}
}

func TestResolveByEmailLinksUserID(t *testing.T) {
	repo := newFakeOwnerRepo()
	owner := &domain.Owner{
		ID:    uuid.New(),
		Name:  "Pedro Soto",
		Email: "pedro@example.com",
		Role:  domain.RoleCustomer,
	}
	repo.put(owner)

	uid := uuid.New()
	svc := NewIdentityService(repo, nopLogger{})
	session, err := svc.Resolve(context.Background(), &domain.Identity{UserID: uid, Email: "pedro@example.com"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if session.OwnerID != owner.ID {
		t.Errorf("session owner = %s, want %s", session.OwnerID, owner.ID)
	}
	if repo.linkCalls != 1 {
		t.Errorf("email hit should link once, got %d", repo.linkCalls)
	}

	// The link must persist: a second resolve hits the uid lookup directly.
	if _, err := svc.Resolve(context.Background(), &domain.Identity{UserID: uid, Email: "pedro@example.com"}); err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if repo.linkCalls != 1 {
		t.Errorf("link should not repeat after healing, got %d calls", repo.linkCalls)
	}
}

func TestResolveNoProfile(t *testing.T) {
	svc := NewIdentityService(newFakeOwnerRepo(), nopLogger{})
	_, err := svc.Resolve(context.Background(), &domain.Identity{UserID: uuid.New(), Email: "ghost@example.com"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown identity should resolve to ErrNotFound, got %v", err)
	}
}
