package ports

import (
	"context"

	"github.com/japezoa/bike-manager/internal/core/domain"
)

// TokenService verifies an auth-provider access token and extracts the
// asserted identity.
type TokenService interface {
	VerifyToken(token string) (*domain.Identity, error)
}

// IdentityService resolves an asserted identity to a local owner session.
// domain.ErrNotFound means "no profile": the caller must deny access and
// force a sign-out, it is not a server fault.
type IdentityService interface {
	Resolve(ctx context.Context, identity *domain.Identity) (*domain.Session, error)
}
