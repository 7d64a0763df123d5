package domain

import "github.com/google/uuid"

// Identity is what the auth provider asserts about the caller: the stable
// account id plus the email on the token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Session is the resolved caller context passed to every protected
// operation. Built once per request after identity resolution; there is no
// process-wide auth state.
type Session struct {
	OwnerID uuid.UUID
	UserID  uuid.UUID
	Email   string
	Name    string
	Role    Role
}

func (s *Session) Capabilities() Capabilities {
	return CapabilitiesFor(s.Role)
}

func (s *Session) IsStaff() bool {
	return s.Role == RoleAdmin || s.Role == RoleMechanic
}
