package domain

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMechanic Role = "mechanic"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMechanic, RoleCustomer:
		return true
	}
	return false
}

// Capabilities is the full set of things a role may do. Admin must remain a
// superset of every other role for any capability added here.
type Capabilities struct {
	CanCreateBikes        bool `json:"can_create_bikes"`
	CanEditBikes          bool `json:"can_edit_bikes"`
	CanDeleteBikes        bool `json:"can_delete_bikes"`
	CanAssignOwners       bool `json:"can_assign_owners"`
	CanEditOwners         bool `json:"can_edit_owners"`
	CanDeleteOwners       bool `json:"can_delete_owners"`
	CanViewAllBikes       bool `json:"can_view_all_bikes"`
	CanViewAllOwners      bool `json:"can_view_all_owners"`
	CanEditMaintenances   bool `json:"can_edit_maintenances"`
	CanDeleteMaintenances bool `json:"can_delete_maintenances"`
}

// CapabilitiesFor is the single source of truth for role policy. Views and
// middleware consume this table instead of re-deriving rules per call site.
func CapabilitiesFor(role Role) Capabilities {
	switch role {
	case RoleAdmin:
		return Capabilities{
			CanCreateBikes:        true,
			CanEditBikes:          true,
			CanDeleteBikes:        true,
			CanAssignOwners:       true,
			CanEditOwners:         true,
			CanDeleteOwners:       true,
			CanViewAllBikes:       true,
			CanViewAllOwners:      true,
			CanEditMaintenances:   true,
			CanDeleteMaintenances: true,
		}
	case RoleMechanic:
		return Capabilities{
			CanViewAllBikes:     true,
			CanViewAllOwners:    true,
			CanEditMaintenances: true,
		}
	default:
		// Customers only ever see their own records.
		return Capabilities{}
	}
}
