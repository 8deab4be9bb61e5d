package models

// Role is the capability tier of an actor.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleBoss       Role = "boss"
	RoleDesigner   Role = "designer"
	RoleEditor     Role = "editor"
)

func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleBoss, RoleDesigner, RoleEditor}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleBoss, RoleDesigner, RoleEditor:
		return true
	default:
		return false
	}
}

// IsSuper reports whether the role bypasses every authorization rule.
func (r Role) IsSuper() bool {
	return r == RoleSuperAdmin
}

// IsAdminTier reports whether the role may perform administrative operations such as delete.
func (r Role) IsAdminTier() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// Actor is the identity performing an operation. It is trusted as supplied.
type Actor struct {
	ID   string `json:"id"   validate:"required"`
	Name string `json:"name"`
	Role Role   `json:"role" validate:"required"`
}
