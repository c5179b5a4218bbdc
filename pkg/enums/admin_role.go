package enums

import "fmt"

// AdminRole grades operator accounts. Super admins implicitly hold every
// permission and are protected from deletion and deactivation.
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleManager    AdminRole = "manager"
	AdminRoleStaff      AdminRole = "staff"
)

var validAdminRoles = []AdminRole{
	AdminRoleSuperAdmin,
	AdminRoleAdmin,
	AdminRoleManager,
	AdminRoleStaff,
}

// String implements fmt.Stringer.
func (a AdminRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdminRole.
func (a AdminRole) IsValid() bool {
	for _, candidate := range validAdminRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdminRole converts raw input into an AdminRole.
func ParseAdminRole(value string) (AdminRole, error) {
	for _, candidate := range validAdminRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin role %q", value)
}
