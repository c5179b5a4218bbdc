package admins

import "github.com/dimasprakoso/lokalive-backend/pkg/enums"

// Permission names assignable to admin accounts. Super admins bypass the
// explicit list entirely.
const (
	PermOrdersManage     = "orders.manage"
	PermShipmentsManage  = "shipments.manage"
	PermPaymentsVerify   = "payments.verify"
	PermComplaintsHandle = "complaints.handle"
	PermCatalogManage    = "catalog.manage"
	PermTemplatesManage  = "templates.manage"
	PermLiveManage       = "live.manage"
	PermAdminsManage     = "admins.manage"
	PermActivitiesView   = "activities.view"
)

var allPermissions = []string{
	PermOrdersManage,
	PermShipmentsManage,
	PermPaymentsVerify,
	PermComplaintsHandle,
	PermCatalogManage,
	PermTemplatesManage,
	PermLiveManage,
	PermAdminsManage,
	PermActivitiesView,
}

var rolePermissions = map[enums.AdminRole][]string{
	enums.AdminRoleAdmin: {
		PermOrdersManage,
		PermShipmentsManage,
		PermPaymentsVerify,
		PermComplaintsHandle,
		PermCatalogManage,
		PermTemplatesManage,
		PermLiveManage,
		PermAdminsManage,
		PermActivitiesView,
	},
	enums.AdminRoleManager: {
		PermOrdersManage,
		PermShipmentsManage,
		PermPaymentsVerify,
		PermComplaintsHandle,
		PermCatalogManage,
		PermLiveManage,
		PermActivitiesView,
	},
	enums.AdminRoleStaff: {
		PermOrdersManage,
		PermComplaintsHandle,
	},
}

// KnownPermission reports whether the name is part of the catalog.
func KnownPermission(name string) bool {
	for _, candidate := range allPermissions {
		if candidate == name {
			return true
		}
	}
	return false
}

// DefaultPermissionsForRole returns the static catalog assigned when an admin
// is created without an explicit permission list. Super admins get an empty
// list since the role check short-circuits.
func DefaultPermissionsForRole(role enums.AdminRole) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
