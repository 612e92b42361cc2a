package model

// Role determines which permissions a user carries. Roles are static:
// they live in code, not in the database, so a deploy is the only way
// to change what a role can do.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleModerator     Role = "moderator"
	RoleStudent       Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleModerator, RoleStudent:
		return true
	}
	return false
}

// Permission is a single named capability checked by the RBAC middleware.
type Permission string

const (
	PermCatalogWrite     Permission = "catalog:write"
	PermFeedbackModerate Permission = "feedback:moderate"
	PermUsersRead        Permission = "users:read"
	PermUsersWrite       Permission = "users:write"
	PermUsersResetSes    Permission = "users:reset_session"
	PermSystemMonitor    Permission = "system:monitor"
)

var rolePermissions = map[Role][]Permission{
	RoleAdministrator: {
		PermCatalogWrite,
		PermFeedbackModerate,
		PermUsersRead,
		PermUsersWrite,
		PermUsersResetSes,
		PermSystemMonitor,
	},
	RoleModerator: {
		PermFeedbackModerate,
	},
	RoleStudent: {},
}

// PermissionsFor returns the permission set attached to a role. The
// returned slice is a copy, callers may mutate it freely.
func PermissionsFor(role Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether a permission list contains perm.
// Claims store permissions as plain strings, hence the string slice.
func HasPermission(perms []string, perm Permission) bool {
	for _, p := range perms {
		if p == string(perm) {
			return true
		}
	}
	return false
}
