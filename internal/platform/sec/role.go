// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Full access to the catalog and the user directory
	RoleAdmin Role = "admin"

	// May edit or delete any review or comment
	RoleModerator Role = "moderator"

	// Default role for accounts created by signup
	RoleUser Role = "user"
)

// Roles lists every valid role, lowest first.
var Roles = []Role{RoleUser, RoleModerator, RoleAdmin}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.level() > 0
}

// String returns the wire value of the role.
func (r Role) String() string { return string(r) }

func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
