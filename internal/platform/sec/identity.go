// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Identity is the authenticated caller of a request.
//
// It is rebuilt from the user store on every request: the access token only
// names the account, so a role change takes effect on the next call.
type Identity struct {
	UserID   int64
	Username string
	Role     Role
}

// IsAdmin reports whether the caller holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// IsStaff reports whether the caller is a moderator or an admin.
func (i *Identity) IsStaff() bool {
	return i != nil && i.Role.AtLeast(RoleModerator)
}
