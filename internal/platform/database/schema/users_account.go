// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Bio         string
	Role        string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string

	// Unique constraints
	UsernameKey string
	EmailKey    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	FirstName:   "firstname",
	LastName:    "lastname",
	Bio:         "bio",
	Role:        "role",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",

	UsernameKey: "account_username_key",
	EmailKey:    "account_email_key",
}

// Columns returns the columns read by the user stores, in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FirstName, t.LastName,
		t.Bio, t.Role, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
