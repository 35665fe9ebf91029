// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the Yamdb identity layer.

It owns the [User] entity and the two public entry points of the account
lifecycle: signup, which mails a confirmation code, and the token exchange,
which trades that code for an access token.

# Architecture

  - Entity: [User] is shared with the users directory (package account).
  - Repository: [UserRepository], implemented over PostgreSQL.
  - Security: confirmation codes and JWTs come from package sec.

No passwords are stored. Possession of the mailbox is the only credential.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Domain Entities

// User represents a registered member of Yamdb.
type User struct {
	ID          int64      `json:"-"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Bio         string     `json:"bio"`
	Role        sec.Role   `json:"role"`
	LastLoginAt *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// CodeSubject returns the state a confirmation code for this user is bound to.
func (user *User) CodeSubject() sec.CodeSubject {
	return sec.CodeSubject{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
	}
}

// Identity returns the request identity for this user.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
}

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)

// # Field Limits

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxNameLength     = 150
)

// ValidateUsername applies the username rules: required, bounded, allowed
// characters, not reserved.
func ValidateUsername(validator *validate.Validator, username string) *validate.Validator {
	return validator.Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Username(FieldUsername, username)
}

// ValidateEmail applies the email rules: required, bounded, well formed.
func ValidateEmail(validator *validate.Validator, email string) *validate.Validator {
	validator.Required(FieldEmail, email).MaxLen(FieldEmail, email, MaxEmailLength)
	if email != "" {
		validator.Email(FieldEmail, email)
	}
	return validator
}

// ConflictFromViolation turns a unique violation on users.account into a
// CONFLICT error naming the offending field. Other errors are returned as is.
func ConflictFromViolation(err error) error {
	violation, ok := dberr.AsViolation(err)
	if !ok || !violation.Unique() {
		return err
	}

	switch violation.Constraint {
	case schema.UserAccount.UsernameKey:
		return apperr.Conflict("Username is already taken",
			apperr.FieldError{Field: FieldUsername, Message: "A user with that username already exists"})
	case schema.UserAccount.EmailKey:
		return apperr.Conflict("Email is already registered",
			apperr.FieldError{Field: FieldEmail, Message: "A user with that email already exists"})
	default:
		return apperr.Conflict("User already exists")
	}
}
