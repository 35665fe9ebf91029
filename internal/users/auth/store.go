// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Repository Contracts

// UserRepository defines the persistence operations the auth flow needs.
type UserRepository interface {
	/*
		FindByID retrieves a user by primary key.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Loaded account
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByUsername retrieves a user by exact, case-sensitive username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Loaded account
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByUsernameAndEmail retrieves the user matching both values.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string

		Returns:
		  - *User: Loaded account
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsernameAndEmail(context context.Context, username, email string) (*User, error)

	/*
		Create inserts a user and fills in its ID and timestamps.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: *dberr.Violation on duplicate username or email, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		TouchLastLogin records a successful token exchange.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - at: time.Time

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	TouchLastLogin(context context.Context, id int64, at time.Time) error
}
