// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements the users directory.

Admins manage every account by username; any authenticated caller reads and
edits their own profile through /users/me.

# Architecture

  - Entities: the [auth.User] entity is reused as is.
  - Domain: field rules come from package auth so signup and the directory
    cannot drift apart.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// ListFilter narrows a directory listing.
type ListFilter struct {
	// Search matches any part of the username, case-insensitively.
	Search string
	Page   pagination.Params
}

// # Repository Contracts

// AccountRepository defines the persistence contract for the users directory.
type AccountRepository interface {
	/*
		List returns one page of accounts ordered by id, plus the total count.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []*auth.User: The page
		  - int: Total matching accounts
		  - error: Storage failures
	*/
	List(context context.Context, filter ListFilter) ([]*auth.User, int, error)

	/*
		FindByUsername retrieves an account by exact username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Loaded account
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Create inserts a new account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: *dberr.Violation on a duplicate username or email
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update writes every mutable field of an existing account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: apperr.NotFound, *dberr.Violation or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes an account. Reviews and comments go with it.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id int64) error
}
