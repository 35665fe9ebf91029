// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import "context"

// Repository persists titles and their genre sets.
type Repository interface {
	/*
		List returns one page of titles with their rating, plus the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter

		Returns:
		  - []*Title: The page, ordered by id
		  - int: Total matching titles
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter) ([]*Title, int, error)

	// FindByID returns one title with its rating or NOT_FOUND.
	FindByID(context context.Context, id int64) (*Title, error)

	// Exists reports whether a title with the id exists.
	Exists(context context.Context, id int64) (bool, error)

	/*
		Create inserts a title and its genre links in one transaction.

		Parameters:
		  - context: context.Context
		  - record: *Record (ID is set on success)

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, record *Record) error

	// Update overwrites a title and replaces its genre links, or returns NOT_FOUND.
	Update(context context.Context, record *Record) error

	// Delete removes a title; reviews and comments follow by cascade.
	Delete(context context.Context, id int64) error
}
