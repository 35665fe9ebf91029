// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Repository persists reviews.
type Repository interface {
	/*
		List returns one page of a title's reviews, newest first.

		Parameters:
		  - context: context.Context
		  - titleID: int64
		  - page: pagination.Params

		Returns:
		  - []*Review: The page
		  - int: Total reviews of the title
		  - error: Storage failures
	*/
	List(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error)

	// FindByID returns the review only if it belongs to titleID, else NOT_FOUND.
	FindByID(context context.Context, titleID, id int64) (*Review, error)

	// ExistsByAuthor reports whether authorID already reviewed titleID.
	ExistsByAuthor(context context.Context, titleID, authorID int64) (bool, error)

	/*
		Create inserts a review and sets its ID and PubDate.

		Returns:
		  - error: *dberr.Violation on the (author, title) unique key
	*/
	Create(context context.Context, review *Review) error

	// Update writes Text and Score of an existing review.
	Update(context context.Context, review *Review) error

	// Delete removes a review and its comments.
	Delete(context context.Context, id int64) error
}
