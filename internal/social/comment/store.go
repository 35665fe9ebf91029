// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Repository persists comments. Every lookup is scoped to a review.
type Repository interface {
	List(context context.Context, reviewID int64, page pagination.Params) ([]*Comment, int, error)
	FindByID(context context.Context, reviewID, id int64) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, id int64) error
}
