// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Repository persists categories and genres.
type Repository interface {
	// List returns one page of terms whose name contains search, ordered by name.
	List(context context.Context, kind Kind, search string, page pagination.Params) ([]*Term, int, error)

	// FindBySlug returns the term with the exact slug or NOT_FOUND.
	FindBySlug(context context.Context, kind Kind, slug string) (*Term, error)

	// FindBySlugs returns the terms matching slugs. Unknown slugs are skipped.
	FindBySlugs(context context.Context, kind Kind, slugs []string) ([]*Term, error)

	// Create inserts a term and sets its ID. A duplicate slug yields a *dberr.Violation.
	Create(context context.Context, kind Kind, term *Term) error

	// DeleteBySlug removes the term with the exact slug or returns NOT_FOUND.
	DeleteBySlug(context context.Context, kind Kind, slug string) error
}
