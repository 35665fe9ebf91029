// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the catalog's titles: films, books, songs and anything
else a review can be written about.

A title belongs to at most one category and to one or more genres. Its rating
is never stored; it is the mean review score, computed when the title is read.
*/
package title

import (
	"math"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// ResourceTitle is the resource name used in NOT_FOUND errors.
const ResourceTitle = "Title"

// Title is the read representation of a catalog title.
type Title struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Description string          `json:"description"`
	Genres      []taxonomy.Term `json:"genre"`
	Category    *taxonomy.Term  `json:"category"`
	// Rating is the mean review score, nil until the first review.
	Rating *float64 `json:"rating"`
}

// Record is the write model of a title with its references resolved to ids.
type Record struct {
	ID          int64
	Name        string
	Year        int
	Description string
	CategoryID  *int64
	GenreIDs    []int64
}

// Filter narrows a title listing. Zero values match everything.
type Filter struct {
	// Category and Genre are exact slugs.
	Category string
	Genre    string
	// Name matches any part of the title name, case-insensitively.
	Name string
	Year *int
	Page pagination.Params
}

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"

	MaxNameLength = 256
	// MinYear is the lowest year the INTEGER column holds.
	MinYear = math.MinInt32
)

// yearInRange reports whether year fits the INTEGER column.
func yearInRange(year int) bool {
	return year >= math.MinInt32 && year <= math.MaxInt32
}
