// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package taxonomy serves the two flat classifications of the catalog:
// categories and genres. Both are (name, slug) pairs addressed by slug, so a
// single package handles them behind a [Kind] switch.
package taxonomy

import "github.com/taibuivan/yamdb/internal/platform/database/schema"

// Kind selects the classification a call operates on.
type Kind string

const (
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
)

// Resource is the name used in NOT_FOUND errors.
func (k Kind) Resource() string {
	if k == KindGenre {
		return "Genre"
	}
	return "Category"
}

func (k Kind) table() schema.TaxonomyTable {
	if k == KindGenre {
		return schema.CoreGenre
	}
	return schema.CoreCategory
}

// Term is one category or genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

const (
	FieldName = "name"
	FieldSlug = "slug"

	MaxNameLength = 256
)
