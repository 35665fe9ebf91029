// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TaxonomyTable represents a name/slug lookup table ('core.category' or 'core.genre').
type TaxonomyTable struct {
	Table string
	ID    string
	Name  string
	Slug  string

	// SlugKey is the unique constraint on Slug.
	SlugKey string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = TaxonomyTable{
	Table:   "core.category",
	ID:      "id",
	Name:    "name",
	Slug:    "slug",
	SlugKey: "category_slug_key",
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = TaxonomyTable{
	Table:   "core.genre",
	ID:      "id",
	Name:    "name",
	Slug:    "slug",
	SlugKey: "genre_slug_key",
}
