// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slug"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput holds a new term. An empty Slug is derived from Name.
type CreateInput struct {
	Name string
	Slug string
}

func (service *Service) List(context context.Context, kind Kind, search string, page pagination.Params) ([]*Term, int, error) {
	return service.repo.List(context, kind, search, page)
}

// Lookup returns the term with the exact slug.
func (service *Service) Lookup(context context.Context, kind Kind, slug string) (*Term, error) {
	return service.repo.FindBySlug(context, kind, slug)
}

// LookupAll returns the terms for slugs in slug order. Unknown slugs are
// returned separately so the caller can report them.
func (service *Service) LookupAll(context context.Context, kind Kind, slugs []string) ([]*Term, []string, error) {
	found, err := service.repo.FindBySlugs(context, kind, slugs)
	if err != nil {
		return nil, nil, err
	}

	bySlug := make(map[string]*Term, len(found))
	for _, term := range found {
		bySlug[term.Slug] = term
	}

	terms := make([]*Term, 0, len(slugs))
	var missing []string
	for _, s := range slugs {
		if term, ok := bySlug[s]; ok {
			terms = append(terms, term)
		} else {
			missing = append(missing, s)
		}
	}
	return terms, missing, nil
}

/*
Create validates and stores a new category or genre.

Returns:
  - *Term: The stored term
  - error: ValidationError, or Conflict on the slug field
*/
func (service *Service) Create(context context.Context, kind Kind, input CreateInput) (*Term, error) {
	term := &Term{Name: strings.TrimSpace(input.Name), Slug: strings.TrimSpace(input.Slug)}
	if term.Slug == "" {
		term.Slug = slug.From(term.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, term.Name).MaxLen(FieldName, term.Name, MaxNameLength)
	if term.Name != "" {
		validator.Required(FieldSlug, term.Slug)
	}
	if term.Slug != "" {
		validator.MaxLen(FieldSlug, term.Slug, slug.MaxLength).Slug(FieldSlug, term.Slug)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, kind, term); err != nil {
		if dberr.IsUnique(err, kind.table().SlugKey) {
			return nil, apperr.Conflict(kind.Resource()+" already exists",
				apperr.FieldError{Field: FieldSlug, Message: "This slug is already in use"})
		}
		return nil, fmt.Errorf("taxonomy_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "term_created",
		slog.String("kind", string(kind)),
		slog.String("slug", term.Slug),
	)
	return term, nil
}

func (service *Service) Delete(context context.Context, kind Kind, slug string) error {
	if err := service.repo.DeleteBySlug(context, kind, slug); err != nil {
		return fmt.Errorf("taxonomy_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "term_deleted",
		slog.String("kind", string(kind)),
		slog.String("slug", slug),
	)
	return nil
}
