// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// TermLookup resolves category and genre slugs. Implemented by [*taxonomy.Service].
type TermLookup interface {
	Lookup(context context.Context, kind taxonomy.Kind, slug string) (*taxonomy.Term, error)
	LookupAll(context context.Context, kind taxonomy.Kind, slugs []string) ([]*taxonomy.Term, []string, error)
}

type Service struct {
	repo  Repository
	terms TermLookup
	now   func() time.Time
}

func NewService(repo Repository, terms TermLookup) *Service {
	return &Service{repo: repo, terms: terms, now: time.Now}
}

// WithClock replaces the time source used for the year bound. Used by tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// WriteInput is a full title as submitted on create and replace.
type WriteInput struct {
	Name        string
	Year        *int
	Description string
	Category    string
	Genres      []string
}

// PatchInput is a partial title. Nil fields keep their current value; a
// non-nil Genres replaces the whole genre set.
type PatchInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

// # Reads

func (service *Service) List(context context.Context, filter Filter) ([]*Title, int, error) {
	if filter.Year != nil && !yearInRange(*filter.Year) {
		return nil, 0, apperr.FieldInvalid(FieldYear, "Out of range")
	}

	titles, total, err := service.repo.List(context, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repo.FindByID(context, id)
}

// Ensure returns NOT_FOUND unless the title exists. Nested resources call it
// before touching their own rows.
func (service *Service) Ensure(context context.Context, id int64) error {
	exists, err := service.repo.Exists(context, id)
	if err != nil {
		return fmt.Errorf("title_service_ensure_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound(ResourceTitle)
	}
	return nil
}

// # Writes

/*
Create validates, resolves and stores a new title.

Returns:
  - *Title: The stored title in its read representation
  - error: ValidationError naming the offending field
*/
func (service *Service) Create(context context.Context, input WriteInput) (*Title, error) {
	record, err := service.resolve(context, input, true)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", referenceError(err))
	}

	ctxutil.GetLogger(context).InfoContext(context, "title_created", slog.Int64("title_id", record.ID))
	return service.repo.FindByID(context, record.ID)
}

// Replace overwrites every field of an existing title.
func (service *Service) Replace(context context.Context, id int64, input WriteInput) (*Title, error) {
	if err := service.Ensure(context, id); err != nil {
		return nil, err
	}

	record, err := service.resolve(context, input, true)
	if err != nil {
		return nil, err
	}
	record.ID = id

	return service.update(context, record)
}

/*
Patch applies a partial update.

Description: The stored title is merged with the input and the result is
validated as a whole. A title whose category was deleted may be patched
without supplying a new one.
*/
func (service *Service) Patch(context context.Context, id int64, input PatchInput) (*Title, error) {
	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	merged := WriteInput{
		Name:        pointer.Fallback(input.Name, current.Name),
		Year:        pointer.To(pointer.Fallback(input.Year, current.Year)),
		Description: pointer.Fallback(input.Description, current.Description),
		Genres: pointer.Fallback(input.Genres, slice.Map(current.Genres, func(term taxonomy.Term) string {
			return term.Slug
		})),
	}
	if current.Category != nil {
		merged.Category = current.Category.Slug
	}
	merged.Category = pointer.Fallback(input.Category, merged.Category)

	requireCategory := input.Category != nil || current.Category != nil
	record, err := service.resolve(context, merged, requireCategory)
	if err != nil {
		return nil, err
	}
	record.ID = id

	return service.update(context, record)
}

func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "title_deleted", slog.Int64("title_id", id))
	return nil
}

func (service *Service) update(context context.Context, record *Record) (*Title, error) {
	if err := service.repo.Update(context, record); err != nil {
		return nil, fmt.Errorf("title_service_update_failed: %w", referenceError(err))
	}

	ctxutil.GetLogger(context).InfoContext(context, "title_updated", slog.Int64("title_id", record.ID))
	return service.repo.FindByID(context, record.ID)
}

// resolve validates input and turns its slugs into ids.
func (service *Service) resolve(context context.Context, input WriteInput, requireCategory bool) (*Record, error) {
	name := strings.TrimSpace(input.Name)
	genres := slice.Uniq(input.Genres)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	if input.Year == nil {
		validator.Custom(FieldYear, true, "This field is required")
	} else if currentYear := service.now().Year(); *input.Year > currentYear {
		validator.Custom(FieldYear, true, fmt.Sprintf("Must not be later than %d", currentYear))
	} else if *input.Year < MinYear {
		validator.Custom(FieldYear, true, fmt.Sprintf("Must not be earlier than %d", MinYear))
	}
	if requireCategory {
		validator.Required(FieldCategory, input.Category)
	}
	validator.Custom(FieldGenre, len(genres) == 0, "At least one genre is required")
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	record := &Record{Name: name, Year: *input.Year, Description: input.Description}

	if input.Category != "" {
		category, err := service.terms.Lookup(context, taxonomy.KindCategory, input.Category)
		if apperr.IsNotFound(err) {
			validator.Custom(FieldCategory, true, fmt.Sprintf("Unknown category %q", input.Category))
		} else if err != nil {
			return nil, fmt.Errorf("title_service_resolve_failed: %w", err)
		} else {
			record.CategoryID = &category.ID
		}
	}

	terms, missing, err := service.terms.LookupAll(context, taxonomy.KindGenre, genres)
	if err != nil {
		return nil, fmt.Errorf("title_service_resolve_failed: %w", err)
	}
	validator.Custom(FieldGenre, len(missing) > 0, fmt.Sprintf("Unknown genre %s", strings.Join(missing, ", ")))
	record.GenreIDs = slice.Map(terms, func(term *taxonomy.Term) int64 { return term.ID })

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return record, nil
}

// referenceError reports a category or genre deleted between lookup and write
// as a field error.
func referenceError(err error) error {
	violation, ok := dberr.AsViolation(err)
	if !ok || !violation.ForeignKey() {
		return err
	}
	return apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: FieldCategory, Message: "A referenced category or genre no longer exists"})
}
