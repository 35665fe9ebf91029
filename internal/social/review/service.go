// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// TitleGuard reports whether a title exists. Implemented by [*title.Service].
type TitleGuard interface {
	Ensure(context context.Context, titleID int64) error
}

type Service struct {
	repo   Repository
	titles TitleGuard
}

func NewService(repo Repository, titles TitleGuard) *Service {
	return &Service{repo: repo, titles: titles}
}

// CreateInput is a new review. Author, title and date come from the request context.
type CreateInput struct {
	Text  string
	Score *int
}

// PatchInput is a partial review. Nil fields keep their value.
type PatchInput struct {
	Text  *string
	Score *int
}

func (service *Service) List(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error) {
	if err := service.titles.Ensure(context, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := service.repo.List(context, titleID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return reviews, total, nil
}

func (service *Service) Get(context context.Context, titleID, id int64) (*Review, error) {
	if err := service.titles.Ensure(context, titleID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, titleID, id)
}

// Ensure returns NOT_FOUND unless the review exists under the title.
func (service *Service) Ensure(context context.Context, titleID, id int64) error {
	_, err := service.Get(context, titleID, id)
	return err
}

/*
Create stores the caller's review of a title.

Description: The pre-check gives the common case a clean error; the unique
key on (author, title) catches the concurrent one and maps to the same error.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (nil for anonymous callers)
  - titleID: int64
  - input: CreateInput

Returns:
  - *Review: The stored review
  - error: NotFound, Unauthorized, ValidationError or AlreadyReviewed
*/
func (service *Service) Create(context context.Context, identity *sec.Identity, titleID int64, input CreateInput) (*Review, error) {
	if err := service.titles.Ensure(context, titleID); err != nil {
		return nil, err
	}
	if err := access.ResponsibleOrReadOnly(identity, access.VerbCreate, 0); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text)
	validateScore(validator, input.Score, true)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.repo.ExistsByAuthor(context, titleID, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}
	if exists {
		return nil, apperr.AlreadyReviewed()
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: identity.UserID,
		Author:   identity.Username,
		Text:     input.Text,
		Score:    *input.Score,
	}
	if err := service.repo.Create(context, review); err != nil {
		if dberr.IsUnique(err, schema.SocialReview.AuthorTitleKey) {
			return nil, apperr.AlreadyReviewed()
		}
		// The title was deleted after Ensure.
		if dberr.IsForeignKey(err, schema.SocialReview.TitleFKey) {
			return nil, apperr.NotFound(title.ResourceTitle)
		}
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	ctxutil.GetLogger(context).InfoContext(context, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.Int("score", review.Score),
	)
	return review, nil
}

// Update edits the text or score of a review the caller is responsible for.
func (service *Service) Update(context context.Context, identity *sec.Identity, titleID, id int64, input PatchInput) (*Review, error) {
	review, err := service.Get(context, titleID, id)
	if err != nil {
		return nil, err
	}
	if err := access.ResponsibleOrReadOnly(identity, access.VerbUpdate, review.AuthorID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required(FieldText, *input.Text)
	}
	validateScore(validator, input.Score, false)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	review.Text = pointer.Fallback(input.Text, review.Text)
	review.Score = pointer.Fallback(input.Score, review.Score)

	if err := service.repo.Update(context, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}
	return review, nil
}

// Delete removes a review the caller is responsible for.
func (service *Service) Delete(context context.Context, identity *sec.Identity, titleID, id int64) error {
	review, err := service.Get(context, titleID, id)
	if err != nil {
		return err
	}
	if err := access.ResponsibleOrReadOnly(identity, access.VerbDelete, review.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, review.ID); err != nil {
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "review_deleted",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
	)
	return nil
}

func validateScore(validator *validate.Validator, score *int, required bool) {
	if score == nil {
		validator.Custom(FieldScore, required, "This field is required")
		return
	}
	validator.Range(FieldScore, *score, MinScore, MaxScore)
}

