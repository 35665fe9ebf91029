// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// ReviewGuard reports whether a review exists under a title. Implemented by
// [*review.Service].
type ReviewGuard interface {
	Ensure(context context.Context, titleID, reviewID int64) error
}

type Service struct {
	repo    Repository
	reviews ReviewGuard
}

func NewService(repo Repository, reviews ReviewGuard) *Service {
	return &Service{repo: repo, reviews: reviews}
}

// Thread locates a comment thread: the review and the title it belongs to.
type Thread struct {
	TitleID  int64
	ReviewID int64
}

func (service *Service) List(context context.Context, thread Thread, page pagination.Params) ([]*Comment, int, error) {
	if err := service.reviews.Ensure(context, thread.TitleID, thread.ReviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.repo.List(context, thread.ReviewID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return comments, total, nil
}

func (service *Service) Get(context context.Context, thread Thread, id int64) (*Comment, error) {
	if err := service.reviews.Ensure(context, thread.TitleID, thread.ReviewID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, thread.ReviewID, id)
}

func (service *Service) Create(context context.Context, identity *sec.Identity, thread Thread, text string) (*Comment, error) {
	if err := service.reviews.Ensure(context, thread.TitleID, thread.ReviewID); err != nil {
		return nil, err
	}
	if err := access.ResponsibleOrReadOnly(identity, access.VerbCreate, 0); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: thread.ReviewID,
		AuthorID: identity.UserID,
		Author:   identity.Username,
		Text:     text,
	}
	if err := service.repo.Create(context, comment); err != nil {
		// The review was deleted after Ensure.
		if dberr.IsForeignKey(err, schema.SocialComment.ReviewFKey) {
			return nil, apperr.NotFound(review.ResourceReview)
		}
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", thread.ReviewID),
	)
	return comment, nil
}

// Update replaces the text of a comment. A nil text leaves it untouched.
func (service *Service) Update(context context.Context, identity *sec.Identity, thread Thread, id int64, text *string) (*Comment, error) {
	comment, err := service.Get(context, thread, id)
	if err != nil {
		return nil, err
	}
	if err := access.ResponsibleOrReadOnly(identity, access.VerbUpdate, comment.AuthorID); err != nil {
		return nil, err
	}
	if text == nil {
		return comment, nil
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, *text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment.Text = *text
	if err := service.repo.Update(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}
	return comment, nil
}

func (service *Service) Delete(context context.Context, identity *sec.Identity, thread Thread, id int64) error {
	comment, err := service.Get(context, thread, id)
	if err != nil {
		return err
	}
	if err := access.ResponsibleOrReadOnly(identity, access.VerbDelete, comment.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, comment.ID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_deleted",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", thread.ReviewID),
	)
	return nil
}
