// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const ParamCommentID = "commentID"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes is mounted below /titles/{titleID}/reviews/{reviewID}/comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{"+ParamCommentID+"}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Patch("/", handler.update)
		r.Delete("/", handler.delete)
	})

	return router
}

type textRequest struct {
	Text *string `json:"text"`
}

func thread(request *http.Request) (Thread, error) {
	titleID, err := requestutil.ID(request, review.ParamTitleID, "Title")
	if err != nil {
		return Thread{}, err
	}
	reviewID, err := requestutil.ID(request, review.ParamReviewID, review.ResourceReview)
	if err != nil {
		return Thread{}, err
	}
	return Thread{TitleID: titleID, ReviewID: reviewID}, nil
}

func target(request *http.Request) (Thread, int64, error) {
	parent, err := thread(request)
	if err != nil {
		return Thread{}, 0, err
	}
	id, err := requestutil.ID(request, ParamCommentID, ResourceComment)
	if err != nil {
		return Thread{}, 0, err
	}
	return parent, id, nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	parent, err := thread(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.service.List(request.Context(), parent, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, pagination.NewMeta(params, total))
}

/*
POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Response:
  - 201: Comment
  - 400: Missing text
  - 401: Anonymous caller
  - 404: Unknown title or review
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	parent, err := thread(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input textRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var text string
	if input.Text != nil {
		text = *input.Text
	}

	comment, err := handler.service.Create(request.Context(), requestutil.Identity(request), parent, text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	parent, id, err := target(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Get(request.Context(), parent, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	parent, id, err := target(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input textRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Update(request.Context(), requestutil.Identity(request), parent, id, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	parent, id, err := target(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Identity(request), parent, id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
