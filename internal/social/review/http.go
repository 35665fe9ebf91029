// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const (
	// ParamTitleID must match the parameter name of the parent title route.
	ParamTitleID = "titleID"
	// ParamReviewID is shared with nested comment routes.
	ParamReviewID = "reviewID"
)

type Handler struct {
	service  *Service
	comments http.Handler
}

// NewHandler builds the review handler. comments, when not nil, is mounted at
// /{reviewID}/comments.
func NewHandler(service *Service, comments http.Handler) *Handler {
	return &Handler{service: service, comments: comments}
}

// Routes is mounted below /titles/{titleID}/reviews. Permissions are checked
// by the service once the title is known to exist.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{"+ParamReviewID+"}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Patch("/", handler.update)
		r.Delete("/", handler.delete)

		if handler.comments != nil {
			r.Mount("/comments", handler.comments)
		}
	})

	return router
}

type createRequest struct {
	Text  string `json:"text"`
	Score *int   `json:"score"`
}

type patchRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func titleID(request *http.Request) (int64, error) {
	return requestutil.ID(request, ParamTitleID, "Title")
}

func ids(request *http.Request) (int64, int64, error) {
	title, err := titleID(request)
	if err != nil {
		return 0, 0, err
	}
	review, err := requestutil.ID(request, ParamReviewID, ResourceReview)
	if err != nil {
		return 0, 0, err
	}
	return title, review, nil
}

/*
GET /api/v1/titles/{titleID}/reviews.

Response:
  - 200: []Review with pagination meta
  - 404: Unknown title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	title, err := titleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.service.List(request.Context(), title, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, reviews, pagination.NewMeta(params, total))
}

/*
POST /api/v1/titles/{titleID}/reviews.

Response:
  - 201: Review
  - 400: ValidationError or ALREADY_REVIEWED
  - 401: Anonymous caller
  - 404: Unknown title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	title, err := titleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Create(request.Context(), requestutil.Identity(request), title, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	title, id, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Get(request.Context(), title, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	title, id, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input patchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Update(request.Context(), requestutil.Identity(request), title, id, PatchInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	title, id, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Identity(request), title, id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
