// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/convert"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// ParamTitleID is the URL parameter naming the title, shared with nested resources.
const ParamTitleID = "titleID"

type Handler struct {
	service *Service
	reviews http.Handler
}

// NewHandler builds the title handler. reviews, when not nil, is mounted at
// /{titleID}/reviews.
func NewHandler(service *Service, reviews http.Handler) *Handler {
	return &Handler{service: service, reviews: reviews}
}

// Routes exposes reads to everyone and writes to admins.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.With(middleware.RequireAdmin).Post("/", handler.create)

	router.Route("/{"+ParamTitleID+"}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.With(middleware.RequireAdmin).Put("/", handler.replace)
		r.With(middleware.RequireAdmin).Patch("/", handler.patch)
		r.With(middleware.RequireAdmin).Delete("/", handler.delete)

		if handler.reviews != nil {
			r.Mount("/reviews", handler.reviews)
		}
	})

	return router
}

type writeRequest struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

type patchRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

/*
GET /api/v1/titles?category=&genre=&name=&year=&page=&limit=.

Description: category and genre are exact slugs, name is a case-insensitive
substring and year an exact match. A malformed year is ignored; a year
outside the INTEGER range is a validation error.
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	params := pagination.FromRequest(request)
	filter := Filter{
		Category: query.Get("category"),
		Genre:    query.Get("genre"),
		Name:     query.Get("name"),
		Year:     convert.ToIntP(query.Get("year")),
		Page:     params,
	}

	titles, total, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, titles, pagination.NewMeta(params, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, ParamTitleID, ResourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input writeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), WriteInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

func (handler *Handler) replace(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, ParamTitleID, ResourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input writeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Replace(request.Context(), id, WriteInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) patch(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, ParamTitleID, ResourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input patchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Patch(request.Context(), id, PatchInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, ParamTitleID, ResourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
