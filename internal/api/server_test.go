// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/api"
	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*sec.AuthClaims, error) { return nil, sec.ErrInvalidToken }

func (rejectAll) ResolveIdentity(context.Context, int64) (*sec.Identity, error) {
	return nil, errors.New("unreachable")
}

// newRouter wires handlers over services with no storage. Only paths rejected
// before any storage access are exercised.
func newRouter(t *testing.T, health api.HealthDependencies) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	liveness, readiness := api.NewHealthHandlers(health, logger)

	terms := taxonomy.NewService(nil)
	titles := title.NewService(nil, terms)
	reviews := review.NewService(nil, titles)
	comments := comment.NewService(nil, reviews)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(auth.NewService(nil, nil, nil, nil)),
		Users:      account.NewHandler(account.NewService(nil)),
		Categories: taxonomy.NewHandler(terms, taxonomy.KindCategory),
		Genres:     taxonomy.NewHandler(terms, taxonomy.KindGenre),
		Titles: title.NewHandler(titles,
			review.NewHandler(reviews, comment.NewHandler(comments).Routes()).Routes()),
	}

	cfg := &config.Config{Environment: "development"}
	return api.NewRouter(ctx, cfg, logger, api.Security{Verifier: rejectAll{}, Resolver: rejectAll{}}, handlers)
}

/*
TestRouter_Health checks liveness and readiness with healthy and failing dependencies.
*/
func TestRouter_Health(t *testing.T) {
	var health api.HealthDependencies
	health.Add("postgres", func(context.Context) error { return nil })
	health.Add("redis", func(context.Context) error { return errors.New("connection refused") })

	router := newRouter(t, health)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var failure struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &failure))
	assert.Equal(t, apperr.CodeServiceUnavailable, failure.Code)
	require.Len(t, failure.Details, 1)
	assert.Equal(t, "redis", failure.Details[0].Field)
	assert.Equal(t, "connection refused", failure.Details[0].Message)
}

/*
TestRouter_ReadyWhenAllChecksPass verifies the success body lists every check.
*/
func TestRouter_ReadyWhenAllChecksPass(t *testing.T) {
	var health api.HealthDependencies
	health.Add("postgres", func(context.Context) error { return nil })
	health.Add("redis", func(context.Context) error { return nil })

	recorder := httptest.NewRecorder()
	newRouter(t, health).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Data.Status)
	require.Len(t, body.Data.Checks, 2)
	assert.True(t, body.Data.Checks[1].OK)
}

/*
TestRouter_Guards verifies the route tree and the guards that run before any handler logic.
*/
func TestRouter_Guards(t *testing.T) {
	router := newRouter(t, api.HealthDependencies{})

	tests := []struct {
		name   string
		method string
		path   string
		header string
		status int
	}{
		{"me requires auth", http.MethodGet, "/api/v1/users/me", "", http.StatusUnauthorized},
		{"user directory is admin only", http.MethodGet, "/api/v1/users/", "", http.StatusUnauthorized},
		{"category create is admin only", http.MethodPost, "/api/v1/categories/", "", http.StatusUnauthorized},
		{"genre delete is admin only", http.MethodDelete, "/api/v1/genres/drama", "", http.StatusUnauthorized},
		{"title create is admin only", http.MethodPost, "/api/v1/titles/", "", http.StatusUnauthorized},
		{"bad bearer token", http.MethodGet, "/api/v1/titles/", "Bearer nope", http.StatusUnauthorized},
		{"bad scheme", http.MethodGet, "/api/v1/titles/", "Basic abc", http.StatusUnauthorized},
		{"malformed title id", http.MethodGet, "/api/v1/titles/abc/reviews/", "", http.StatusNotFound},
		{"malformed review id", http.MethodGet, "/api/v1/titles/1/reviews/x/comments/", "", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}
