// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/respond"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthDependencies holds the named checks run by the /ready endpoint, in order.
type HealthDependencies struct {
	Names  []string
	Checks []Check
}

// Add registers a named check.
func (deps *HealthDependencies) Add(name string, check Check) {
	deps.Names = append(deps.Names, name)
	deps.Checks = append(deps.Checks, check)
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness answers 503 with a SERVICE_UNAVAILABLE error naming each failing
// dependency in details.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.dependencies.Checks))
	var failures []apperr.FieldError

	for i, check := range handler.dependencies.Checks {
		result := checkResult{Name: handler.dependencies.Names[i], IsOK: true}
		if err := check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			failures = append(failures, apperr.FieldError{Field: result.Name, Message: result.Error})
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", result.Name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	if len(failures) > 0 {
		notReady := apperr.ServiceUnavailable("Service is degraded")
		notReady.Details = failures
		respond.Error(writer, request, notReady)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldStatus: "ready",
		constants.FieldChecks: results,
	})
}
