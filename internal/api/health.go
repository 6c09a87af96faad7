// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase Checker

	// CheckCache pings the Redis client. Nil when no cache is configured.
	CheckCache Checker
}

// HealthHandlers serves the liveness, readiness and status probes.
type HealthHandlers struct {
	dependencies HealthDependencies
	logger       *slog.Logger
	now          func() time.Time
}

// NewHealthHandlers creates the probe handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) *HealthHandlers {
	return &HealthHandlers{dependencies: deps, logger: logger, now: time.Now}
}

// Liveness handles GET /health. It answers 200 as long as the process serves HTTP.
func (handler *HealthHandlers) Liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, respond.Payload{constants.FieldStatus: "ok"})
}

// Status handles GET /getstatus, the probe the browser client polls.
func (handler *HealthHandlers) Status(writer http.ResponseWriter, _ *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{
		constants.FieldStatus:  "success",
		constants.FieldMessage: "Server is running",
		"timestamp":            handler.now().UTC().Format(time.RFC3339),
	})
}

type checkResult struct {
	Name string `json:"name"`
	IsOK bool   `json:"ok"`
}

// Readiness handles GET /ready. It answers 503 when any configured
// dependency fails its check; failure details are only logged.
func (handler *HealthHandlers) Readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		check Checker
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}

		result := checkResult{Name: dependency.name, IsOK: true}
		if err := dependency.check(request.Context()); err != nil {
			result.IsOK = false
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.Success(writer, httpStatus, respond.Payload{
		constants.FieldStatus: responseStatus,
		constants.FieldChecks: results,
	})
}
