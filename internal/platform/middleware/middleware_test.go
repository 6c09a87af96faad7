// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Request-ID", "req-123")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", recorder.Header().Get("X-Request-ID"))
	})
}

func TestStructuredLogger_LogsStatusAndUser(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	gated := middleware.AdminOnly(verifier)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	handler := middleware.RequestID()(middleware.StructuredLogger(logger)(gated))

	request := httptest.NewRequest(http.MethodPost, "/api/books", nil)
	request.Header.Set("Authorization", "Bearer admin-token")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))

	assert.Equal(t, "http_request_finished", entry["msg"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, "/api/books", entry["path"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name      string
		allowed   []string
		origin    string
		method    string
		status    int
		allowedOK bool
	}{
		{"any_origin_when_unconfigured", nil, "http://localhost:3000", http.MethodGet, http.StatusOK, true},
		{"listed_origin", []string{"https://books.example.com"}, "https://books.example.com", http.MethodGet, http.StatusOK, true},
		{"unlisted_origin", []string{"https://books.example.com"}, "https://evil.example.com", http.MethodGet, http.StatusOK, false},
		{"preflight", nil, "http://localhost:3000", http.MethodOptions, http.StatusNoContent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, "/api/books", nil)
			request.Header.Set("Origin", tt.origin)

			recorder := httptest.NewRecorder()
			middleware.CORS(tt.allowed)(next).ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.allowedOK {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.9:4321"
	assert.Equal(t, "10.0.0.9", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))
}
