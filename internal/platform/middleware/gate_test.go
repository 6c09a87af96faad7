// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// fakeVerifier maps token strings to claims; unknown tokens fail.
type fakeVerifier map[string]*sec.AuthClaims

func (f fakeVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, sec.ErrTokenExpired
}

var verifier = fakeVerifier{
	"admin-token": {UserID: "u-1", Name: "alice", Role: string(sec.RoleAdmin)},
	"user-token":  {UserID: "u-2", Name: "bob", Role: string(sec.RoleUser)},
}

func serveGate(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	handler := middleware.AdminOnly(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		claims := ctxutil.GetAuthUser(r.Context())
		require.NotNil(t, claims)
		assert.Equal(t, "alice", claims.Name)
		w.WriteHeader(http.StatusCreated)
	}))

	request := httptest.NewRequest(http.MethodPost, "/api/books", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder, reached
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
		status        int
		message       string
		reached       bool
	}{
		{"missing_header", "", http.StatusUnauthorized, "Access token required", false},
		{"wrong_scheme", "Basic admin-token", http.StatusUnauthorized, "Access token required", false},
		{"empty_bearer", "Bearer ", http.StatusUnauthorized, "Access token required", false},
		{"invalid_token", "Bearer forged", http.StatusForbidden, "Invalid or expired token", false},
		{"user_role", "Bearer user-token", http.StatusForbidden, "Admin access required", false},
		{"admin_role", "Bearer admin-token", http.StatusCreated, "", true},
		{"lowercase_scheme", "bearer admin-token", http.StatusCreated, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, reached := serveGate(t, tt.authorization)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.reached, reached)

			if tt.message != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}
}

func TestPipeline_ShortCircuits(t *testing.T) {
	var calls []string

	stage := func(name string, fail bool) middleware.Stage {
		return func(r *http.Request) (*http.Request, error) {
			calls = append(calls, name)
			if fail {
				return nil, assert.AnError
			}
			return r, nil
		}
	}

	handler := middleware.Pipeline(stage("first", false), stage("second", true), stage("third", false))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls = append(calls, "handler") }),
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/api/books/1", nil))

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRequireRole_WithoutClaims(t *testing.T) {
	_, err := middleware.RequireRole(sec.RoleAdmin)(httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Error(t, err)
}
