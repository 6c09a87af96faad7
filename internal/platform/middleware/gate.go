// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// Client-facing gate messages.
const (
	msgTokenRequired = "Access token required"
	msgTokenInvalid  = "Invalid or expired token"
	msgAdminRequired = "Admin access required"
)

// TokenVerifier defines the interface needed to verify tokens in the gate.
//
// [*sec.TokenService] satisfies it; tests inject fakes.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// # Access Control Gate

// Stage is a single step of the access-control gate.
//
// A stage either returns the (possibly enriched) request to hand to the next
// stage, or a terminal error that is rendered to the client.
type Stage func(request *http.Request) (*http.Request, error)

// Pipeline composes stages into a middleware that runs them in order.
//
// The first failing stage short-circuits the chain. Neither the remaining
// stages nor the wrapped handler run.
func Pipeline(stages ...Stage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current := request
			for _, stage := range stages {
				enriched, err := stage(current)
				if err != nil {
					respond.Error(writer, current, err)
					return
				}
				current = enriched
			}
			next.ServeHTTP(writer, current)
		})
	}
}

// BearerToken verifies the "Authorization: Bearer <token>" header and stores
// the resulting claims in the request context.
//
// # Errors
//   - 401 when the header or token is absent.
//   - 403 when the token fails verification for any reason. The precise
//     reason (expired, bad signature, malformed) is only logged.
func BearerToken(verifier TokenVerifier) Stage {
	return func(request *http.Request) (*http.Request, error) {
		tokenString, ok := bearerToken(request.Header.Get(constants.HeaderAuthorization))
		if !ok {
			return nil, apperr.Unauthorized(msgTokenRequired)
		}

		claims, err := verifier.VerifyToken(tokenString)
		if err != nil {
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "token_rejected",
				slog.String("reason", err.Error()),
			)
			return nil, apperr.Forbidden(msgTokenInvalid)
		}

		if holder := claimsHolderFrom(request.Context()); holder != nil {
			holder.userID = claims.UserID
		}

		return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)), nil
	}
}

// RequireRole admits only requests whose claims carry at least the given role.
//
// It must follow [BearerToken] in the pipeline; a request without claims is
// treated as unauthenticated.
func RequireRole(role sec.UserRole) Stage {
	return func(request *http.Request) (*http.Request, error) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			return nil, apperr.Unauthorized(msgTokenRequired)
		}

		if !sec.UserRole(claims.Role).AtLeast(role) {
			return nil, apperr.Forbidden(msgAdminRequired)
		}

		return request, nil
	}
}

// AdminOnly is the gate mounted in front of every catalog mutation.
func AdminOnly(verifier TokenVerifier) func(http.Handler) http.Handler {
	return Pipeline(BearerToken(verifier), RequireRole(sec.RoleAdmin))
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// # Claims Propagation

// claimsHolder lets the gate report the authenticated user back to
// [StructuredLogger], which only sees the outer request.
type claimsHolder struct {
	userID string
}

type claimsHolderKey struct{}

func withClaimsHolder(ctx context.Context, holder *claimsHolder) context.Context {
	return context.WithValue(ctx, claimsHolderKey{}, holder)
}

func claimsHolderFrom(ctx context.Context) *claimsHolder {
	holder, _ := ctx.Value(claimsHolderKey{}).(*claimsHolder)
	return holder
}
