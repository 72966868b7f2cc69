// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpgvault/rpgvault/internal/auth"
	"github.com/rpgvault/rpgvault/internal/observability"
)

// userKey is the context key for the authenticated user.
type userKey struct{}

// userFromContext returns the authenticated user bound to the request.
func userFromContext(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(userKey{}).(*auth.User)
	return user, ok
}

// requireAuth authenticates the bearer token and binds the resolved
// user to the request context. A missing or malformed header fails
// exactly like an invalid token.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}

		user, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			if h.metrics != nil {
				h.metrics.AuthFailures.Inc()
			}
			respondError(w, h.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recordMetrics observes every request with its chi route pattern, so
// cardinality stays bounded by the route table rather than by IDs.
func recordMetrics(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if metrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveRequest(r.Method, route, ww.Status(), time.Since(start))
		})
	}
}
