// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/url"

	"inkfeed/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoadSession resolves the request's auth state through the session
// manager and stores the session data in the request context. Downstream
// handlers access it via SessionFromCtx(). This middleware does NOT
// enforce authentication — it just settles who, if anyone, is logged in.
// Expired or unverifiable sessions are already torn down by the manager
// before any handler runs, so no view ever renders against a session that
// is still being verified.
func LoadSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if data := manager.Current(w, r); data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects unauthenticated users to the login page, recording
// the page they were after so login can send them back.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil {
			http.Redirect(w, r, LoginURL(r.URL.Path), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoginURL builds the login redirect target, carrying the current path in
// the next parameter. Only rooted paths are recorded.
func LoginURL(path string) string {
	if path == "" || path == "/" || path[0] != '/' {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(path)
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
