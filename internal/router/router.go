// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains: the
// auth pages, the protected feed and editors, the HTMX fragment
// endpoints, and static assets.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"inkfeed/internal/handlers"
	"inkfeed/internal/middleware"
	"inkfeed/internal/session"
	"inkfeed/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions *session.Manager, auth *handlers.Auth, feed *handlers.Feed, posts *handlers.Posts, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request. RequestID runs first
	// so the logger, the recoverer and the backend client all see the
	// same id.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Static assets from the embedded filesystem.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Credential endpoints are the brute-force target, so they get a
	// per-IP rate limit on top of CSRF.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		// Auth pages — accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.Get("/register", auth.RegisterPage)
		r.Post("/logout", auth.Logout)
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Post("/login", auth.LoginSubmit)
			r.Post("/register", auth.RegisterSubmit)
		})

		// Post detail and comments are readable without a session; the
		// write endpoints below check for one themselves so they can
		// answer HTMX requests with a redirect header.
		r.Get("/posts/{id}", posts.Detail)
		r.Get("/posts/{id}/comments", posts.CommentsPanel)
		r.Post("/posts/{id}/comments", posts.CommentSubmit)
		r.Post("/posts/{id}/comments/{cid}/delete", posts.CommentDelete)
		r.Post("/posts/{id}/like", posts.Like)
		r.Post("/posts/{id}/summary", posts.Summary)

		// Authenticated area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", feed.Home)
			r.Post("/posts/{id}/delete", feed.DeletePost)

			r.Get("/posts/new", posts.NewPage)
			r.Post("/posts", posts.CreateSubmit)
			r.Get("/posts/{id}/edit", posts.EditPage)
			r.Post("/posts/{id}/edit", posts.EditSubmit)

			r.Post("/assist", posts.Assist)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
