// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for every view: auth pages,
// the post feed, the editors, post detail with likes and comments, and
// the AI assistant actions.
//
// Error handling follows one policy everywhere. Each handler catches its
// own backend failures and renders view-local error state; the single
// cross-cutting exception is a 401 from a protected endpoint, which tears
// the session down and redirects to login. A 403 means the user is still
// logged in but not allowed — it surfaces as an error, never as a logout.
package handlers

import (
	"net/http"
	"strings"

	"inkfeed/internal/api"
	"inkfeed/internal/middleware"
	"inkfeed/internal/models"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// core holds the dependencies every handler group shares.
type core struct {
	renderer *render.Renderer
	sessions *session.Manager
	backend  *api.Client
}

// PostCard is one feed entry plus the session-dependent flags the
// templates key off: whether the viewer owns the post and whether they
// have liked it.
type PostCard struct {
	Post     models.Post
	Owned    bool
	HasLiked bool
}

// cards builds the view structs for a post list.
func cards(posts []models.Post, username string) []PostCard {
	out := make([]PostCard, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostCard{
			Post:     p,
			Owned:    models.IsOwner(p.Author, username),
			HasLiked: p.LikedBy(username),
		})
	}
	return out
}

// currentUsername returns the session username, or "" for anonymous requests.
func currentUsername(r *http.Request) string {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess.Username
	}
	return ""
}

// currentToken returns the session bearer token, or "" for anonymous requests.
func currentToken(r *http.Request) string {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess.Token
	}
	return ""
}

// redirect issues a navigation that works for both regular form posts and
// HTMX requests. HTMX ignores 3xx on partial swaps, so it gets the
// HX-Redirect header instead.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// errorPage renders the page-level error view with the given status.
func (c core) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	c.renderer.Page(w, r, "error", &render.PageData{
		Title: http.StatusText(status),
		Data:  map[string]any{"Status": status, "Message": message},
	})
}

// failPage translates a backend error into the cross-cutting outcomes:
// session teardown on 401, a forbidden page on 403, not-found and
// unreachable pages otherwise. It always writes a response.
func (c core) failPage(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case api.IsSessionInvalid(err):
		c.sessions.Logout(r.Context(), w, r)
		redirect(w, r, middleware.LoginURL(r.URL.Path))
	case api.IsForbidden(err):
		c.errorPage(w, r, http.StatusForbidden, "You don't have permission to do that.")
	case api.IsNotFound(err):
		c.errorPage(w, r, http.StatusNotFound, notFoundMsg)
	case api.IsNetworkError(err):
		c.errorPage(w, r, http.StatusBadGateway, "Cannot reach the server. Please try again shortly.")
	default:
		c.errorPage(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// safeNext validates a post-login redirect target. Only rooted local
// paths are honoured; anything else falls back to the feed.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
