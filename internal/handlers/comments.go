// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkfeed/internal/api"
	"inkfeed/internal/middleware"
	"inkfeed/internal/models"
)

// commentView wraps a comment for the fragment template, carrying the
// viewer-dependent ownership flag that gates the delete control.
type commentView struct {
	Comment models.Comment
	Owned   bool
}

// CommentsPanel serves the lazily loaded comments fragment for a post.
func (h *Posts) CommentsPanel(w http.ResponseWriter, r *http.Request) {
	id := models.FlexID(chi.URLParam(r, "id"))

	comments, err := h.backend.ListComments(r.Context(), currentToken(r), id)
	if err != nil {
		if api.IsSessionInvalid(err) {
			h.sessions.Logout(r.Context(), w, r)
			redirect(w, r, middleware.LoginURL(fmt.Sprintf("/posts/%s", id)))
			return
		}
		h.renderComments(w, r, id, nil, api.UserMessage(err, "Failed to load comments."))
		return
	}
	h.renderComments(w, r, id, comments, "")
}

// CommentSubmit posts a new comment and responds with the refreshed
// panel. Blank input never reaches the backend: the error lands in the
// panel's error slot via HX-Retarget so the existing list stays put.
func (h *Posts) CommentSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id := models.FlexID(chi.URLParam(r, "id"))
	if sess == nil {
		redirect(w, r, middleware.LoginURL(fmt.Sprintf("/posts/%s", id)))
		return
	}

	content := strings.TrimSpace(r.PostFormValue("content"))
	if content == "" {
		w.Header().Set("HX-Retarget", fmt.Sprintf("#comment-error-%s", id))
		w.Header().Set("HX-Reswap", "innerHTML")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<p class="text-sm text-red-300 mt-2">Comment cannot be empty.</p>`)
		return
	}

	if _, err := h.backend.CreateComment(r.Context(), sess.Token, id, content); err != nil {
		if api.IsSessionInvalid(err) {
			h.sessions.Logout(r.Context(), w, r)
			redirect(w, r, middleware.LoginURL(fmt.Sprintf("/posts/%s", id)))
			return
		}
		msg := api.UserMessage(err, "Failed to post comment.")
		if api.IsForbidden(err) {
			msg = "You are not allowed to comment here."
		}
		w.Header().Set("HX-Retarget", fmt.Sprintf("#comment-error-%s", id))
		w.Header().Set("HX-Reswap", "innerHTML")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<p class="text-sm text-red-300 mt-2">%s</p>`, html.EscapeString(msg))
		return
	}

	comments, err := h.backend.ListComments(r.Context(), sess.Token, id)
	if err != nil {
		h.renderComments(w, r, id, nil, api.UserMessage(err, "Comment posted, but the list could not be refreshed."))
		return
	}
	h.renderComments(w, r, id, comments, "")
}

// CommentDelete removes the viewer's own comment and responds with the
// refreshed panel. The delete control only renders on owned comments;
// the backend enforces the rule regardless.
func (h *Posts) CommentDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id := models.FlexID(chi.URLParam(r, "id"))
	commentID := models.FlexID(chi.URLParam(r, "cid"))
	if sess == nil {
		redirect(w, r, middleware.LoginURL(fmt.Sprintf("/posts/%s", id)))
		return
	}

	if err := h.backend.DeleteComment(r.Context(), sess.Token, id, commentID); err != nil {
		if api.IsSessionInvalid(err) {
			h.sessions.Logout(r.Context(), w, r)
			redirect(w, r, middleware.LoginURL(fmt.Sprintf("/posts/%s", id)))
			return
		}
		msg := api.UserMessage(err, "Failed to delete comment.")
		if api.IsForbidden(err) {
			msg = "You can only delete your own comments."
		}
		comments, _ := h.backend.ListComments(r.Context(), sess.Token, id)
		h.renderComments(w, r, id, comments, msg)
		return
	}

	comments, err := h.backend.ListComments(r.Context(), sess.Token, id)
	if err != nil {
		h.renderComments(w, r, id, nil, api.UserMessage(err, "Comment deleted, but the list could not be refreshed."))
		return
	}
	h.renderComments(w, r, id, comments, "")
}

func (h *Posts) renderComments(w http.ResponseWriter, r *http.Request, id models.FlexID, comments []models.Comment, errMsg string) {
	username := currentUsername(r)
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentView{Comment: c, Owned: models.IsOwner(c.Author, username)})
	}
	h.renderer.Fragment(w, "_comments", map[string]any{
		"PostID":   id.String(),
		"Comments": views,
		"LoggedIn": middleware.SessionFromCtx(r.Context()) != nil,
		"LoginURL": middleware.LoginURL(fmt.Sprintf("/posts/%s", id)),
		"Error":    errMsg,
	})
}
