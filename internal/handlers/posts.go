// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkfeed/internal/ai"
	"inkfeed/internal/api"
	"inkfeed/internal/cache"
	"inkfeed/internal/markdown"
	"inkfeed/internal/middleware"
	"inkfeed/internal/models"
	"inkfeed/internal/optimistic"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// Posts serves the post detail view, the create and edit forms, and the
// like toggle.
type Posts struct {
	core
	cache     *cache.FeedCache
	assistant *ai.Assistant
}

func NewPosts(renderer *render.Renderer, sessions *session.Manager, backend *api.Client, fc *cache.FeedCache, assistant *ai.Assistant) *Posts {
	return &Posts{
		core:      core{renderer: renderer, sessions: sessions, backend: backend},
		cache:     fc,
		assistant: assistant,
	}
}

// Detail renders a single post with its content as HTML. Comments load
// lazily through their own fragment endpoint.
func (h *Posts) Detail(w http.ResponseWriter, r *http.Request) {
	id := models.FlexID(chi.URLParam(r, "id"))
	username := currentUsername(r)

	post, err := h.backend.GetPost(r.Context(), currentToken(r), id)
	if err != nil {
		h.failPage(w, r, err, "This post does not exist or has been removed.")
		return
	}

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		// Unrenderable markdown falls back to escaped plain text.
		contentHTML = template.HTML(template.HTMLEscapeString(post.Content))
	}

	h.renderer.Page(w, r, "post", &render.PageData{
		Title:   post.Title,
		Section: "feed",
		Data: map[string]any{
			"Post":        post,
			"ContentHTML": contentHTML,
			"Owned":       models.IsOwner(post.Author, username),
			"HasLiked":    post.LikedBy(username),
		},
	})
}

// NewPage renders an empty editor.
func (h *Posts) NewPage(w http.ResponseWriter, r *http.Request) {
	h.renderEditor(w, r, editorView{Mode: "create", Action: "/posts"})
}

// CreateSubmit validates the editor form and creates the post.
func (h *Posts) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	v := editorView{
		Mode:      "create",
		Action:    "/posts",
		Title:     strings.TrimSpace(r.PostFormValue("title")),
		Content:   r.PostFormValue("content"),
		Category:  strings.TrimSpace(r.PostFormValue("category")),
		TagsInput: r.PostFormValue("tags"),
	}
	tags := ParseTags(v.TagsInput)

	if msg := validatePost(v.Title, v.Content, v.Category, tags); msg != "" {
		v.Error = msg
		h.renderEditor(w, r, v)
		return
	}

	in := models.PostInput{Title: v.Title, Content: v.Content, Category: v.Category, Tags: tags}
	if err := h.backend.CreatePost(r.Context(), sess.Token, in); err != nil {
		if api.IsSessionInvalid(err) {
			h.sessions.Logout(r.Context(), w, r)
			redirect(w, r, middleware.LoginURL("/posts/new"))
			return
		}
		v.Error = api.UserMessage(err, "Failed to create post. Please try again.")
		h.renderEditor(w, r, v)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.SetFlash(w, "success", "Post published.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditPage renders the editor prefilled with the post being changed.
// The feed snapshot covers most navigations; a direct link falls back
// to fetching the post.
func (h *Posts) EditPage(w http.ResponseWriter, r *http.Request) {
	id := models.FlexID(chi.URLParam(r, "id"))
	sess := middleware.SessionFromCtx(r.Context())

	post, ok := h.cachedPost(r, id)
	if !ok {
		var err error
		post, err = h.backend.GetPost(r.Context(), sess.Token, id)
		if err != nil {
			h.failPage(w, r, err, "This post does not exist or has been removed.")
			return
		}
	}

	if !models.IsOwner(post.Author, sess.Username) {
		h.errorPage(w, r, http.StatusForbidden, "You can only edit your own posts.")
		return
	}

	h.renderEditor(w, r, editorView{
		Mode:      "edit",
		Action:    fmt.Sprintf("/posts/%s/edit", id),
		Title:     post.Title,
		Content:   post.Content,
		Category:  post.Category,
		TagsInput: strings.Join(post.Tags, ", "),
	})
}

// EditSubmit validates the editor form and updates the post.
func (h *Posts) EditSubmit(w http.ResponseWriter, r *http.Request) {
	id := models.FlexID(chi.URLParam(r, "id"))
	sess := middleware.SessionFromCtx(r.Context())
	v := editorView{
		Mode:      "edit",
		Action:    fmt.Sprintf("/posts/%s/edit", id),
		Title:     strings.TrimSpace(r.PostFormValue("title")),
		Content:   r.PostFormValue("content"),
		Category:  strings.TrimSpace(r.PostFormValue("category")),
		TagsInput: r.PostFormValue("tags"),
	}
	tags := ParseTags(v.TagsInput)

	if msg := validatePost(v.Title, v.Content, v.Category, tags); msg != "" {
		v.Error = msg
		h.renderEditor(w, r, v)
		return
	}

	in := models.PostInput{Title: v.Title, Content: v.Content, Category: v.Category, Tags: tags}
	if err := h.backend.UpdatePost(r.Context(), sess.Token, id, in); err != nil {
		switch {
		case api.IsSessionInvalid(err):
			h.sessions.Logout(r.Context(), w, r)
			redirect(w, r, middleware.LoginURL(r.URL.Path))
			return
		case api.IsForbidden(err):
			v.Error = "You can only edit your own posts."
		default:
			v.Error = api.UserMessage(err, "Failed to update post. Please try again.")
		}
		h.renderEditor(w, r, v)
		return
	}

	// Back to the feed, which re-fetches now that the snapshots are gone.
	h.cache.InvalidateAll(r.Context())
	render.SetFlash(w, "success", "Post updated.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type editorView struct {
	Mode      string
	Action    string
	Title     string
	Content   string
	Category  string
	TagsInput string
	Error     string
}

func (h *Posts) renderEditor(w http.ResponseWriter, r *http.Request, v editorView) {
	title := "New Post"
	if v.Mode == "edit" {
		title = "Edit Post"
	}
	h.renderer.Page(w, r, "editor", &render.PageData{
		Title:   title,
		Section: "create",
		Data: map[string]any{
			"Mode":      v.Mode,
			"Action":    v.Action,
			"Title":     v.Title,
			"Content":   v.Content,
			"Category":  v.Category,
			"TagsInput": v.TagsInput,
			"Error":     v.Error,
		},
	})
}

// Like toggles the viewer's like on a post and responds with the
// refreshed button markup. The count flips immediately and is
// reconciled against the backend's authoritative totals; a failed call
// rolls the flip back so the button never drifts.
func (h *Posts) Like(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id := models.FlexID(chi.URLParam(r, "id"))
	if sess == nil {
		redirect(w, r, middleware.LoginURL(fmt.Sprintf("/posts/%s", id)))
		return
	}
	ctx := r.Context()

	state, ok := h.likeState(r, sess, id)
	if !ok {
		post, err := h.backend.GetPost(ctx, sess.Token, id)
		if err != nil {
			h.failPage(w, r, err, "This post does not exist or has been removed.")
			return
		}
		state = models.LikeState{TotalLikes: post.LikeCount(), HasLiked: post.LikedBy(sess.Username)}
	}

	wasLiked := state.HasLiked
	err := optimistic.Do(&state,
		func(s *models.LikeState) {
			if s.HasLiked {
				s.HasLiked = false
				s.TotalLikes--
			} else {
				s.HasLiked = true
				s.TotalLikes++
			}
		},
		func() (models.LikeState, error) {
			if wasLiked {
				return h.backend.Unlike(ctx, sess.Token, id)
			}
			return h.backend.Like(ctx, sess.Token, id)
		},
	)
	if err != nil {
		if api.IsSessionInvalid(err) {
			h.sessions.Logout(ctx, w, r)
			redirect(w, r, middleware.LoginURL(fmt.Sprintf("/posts/%s", id)))
			return
		}
		// Rolled back: respond with the unchanged button.
	}

	h.updateCachedLikes(r, id, sess.Username, state)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, render.LikeButtonHTML(id.String(), state.TotalLikes, state.HasLiked))
}

// likeState reads the current like state for a post out of the feed
// snapshot, avoiding a fetch for the common case of liking from the feed.
func (h *Posts) likeState(r *http.Request, sess *session.Data, id models.FlexID) (models.LikeState, bool) {
	posts, ok := h.cache.Get(r.Context(), session.ID(r))
	if !ok {
		return models.LikeState{}, false
	}
	for _, p := range posts {
		if p.ID == id {
			return models.LikeState{TotalLikes: p.LikeCount(), HasLiked: p.LikedBy(sess.Username)}, true
		}
	}
	return models.LikeState{}, false
}

// updateCachedLikes folds the reconciled like state back into the feed
// snapshot. If the authoritative total disagrees with what membership
// alone explains, someone else liked in the meantime and the snapshot is
// dropped instead of patched.
func (h *Posts) updateCachedLikes(r *http.Request, id models.FlexID, username string, state models.LikeState) {
	ctx := r.Context()
	posts, ok := h.cache.Get(ctx, session.ID(r))
	if !ok {
		return
	}
	for i, p := range posts {
		if p.ID != id {
			continue
		}
		likes := make([]models.Like, 0, len(p.Likes)+1)
		for _, l := range p.Likes {
			if strings.TrimSpace(l.User.Username) != strings.TrimSpace(username) {
				likes = append(likes, l)
			}
		}
		if state.HasLiked {
			likes = append(likes, models.Like{User: models.Author{Username: username}})
		}
		if len(likes) != state.TotalLikes {
			h.cache.Invalidate(ctx, session.ID(r))
			return
		}
		posts[i].Likes = likes
		h.cache.Set(ctx, session.ID(r), posts)
		return
	}
}

// cachedPost looks a post up in the session's feed snapshot.
func (h *Posts) cachedPost(r *http.Request, id models.FlexID) (models.Post, bool) {
	posts, ok := h.cache.Get(r.Context(), session.ID(r))
	if !ok {
		return models.Post{}, false
	}
	for _, p := range posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}
