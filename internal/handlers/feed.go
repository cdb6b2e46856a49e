// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkfeed/internal/api"
	"inkfeed/internal/cache"
	"inkfeed/internal/feed"
	"inkfeed/internal/middleware"
	"inkfeed/internal/models"
	"inkfeed/internal/optimistic"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// Feed serves the home page: the filterable, paginated post list.
type Feed struct {
	core
	cache *cache.FeedCache
}

func NewFeed(renderer *render.Renderer, sessions *session.Manager, backend *api.Client, fc *cache.FeedCache) *Feed {
	return &Feed{core: core{renderer: renderer, sessions: sessions, backend: backend}, cache: fc}
}

// Home renders the feed. Category and tag filters are mutually
// exclusive; when both arrive in the query string the category wins.
// The unfiltered post list is snapshotted per session so follow-up
// filter and page navigations don't refetch.
func (h *Feed) Home(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	q := r.URL.Query()

	category := q.Get("category")
	tag := q.Get("tag")
	if category != "" {
		tag = ""
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	posts, visible, err := h.loadPosts(r, sess.Token, category, tag)
	if err != nil {
		if api.IsSessionInvalid(err) {
			h.sessions.Logout(r.Context(), w, r)
			redirect(w, r, middleware.LoginURL(r.URL.Path))
			return
		}
		h.renderFeed(w, r, feedView{
			Error:    api.UserMessage(err, "Failed to load posts. Please try again."),
			Category: category,
			Tag:      tag,
			Page:     1,
		})
		return
	}

	categories, tags := h.facets(r.Context(), sess.Token, posts)
	pagePosts, totalPages := feed.Paginate(visible, page, feed.DefaultPageSize)

	h.renderFeed(w, r, feedView{
		Cards:      cards(pagePosts, sess.Username),
		Categories: categories,
		Tags:       tags,
		Category:   category,
		Tag:        tag,
		Page:       page,
		TotalPages: totalPages,
	})
}

// loadPosts returns the full post collection plus the filtered view of
// it. The full collection always backs the facet dropdowns, so it is
// fetched and snapshotted even when the request arrives pre-filtered —
// otherwise a direct navigation to a filter URL would collapse the
// dropdowns to the filtered subset. Filtered views prefer the dedicated
// backend endpoints; backends without them fall through to the local
// filter over the snapshot.
func (h *Feed) loadPosts(r *http.Request, token, category, tag string) (all, visible []models.Post, err error) {
	ctx := r.Context()

	all, cached := h.cache.Get(ctx, session.ID(r))
	if !cached {
		all, err = h.backend.ListPosts(ctx, token)
		if err != nil {
			return nil, nil, err
		}
		h.cache.Set(ctx, session.ID(r), all)
	}

	switch {
	case cached || (category == "" && tag == ""):
		visible = feed.Filter(all, category, tag)
	case category != "":
		if visible, err = h.backend.PostsByCategory(ctx, token, category); err != nil {
			visible = feed.Filter(all, category, tag)
		}
	default:
		if visible, err = h.backend.PostsByTag(ctx, token, tag); err != nil {
			visible = feed.Filter(all, category, tag)
		}
	}
	return all, visible, nil
}

// facets resolves the filter option lists, preferring the dedicated
// backend endpoints and falling back to deriving them from the loaded
// posts when either endpoint is missing or failing.
func (h *Feed) facets(ctx context.Context, token string, posts []models.Post) ([]string, []string) {
	cats, catErr := h.backend.Categories(ctx, token)
	tags, tagErr := h.backend.Tags(ctx, token)
	if catErr != nil || tagErr != nil {
		return feed.Facets(posts)
	}

	catNames := make([]string, 0, len(cats))
	for _, c := range cats {
		if c.Name != "" {
			catNames = append(catNames, c.Name)
		}
	}
	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Name != "" {
			tagNames = append(tagNames, t.Name)
		}
	}
	if len(catNames) == 0 && len(tagNames) == 0 {
		return feed.Facets(posts)
	}
	return catNames, tagNames
}

type feedView struct {
	Cards      []PostCard
	Categories []string
	Tags       []string
	Category   string
	Tag        string
	Page       int
	TotalPages int
	Error      string
}

func (h *Feed) renderFeed(w http.ResponseWriter, r *http.Request, v feedView) {
	h.renderer.Page(w, r, "feed", &render.PageData{
		Title:   "Feed",
		Section: "feed",
		Data: map[string]any{
			"Cards":            v.Cards,
			"Categories":       v.Categories,
			"Tags":             v.Tags,
			"SelectedCategory": v.Category,
			"SelectedTag":      v.Tag,
			"Page":             v.Page,
			"TotalPages":       v.TotalPages,
			"Error":            v.Error,
		},
	})
}

// DeletePost removes a post. When a feed snapshot exists the removal is
// applied to it first and rolled back if the backend call fails, so the
// next feed render reflects the outcome without a refetch.
func (h *Feed) DeletePost(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ctx := r.Context()
	id := models.FlexID(chi.URLParam(r, "id"))

	remove := func(posts *[]models.Post) {
		kept := make([]models.Post, 0, len(*posts))
		for _, p := range *posts {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		*posts = kept
	}

	var err error
	posts, ok := h.cache.Get(ctx, session.ID(r))
	if ok {
		err = optimistic.Try(&posts, remove, func() error {
			return h.backend.DeletePost(ctx, sess.Token, id)
		})
	} else {
		err = h.backend.DeletePost(ctx, sess.Token, id)
	}

	if err != nil {
		if api.IsSessionInvalid(err) {
			h.sessions.Logout(ctx, w, r)
			redirect(w, r, middleware.LoginURL("/"))
			return
		}
		if api.IsForbidden(err) {
			render.SetFlash(w, "error", "You can only delete your own posts.")
		} else {
			render.SetFlash(w, "error", api.UserMessage(err, "Failed to delete post."))
		}
		redirect(w, r, "/")
		return
	}

	// Other sessions hold stale snapshots of a collection that changed.
	h.cache.InvalidateAll(ctx)
	if ok {
		h.cache.Set(ctx, session.ID(r), posts)
	}
	render.SetFlash(w, "success", "Post deleted.")
	redirect(w, r, "/")
}
