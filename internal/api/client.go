// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package api is the HTTP client for the remote blog backend. It covers
// the auth endpoints (register, login, verify) and the general API
// endpoints (posts, comments, likes, categories, tags).
//
// Protected calls take the caller's bearer token explicitly — the client
// itself is shared across all sessions and holds no credentials. Failures
// are reported as *NetworkError (no response) or *HTTPError (non-2xx),
// which is the full error taxonomy the handlers dispatch on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"inkfeed/internal/models"
)

// defaultTimeout bounds every backend round trip. A hung backend call
// must not pin a request handler forever.
const defaultTimeout = 30 * time.Second

// Client talks to the blog backend.
type Client struct {
	apiBase  string
	authBase string
	client   *http.Client
}

// New creates a backend client. apiBase covers the general endpoints
// (e.g. http://host/api), authBase the auth ones (e.g. http://host/auth).
func New(apiBase, authBase string) *Client {
	return &Client{
		apiBase:  strings.TrimSuffix(apiBase, "/"),
		authBase: strings.TrimSuffix(authBase, "/"),
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

// --- Auth endpoints ---

// Register creates a new account. The backend answers 409 for duplicate
// usernames and 403 when it rejects the registration outright; both
// surface as *HTTPError for the handler to translate.
func (c *Client) Register(ctx context.Context, username, password string) error {
	payload := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, c.authBase+"/register", "", payload, nil)
}

// Login exchanges credentials for a bearer token. The backend's response
// is a bare token string in the simplest deployment; newer revisions wrap
// it as {"token": ...}. Both shapes are accepted.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}

	raw, err := c.doRaw(ctx, http.MethodPost, c.authBase+"/login", "", payload)
	if err != nil {
		return "", err
	}
	return parseToken(raw)
}

// Verify confirms that a stored token is still accepted by the backend.
func (c *Client) Verify(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, c.authBase+"/verify", token, nil, nil)
}

// --- Post endpoints ---

// ListPosts fetches the full post collection.
func (c *Client) ListPosts(ctx context.Context, token string) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, http.MethodGet, c.apiBase+"/posts", token, nil, &posts)
	return posts, err
}

// PostsByCategory fetches the posts in one category.
func (c *Client) PostsByCategory(ctx context.Context, token, category string) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, http.MethodGet, c.apiBase+"/posts/category/"+url.PathEscape(category), token, nil, &posts)
	return posts, err
}

// PostsByTag fetches the posts carrying one tag.
func (c *Client) PostsByTag(ctx context.Context, token, tag string) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, http.MethodGet, c.apiBase+"/posts/tag/"+url.PathEscape(tag), token, nil, &posts)
	return posts, err
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, token string, id models.FlexID) (models.Post, error) {
	var post models.Post
	err := c.do(ctx, http.MethodGet, c.postURL(id), token, nil, &post)
	return post, err
}

// CreatePost submits a new post.
func (c *Client) CreatePost(ctx context.Context, token string, in models.PostInput) error {
	return c.do(ctx, http.MethodPost, c.apiBase+"/posts", token, in, nil)
}

// UpdatePost replaces an existing post.
func (c *Client) UpdatePost(ctx context.Context, token string, id models.FlexID, in models.PostInput) error {
	return c.do(ctx, http.MethodPut, c.postURL(id), token, in, nil)
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, token string, id models.FlexID) error {
	return c.do(ctx, http.MethodDelete, c.postURL(id), token, nil, nil)
}

// --- Comment endpoints ---

// ListComments fetches all comments for a post.
func (c *Client) ListComments(ctx context.Context, token string, postID models.FlexID) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodGet, c.postURL(postID)+"/comments", token, nil, &comments)
	return comments, err
}

// CreateComment posts a comment and returns the created comment as the
// backend stored it.
func (c *Client) CreateComment(ctx context.Context, token string, postID models.FlexID, content string) (models.Comment, error) {
	var comment models.Comment
	err := c.do(ctx, http.MethodPost, c.postURL(postID)+"/comments", token, models.CommentInput{Content: content}, &comment)
	return comment, err
}

// DeleteComment removes a comment. The backend enforces ownership; the
// views only gate the affordance.
func (c *Client) DeleteComment(ctx context.Context, token string, postID, commentID models.FlexID) error {
	return c.do(ctx, http.MethodDelete, c.postURL(postID)+"/comments/"+url.PathEscape(commentID.String()), token, nil, nil)
}

// --- Like endpoints ---

// Like adds the caller's like and returns the authoritative like state.
func (c *Client) Like(ctx context.Context, token string, postID models.FlexID) (models.LikeState, error) {
	var state models.LikeState
	err := c.do(ctx, http.MethodPost, c.postURL(postID)+"/likes", token, nil, &state)
	return state, err
}

// Unlike removes the caller's like and returns the authoritative like state.
func (c *Client) Unlike(ctx context.Context, token string, postID models.FlexID) (models.LikeState, error) {
	var state models.LikeState
	err := c.do(ctx, http.MethodDelete, c.postURL(postID)+"/likes", token, nil, &state)
	return state, err
}

// --- Facet endpoints ---
// Optional: not every backend revision serves these. Callers fall back to
// deriving facets from the loaded posts when they are missing.

// Categories fetches the category list.
func (c *Client) Categories(ctx context.Context, token string) ([]models.Category, error) {
	var cats []models.Category
	err := c.do(ctx, http.MethodGet, c.apiBase+"/categories", token, nil, &cats)
	return cats, err
}

// Tags fetches the tag list.
func (c *Client) Tags(ctx context.Context, token string) ([]models.Tag, error) {
	var tags []models.Tag
	err := c.do(ctx, http.MethodGet, c.apiBase+"/tags", token, nil, &tags)
	return tags, err
}

func (c *Client) postURL(id models.FlexID) string {
	return c.apiBase + "/posts/" + url.PathEscape(id.String())
}

// do performs one backend round trip and decodes the JSON response body
// into out when both are present.
func (c *Client) do(ctx context.Context, method, rawurl, token string, body, out any) error {
	respBody, err := c.doRaw(ctx, method, rawurl, token, body)
	if err != nil {
		return err
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("api decode %s: %w", rawurl, err)
		}
	}

	return nil
}

// doRaw performs one backend round trip and returns the raw response body.
// A bearer token is attached when non-empty. The X-Request-ID forwards the
// inbound request's id when the context carries one, so a backend-side
// failure can be traced back to the page load that caused it; calls made
// outside a request get a fresh id.
func (c *Client) doRaw(ctx context.Context, method, rawurl, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawurl, reader)
	if err != nil {
		return nil, fmt.Errorf("api request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	requestID := chimw.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawurl, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: rawurl, Err: err}
	}

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{
			Status:  resp.StatusCode,
			Message: extractMessage(respBody),
			Body:    respBody,
		}
	}

	return respBody, nil
}

// parseToken handles the two login response shapes: a JSON object with a
// token field, or the token itself (as a JSON string or raw text).
func parseToken(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("api: empty login response")
	}

	if trimmed[0] == '{' {
		var obj struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", fmt.Errorf("api: login response: %w", err)
		}
		if obj.Token == "" {
			return "", fmt.Errorf("api: login response has no token")
		}
		return obj.Token, nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil && s != "" {
		return s, nil
	}

	// Plain text body.
	return string(trimmed), nil
}
