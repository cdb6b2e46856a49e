// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the wire types exchanged with the remote blog API.
// The backend is not under our control and its endpoints are not perfectly
// uniform: authors arrive either as a bare string or as {"username": ...},
// and IDs arrive either as JSON numbers or strings. The types here absorb
// those differences so the rest of the application sees one shape.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Author identifies the writer of a post or comment. It decodes from
// either a JSON string ("alice") or an object ({"username": "alice"}).
type Author struct {
	Username string `json:"username"`
}

// UnmarshalJSON accepts both author shapes the backend is known to emit.
func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Username = ""
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &a.Username)
	}

	var obj struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("author: %w", err)
	}
	a.Username = obj.Username
	return nil
}

// FlexID is a resource identifier that decodes from a JSON number or a
// JSON string. It is always handled as a string on our side (IDs are
// opaque — they only ever travel back into URL paths).
type FlexID string

// UnmarshalJSON accepts numeric and string identifiers.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) String() string { return string(id) }

// Like marks one user's like on a post.
type Like struct {
	User Author `json:"user"`
}

// Post is a single blog post as returned by the backend.
type Post struct {
	ID        FlexID    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags"`
	Author    Author    `json:"author"`
	Likes     []Like    `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeCount returns the number of likes on the post.
func (p Post) LikeCount() int { return len(p.Likes) }

// LikedBy reports whether the named user has liked the post.
func (p Post) LikedBy(username string) bool {
	username = strings.TrimSpace(username)
	if username == "" {
		return false
	}
	for _, l := range p.Likes {
		if strings.TrimSpace(l.User.Username) == username {
			return true
		}
	}
	return false
}

// Comment is a single comment on a post.
type Comment struct {
	ID        FlexID    `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeState is the authoritative like-toggle response from the backend.
type LikeState struct {
	TotalLikes int  `json:"totalLikes"`
	HasLiked   bool `json:"hasLiked"`
}

// Category is a facet entity from the optional /categories endpoint.
type Category struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

// Tag is a facet entity from the optional /tags endpoint.
type Tag struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

// PostInput is the payload sent to the create and update endpoints.
type PostInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// CommentInput is the payload sent when posting a comment.
type CommentInput struct {
	Content string `json:"content"`
}

// IsOwner reports whether the session user owns the given resource author.
// Both sides are reduced to bare, trimmed username strings before comparing,
// regardless of which author shape the backend delivered.
func IsOwner(author Author, sessionUsername string) bool {
	owner := strings.TrimSpace(author.Username)
	user := strings.TrimSpace(sessionUsername)
	return owner != "" && owner == user
}
