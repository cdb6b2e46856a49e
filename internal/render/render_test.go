// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkfeed/internal/models"
)

func TestNewParsesAllTemplates(t *testing.T) {
	r, err := New(true)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	for _, name := range []string{"feed", "post", "editor", "login", "register", "error", "_comments"} {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q was not parsed", name)
		}
	}
}

func TestPageFullVsHTMX(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	data := func() *PageData {
		return &PageData{Title: "Error", Data: map[string]any{"Status": 404, "Message": "gone"}}
	}

	// Full page load renders the base layout.
	w := httptest.NewRecorder()
	rn.Page(w, httptest.NewRequest(http.MethodGet, "/x", nil), "error", data())
	body := w.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("full page load should include the layout")
	}
	if !strings.Contains(body, "gone") {
		t.Error("full page load should include the view content")
	}

	// HTMX request renders only the content block.
	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("HX-Request", "true")
	rn.Page(w, r, "error", data())
	body = w.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("HTMX response must not include the layout")
	}
	if !strings.Contains(body, "gone") {
		t.Error("HTMX response should include the view content")
	}
}

func TestStandalonePageSkipsLayout(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	w := httptest.NewRecorder()
	rn.Page(w, httptest.NewRequest(http.MethodGet, "/login", nil), "login", &PageData{
		Title: "Sign In",
		Data:  map[string]any{"Error": "", "Username": "", "Next": ""},
	})

	body := w.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("standalone page should be a full document")
	}
	if strings.Contains(body, `hx-headers`) {
		t.Error("standalone page must not use the app layout chrome")
	}
}

func TestFragmentRendersWithoutLayout(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	type entry struct {
		Comment models.Comment
		Owned   bool
	}

	w := httptest.NewRecorder()
	rn.Fragment(w, "_comments", map[string]any{
		"PostID":   "7",
		"Comments": []entry{{Comment: models.Comment{ID: "1", Content: "nice post", Author: models.Author{Username: "bob"}}, Owned: true}},
		"LoggedIn": true,
		"LoginURL": "/login",
		"Error":    "",
	})

	body := w.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("fragment must not include the layout")
	}
	if !strings.Contains(body, "nice post") || !strings.Contains(body, "bob") {
		t.Errorf("fragment missing comment content:\n%s", body)
	}
	if !strings.Contains(body, `hx-post="/posts/7/comments"`) {
		t.Error("fragment missing the comment form for a logged-in viewer")
	}
	if !strings.Contains(body, `/posts/7/comments/1/delete`) {
		t.Error("fragment missing the delete control for an owned comment")
	}
}

func TestLikeButtonHTML(t *testing.T) {
	liked := string(LikeButtonHTML("7", 4, true))
	if !strings.Contains(liked, `hx-post="/posts/7/like"`) {
		t.Errorf("missing toggle target: %s", liked)
	}
	if !strings.Contains(liked, "♥") || !strings.Contains(liked, "4") {
		t.Errorf("liked button should show a filled heart and the count: %s", liked)
	}

	unliked := string(LikeButtonHTML("7", 3, false))
	if !strings.Contains(unliked, "♡") || !strings.Contains(unliked, "3") {
		t.Errorf("unliked button should show an empty heart and the count: %s", unliked)
	}

	escaped := string(LikeButtonHTML(`7" onmouseover="x`, 0, false))
	if strings.Contains(escaped, `onmouseover="x`) {
		t.Errorf("post id must be escaped: %s", escaped)
	}
}

func TestFlashRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetFlash(w, "success", "Post deleted.")

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == flashCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no flash cookie was set")
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	w2 := httptest.NewRecorder()

	flashes := PopFlashes(w2, r)
	if len(flashes) != 1 || flashes[0].Type != "success" || flashes[0].Message != "Post deleted." {
		t.Errorf("flashes = %+v", flashes)
	}

	// Pop must clear the cookie.
	var cleared bool
	for _, c := range w2.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("PopFlashes did not clear the cookie")
	}
}

func TestPopFlashesGarbageCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%not-base64%%%"})

	if got := PopFlashes(httptest.NewRecorder(), r); got != nil {
		t.Errorf("flashes = %+v, want nil", got)
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"short text unchanged", "one two three", 5, "one two three"},
		{"exact length unchanged", "one two three", 3, "one two three"},
		{"truncated", "one two three four", 2, "one two…"},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWords(tt.text, tt.n); got != tt.want {
				t.Errorf("TruncateWords = %q, want %q", got, tt.want)
			}
		})
	}
}
