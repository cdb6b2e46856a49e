package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkfeed/internal/session"
)

func TestLoginURL(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"root not recorded", "/", "/login"},
		{"empty not recorded", "", "/login"},
		{"plain path", "/posts/new", "/login?next=%2Fposts%2Fnew"},
		{"nested path", "/posts/7/edit", "/login?next=%2Fposts%2F7%2Fedit"},
		{"unrooted not recorded", "posts", "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoginURL(tt.path); got != tt.want {
				t.Errorf("LoginURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for anonymous requests")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/new", nil))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?next=%2Fposts%2Fnew" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	var ran bool
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		if sess := SessionFromCtx(r.Context()); sess == nil || sess.Username != "alice" {
			t.Errorf("session in handler = %+v", sess)
		}
	}))

	r := httptest.NewRequest(http.MethodGet, "/posts/new", nil)
	ctx := context.WithValue(r.Context(), SessionKey, &session.Data{Username: "alice", Token: "tok"})
	handler.ServeHTTP(httptest.NewRecorder(), r.WithContext(ctx))

	if !ran {
		t.Error("handler did not run for an authenticated request")
	}
}

func TestSessionFromCtxEmpty(t *testing.T) {
	if got := SessionFromCtx(context.Background()); got != nil {
		t.Errorf("session = %+v, want nil", got)
	}
}
