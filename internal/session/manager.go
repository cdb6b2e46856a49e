// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// reverifyAfter is how long a session's backend verification stays fresh.
// Past this age the next request re-confirms the token with the backend
// before the session is treated as authenticated.
const reverifyAfter = 5 * time.Minute

// Verifier confirms a bearer token with the backend. *api.Client satisfies it.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// Manager owns the session lifecycle: it is the only writer of the stored
// token, and every other component learns "who is logged in" through it.
// A request's auth state resolves to one of three outcomes: anonymous
// (no usable session), authenticated (session returned), or — transiently,
// inside Current — verifying, while the token is re-confirmed with the
// backend. No handler sees the verifying state: Current only returns once
// it has settled.
type Manager struct {
	store    *Store
	verifier Verifier
}

// NewManager creates a session manager on top of the given store.
func NewManager(store *Store, verifier Verifier) *Manager {
	return &Manager{store: store, verifier: verifier}
}

// Current resolves the session for this request. It returns nil for
// anonymous requests. A stored session is destroyed on the spot when its
// token has expired client-side or when a due re-verification fails for
// any reason — network trouble included: a session we cannot vouch for is
// treated as no session, exactly like a failed verify at page load.
func (m *Manager) Current(w http.ResponseWriter, r *http.Request) *Data {
	ctx := r.Context()

	data, err := m.store.Get(ctx, r)
	if err != nil {
		slog.Warn("session load failed", "error", err)
		return nil
	}
	if data == nil {
		return nil
	}

	if !data.TokenExpiresAt.IsZero() && !data.TokenExpiresAt.After(time.Now()) {
		slog.Info("session token expired", "username", data.Username)
		m.store.Destroy(ctx, w, r)
		return nil
	}

	if time.Since(data.VerifiedAt) > reverifyAfter {
		if err := m.verifier.Verify(ctx, data.Token); err != nil {
			slog.Info("session re-verification failed", "username", data.Username, "error", err)
			m.store.Destroy(ctx, w, r)
			return nil
		}
		data.VerifiedAt = time.Now()
		if err := m.store.Update(ctx, r, data); err != nil {
			slog.Warn("session update failed", "error", err)
		}
	}

	return data
}

// Login stores a freshly issued token and moves the session straight to
// authenticated — the backend minted the token a moment ago, so there is
// nothing to re-verify. The username comes from the token's subject claim;
// fallbackUsername (the login form value) covers tokens without one.
// A token that is undecodable or already expired is rejected outright.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, token, fallbackUsername string) (*Data, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		if fallbackUsername == "" {
			return nil, fmt.Errorf("login: %w", err)
		}
		// Opaque (non-JWT) tokens are usable as long as we know the username.
		claims = Claims{Username: fallbackUsername}
	}

	if claims.Expired(time.Now()) {
		return nil, fmt.Errorf("login: token already expired")
	}

	data := &Data{
		Token:          token,
		Username:       claims.Username,
		TokenExpiresAt: claims.ExpiresAt,
		VerifiedAt:     time.Now(),
	}

	if _, err := m.store.Create(ctx, w, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Logout destroys the session. The caller handles navigation.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	m.store.Destroy(ctx, w, r)
}
