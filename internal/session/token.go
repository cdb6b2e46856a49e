// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity derived from the bearer token payload: who the
// token belongs to and when it stops being valid.
//
// Decoding happens without signature verification — this client never
// holds the signing key. The backend remains the authority; these claims
// only spare us a verify round trip on every page load. Nothing outside
// this package parses tokens.
type Claims struct {
	Username  string
	ExpiresAt time.Time
}

// DecodeClaims extracts the subject and expiry from a JWT without
// verifying it. The subject arrives as a plain string in most token
// revisions, but at least one issuer embeds {"username": ...} instead;
// both are accepted.
func DecodeClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}

	var claims Claims

	switch sub := mc["sub"].(type) {
	case string:
		claims.Username = sub
	case map[string]any:
		claims.Username, _ = sub["username"].(string)
	}
	if claims.Username == "" {
		return Claims{}, fmt.Errorf("decode token: no usable subject")
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

// Expired reports whether the claims carry an expiry in the past.
// Tokens without an exp claim never expire client-side.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !c.ExpiresAt.After(now)
}
