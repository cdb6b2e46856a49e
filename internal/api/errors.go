// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NetworkError means no response was received at all: connection refused,
// DNS failure, timeout, cancelled context. The backend never saw the
// request, or its answer never arrived.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: no response from %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response from the backend. Message carries the
// server-provided message when the body contained one, otherwise a short
// rendering of the raw body.
type HTTPError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// IsNetworkError reports whether err means the backend was unreachable.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not
// an *HTTPError.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// IsSessionInvalid reports whether err is a 401 response. Policy: a 401
// from a protected endpoint means the stored token is no longer good and
// the session must be torn down.
func IsSessionInvalid(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response. Policy: the user is
// still logged in but lacks permission; the session survives.
func IsForbidden(err error) bool {
	return StatusOf(err) == http.StatusForbidden
}

// IsAuthError reports whether err is a 401 or 403 response.
func IsAuthError(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// UserMessage extracts a message suitable for display near a form. It
// prefers the server-provided message and falls back to the given default.
func UserMessage(err error, fallback string) string {
	var he *HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return fallback
}

// extractMessage pulls a human-readable message out of an error response
// body. Backends in the wild use both {"message": ...} and {"error": ...};
// plain-text bodies are used as-is when short enough.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	s := strings.TrimSpace(string(body))
	if s == "" || len(s) > 200 || strings.HasPrefix(s, "{") || strings.HasPrefix(s, "<") {
		return ""
	}
	return s
}
