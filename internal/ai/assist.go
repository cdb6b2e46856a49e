// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai is the client for the external AI writing assistant. The
// service exposes two operations over plain JSON: content summarization
// and tag suggestion. Both are best-effort helpers for the post editor —
// a failure here must never block publishing.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Assistant talks to the AI service.
type Assistant struct {
	baseURL string
	client  *http.Client
}

// New creates an assistant for the service at baseURL.
// LLM-backed endpoints can take tens of seconds; the timeout allows for that.
func New(baseURL string) *Assistant {
	return &Assistant{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Summarize returns a short summary of the given post content.
func (a *Assistant) Summarize(ctx context.Context, content string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	if err := a.post(ctx, "/summarize", content, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Summary), nil
}

// SuggestTags returns tag suggestions for the given post content.
func (a *Assistant) SuggestTags(ctx context.Context, content string) ([]string, error) {
	var out struct {
		Tags []string `json:"tags"`
	}
	if err := a.post(ctx, "/generate-tags", content, &out); err != nil {
		return nil, err
	}

	// The service occasionally pads entries with whitespace.
	tags := out.Tags[:0]
	for _, t := range out.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// post performs one round trip to the AI service.
func (a *Assistant) post(ctx context.Context, path, content string, out any) error {
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("ai marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("ai http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ai read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ai service error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("ai unmarshal: %w", err)
	}

	return nil
}
