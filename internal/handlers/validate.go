// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import "strings"

const (
	maxUsernameLen = 50
	maxTitleLen    = 200
	maxContentLen  = 50000
	maxCategoryLen = 50
	maxTagLen      = 30
	maxTags        = 10
)

// ParseTags splits a comma-separated tag string into clean tags.
// Whitespace around entries is trimmed and empty entries are dropped,
// so "go, , web ," yields ["go", "web"].
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}

// validateCredentials checks a login or registration form. Returns a
// user-facing message, or "" when the form is acceptable.
func validateCredentials(username, password string) string {
	if username == "" || password == "" {
		return "Username and password are required."
	}
	if len(username) > maxUsernameLen {
		return "Username is too long."
	}
	return ""
}

// validatePost checks an editor submission. Returns a user-facing
// message, or "" when the form is acceptable.
func validatePost(title, content, category string, tags []string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if len(title) > maxTitleLen {
		return "Title is too long."
	}
	if len(content) > maxContentLen {
		return "Content is too long."
	}
	if len(category) > maxCategoryLen {
		return "Category name is too long."
	}
	if len(tags) > maxTags {
		return "Too many tags."
	}
	for _, t := range tags {
		if len(t) > maxTagLen {
			return "Tag \"" + t + "\" is too long."
		}
	}
	return ""
}
