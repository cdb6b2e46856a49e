// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLBasics(t *testing.T) {
	got, err := ToHTML("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html := string(got)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Title") {
		t.Errorf("missing heading: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("missing bold text: %s", html)
	}
}

func TestToHTMLGFMTable(t *testing.T) {
	got, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(got), "<table>") {
		t.Errorf("GFM table was not rendered: %s", got)
	}
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	got, err := ToHTML(`hello <script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(got), "<script>") {
		t.Errorf("raw HTML must not pass through: %s", got)
	}
}

func TestToHTMLCodeHighlighting(t *testing.T) {
	got, err := ToHTML("```go\nfunc main() {}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(got), "<pre") {
		t.Errorf("fenced code block was not rendered: %s", got)
	}
}
