// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for all views.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"inkfeed/internal/middleware"
	"inkfeed/internal/session"
)

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active nav section (e.g., "feed", "create")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and HTMX headers
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// flashCookie carries flashes across one redirect.
const flashCookie = "if_flash"

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login":    true,
	"register": true,
}

// readMoreWords is the word threshold past which a feed card truncates
// post content behind a "read more" link.
const readMoreWords = 100

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with the base layout.
// When devMode is true, templates load assets from CDN; when false, they
// reference the embedded static files.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "text-white font-semibold"
				}
				return "text-gray-400 hover:text-gray-200"
			},
			// isDev returns true when the app runs in development mode.
			// Used by templates to conditionally load CDN vs local assets.
			"isDev": func() bool {
				return devMode
			},
			// excerpt truncates post content at the read-more threshold.
			"excerpt": func(content string) string {
				return TruncateWords(content, readMoreWords)
			},
			// truncated reports whether content exceeds the threshold,
			// i.e. whether the card needs a "read more" link.
			"truncated": func(content string) bool {
				return len(strings.Fields(content)) > readMoreWords
			},
			// joinTags renders a tag slice back into the editor's
			// comma-separated input format.
			"joinTags": func(tags []string) string {
				return strings.Join(tags, ", ")
			},
			// pages yields 1..n for pagination links.
			"pages": func(n int) []int {
				out := make([]int, n)
				for i := range out {
					out[i] = i + 1
				}
				return out
			},
		},
	}

	r.funcMap["likeButton"] = LikeButtonHTML

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	// Parse each page template paired with the base layout.
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}

		// Strip .html extension for the template name.
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		var parseErr error

		// Fragment templates (leading underscore) and standalone pages
		// render without the base layout.
		if strings.HasPrefix(tmplName, "_") || standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(r.funcMap).ParseFS(
				templateFS, "templates/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
				templateFS, "templates/base.html", "templates/"+name,
			)
		}

		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. For HTMX requests, only the "content" block is sent. For full
// page loads, the entire base layout is rendered.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.GetCSRFToken(r)

	// Inject session from context.
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	// One-time messages from a preceding redirect.
	data.Flashes = append(data.Flashes, PopFlashes(w, r)...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// HTMX request: render only the content fragment.
	if isHTMX(r) {
		if err := executeTemplate(w, tmpl, "content", data); err != nil {
			http.Error(w, "template error", http.StatusInternalServerError)
		}
		return
	}

	// Full page request: render the complete layout.
	execName := "base.html"
	// Standalone pages use their own root template (not base.html).
	if standaloneTemplates[name] {
		execName = name + ".html"
	}

	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Fragment renders a fragment template (leading underscore) on its own,
// outside any layout. Used for HTMX partial responses.
func (rn *Renderer) Fragment(w http.ResponseWriter, name string, data any) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("fragment %q not found", name), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := executeTemplate(w, tmpl, name+".html", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// LikeButtonHTML renders the like toggle control. It is the single source
// of that markup: the feed and detail templates call it through the
// likeButton template func, and the like handler returns it as the HTMX
// swap fragment after a toggle.
func LikeButtonHTML(postID string, count int, liked bool) template.HTML {
	heart, style := "♡", "text-gray-400 hover:text-pink-400"
	if liked {
		heart, style = "♥", "text-pink-500 hover:text-pink-400"
	}
	id := template.HTMLEscapeString(postID)
	return template.HTML(fmt.Sprintf(
		`<button hx-post="/posts/%s/like" hx-swap="outerHTML" class="flex items-center gap-1 text-sm %s transition-colors">%s %d</button>`,
		id, style, heart, count,
	))
}

// SetFlash queues a one-time message to display after the next page load,
// surviving exactly one redirect.
func SetFlash(w http.ResponseWriter, kind, message string) {
	payload, err := json.Marshal([]Flash{{Type: kind, Message: message}})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

// PopFlashes reads and clears any queued flash messages.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}

// TruncateWords cuts text after n words, appending an ellipsis when
// anything was dropped.
func TruncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + "…"
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
