// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkfeed/internal/models"
)

// Assist runs the draft in the editor through the AI service and
// responds with a summary plus suggested tags. The form itself is never
// touched: the suggestions render into the editor's AI panel with an
// apply button that copies the tags into the tags field.
func (h *Posts) Assist(w http.ResponseWriter, r *http.Request) {
	content := strings.TrimSpace(r.PostFormValue("content"))
	if content == "" {
		writeAIError(w, "Write some content first, then ask for suggestions.")
		return
	}

	summary, err := h.assistant.Summarize(r.Context(), content)
	if err != nil {
		writeAIError(w, "AI generation failed. Please try again.")
		return
	}
	tags, err := h.assistant.SuggestTags(r.Context(), content)
	if err != nil {
		writeAIError(w, "AI generation failed. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<div class="p-4 bg-purple-900/20 border border-purple-700/50 rounded-lg space-y-3">`)
	fmt.Fprintf(w, `<p class="text-sm text-gray-300"><span class="font-semibold text-purple-300">Summary:</span> %s</p>`,
		html.EscapeString(summary))
	if len(tags) > 0 {
		fmt.Fprint(w, `<div class="flex flex-wrap items-center gap-2">`)
		for _, t := range tags {
			fmt.Fprintf(w, `<span class="px-2 py-0.5 bg-purple-800/40 text-purple-200 rounded text-xs">%s</span>`,
				html.EscapeString(t))
		}
		fmt.Fprintf(w, `<button type="button" onclick="document.getElementById('tags').value = %s"
            class="px-3 py-1 bg-purple-600 text-white rounded text-xs hover:bg-purple-700">Apply tags</button>`,
			quoteJSString(strings.Join(tags, ", ")))
		fmt.Fprint(w, `</div>`)
	}
	fmt.Fprint(w, `</div>`)
}

// Summary generates an on-demand AI summary for a published post and
// returns it as a fragment for the detail view.
func (h *Posts) Summary(w http.ResponseWriter, r *http.Request) {
	id := models.FlexID(chi.URLParam(r, "id"))

	post, ok := h.cachedPost(r, id)
	if !ok {
		var err error
		post, err = h.backend.GetPost(r.Context(), currentToken(r), id)
		if err != nil {
			writeAIError(w, "Could not load the post to summarize.")
			return
		}
	}

	summary, err := h.assistant.Summarize(r.Context(), post.Content)
	if err != nil {
		writeAIError(w, "AI generation failed. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<div class="p-4 bg-purple-900/20 border border-purple-700/50 rounded-lg">
        <p class="text-sm text-gray-300"><span class="font-semibold text-purple-300">AI summary:</span> %s</p>
    </div>`, html.EscapeString(summary))
}

func writeAIError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<p class="text-sm text-red-300">%s</p>`, html.EscapeString(message))
}

// quoteJSString encodes a value as a JavaScript string literal safe to
// embed inside an HTML attribute.
func quoteJSString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return html.EscapeString(string(b))
}
