// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// securityHeaders are set on every response. The CSP is shaped by the
// templates: htmx and the Tailwind CDN build load in dev, and the
// editor's apply-tags control uses an inline handler, so script-src
// needs 'unsafe-inline' and 'unsafe-eval' alongside the two CDNs.
var securityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "SAMEORIGIN",
	"X-XSS-Protection":       "0",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Content-Security-Policy": "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.tailwindcss.com https://unpkg.com; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' https: data:; " +
		"connect-src 'self'",
}

// SecureHeaders applies the baseline browser hardening headers.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, value := range securityHeaders {
			w.Header().Set(name, value)
		}
		next.ServeHTTP(w, r)
	})
}
