package render

import "embed"

// templateFS embeds all page and fragment templates.
//
//go:embed templates/*.html
var templateFS embed.FS
