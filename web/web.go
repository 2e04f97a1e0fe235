// Package web holds the HTML pages served by the dream journal.
package web

import "embed"

// Templates contains templates/*.html.
//
//go:embed templates/*.html
var Templates embed.FS
