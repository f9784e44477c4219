// Package web holds the embedded dashboard templates and static assets.
package web

import "embed"

// Templates embeds layouts, pages and chart fragments.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static embeds stylesheets and scripts served under /static/.
//
//go:embed static/**/*
var Static embed.FS
