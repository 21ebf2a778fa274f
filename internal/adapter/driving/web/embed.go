package web

//go:generate go tool templ generate -path ./templates

import "embed"

// StaticFS holds the embedded static assets (stylesheet).
//
//go:embed static/*
var StaticFS embed.FS

// helpMarkdown is the introduction shown above the upload form.
//
//go:embed help.md
var helpMarkdown string
