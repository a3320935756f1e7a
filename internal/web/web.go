// Package web embeds the HTML templates, translations and static assets
// served by the API.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed locales/*.json
var localeFS embed.FS

// LocalesDir is the directory inside Locales holding "<lang>.json" files.
const LocalesDir = "locales"

// Locales returns the embedded translation files.
func Locales() fs.FS {
	return localeFS
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Static returns the static asset tree rooted at static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static/ is embedded at build time, so this cannot fail at runtime.
		panic(err)
	}
	return http.FS(sub)
}
