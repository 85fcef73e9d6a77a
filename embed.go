package netlifystats

import (
	"embed"
	"io/fs"
	"net/http"
)

// EmbeddedAssets contains static assets shipped with the dashboard:
// dashboard.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

func assetHandler() http.Handler {
	sub, _ := fs.Sub(EmbeddedAssets, "embedded")
	return http.FileServer(http.FS(sub))
}
