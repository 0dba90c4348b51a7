package handlers

import (
	"net/http"
	"path/filepath"
)

// NewPageHandler serves one HTML page from webDir.
func NewPageHandler(webDir, page string) http.HandlerFunc {
	path := filepath.Join(webDir, page)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

// NewAssetsHandler serves scripts, styles and images under webDir.
func NewAssetsHandler(webDir string) http.Handler {
	return http.FileServer(http.Dir(webDir))
}
