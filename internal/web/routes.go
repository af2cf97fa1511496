package web

import (
	"net/http"

	"github.com/rook-computer/d3doverlay/internal/assets"
)

// RegisterAPIV1 registers the control API under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, c Controller) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(c)))
}

// NewMux builds the simulator's handler: the API plus the embedded control
// page at "/". devMode adds permissive CORS for browser tooling on another
// origin.
func NewMux(c Controller, devMode bool) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, c)
	mux.Handle("/", http.FileServer(http.FS(assets.WebUI)))
	if devMode {
		return WithDevCORS(mux)
	}
	return mux
}
