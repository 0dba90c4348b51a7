package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"fueltracker/backend/libs/auth"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	ListPumps      http.HandlerFunc
	Districts      http.HandlerFunc
	Nearest        http.HandlerFunc
	GetPump        http.HandlerFunc
	Markers        http.HandlerFunc
	MapWS          http.HandlerFunc
	CreatePump     http.HandlerFunc
	UpdatePump     http.HandlerFunc
	DeletePump     http.HandlerFunc
	MyPumps        http.HandlerFunc
	ExportPDF      http.HandlerFunc
	ExportXLSX     http.HandlerFunc
	ReverseGeocode http.HandlerFunc
	Health         http.HandlerFunc
}

// NewRouter wires all HTTP routes. Write routes, the admin pump list and geocoding require an
// administrator token.
func NewRouter(routes Routes, tokens *auth.TokenService) http.Handler {
	r := mux.NewRouter()
	admin := auth.Middleware(tokens, true)

	handle := func(path, method string, h http.HandlerFunc, adminOnly bool) {
		if h == nil {
			return
		}
		var handler http.Handler = h
		if adminOnly {
			handler = admin(h)
		}
		r.Handle(path, handler).Methods(method)
	}

	handle("/health", http.MethodGet, routes.Health, false)

	// Static segments before /api/pumps/{id}.
	handle("/api/pumps/districts", http.MethodGet, routes.Districts, false)
	handle("/api/pumps/nearest", http.MethodGet, routes.Nearest, false)
	handle("/api/pumps/mine", http.MethodGet, routes.MyPumps, true)
	handle("/api/pumps/mine/export.pdf", http.MethodGet, routes.ExportPDF, true)
	handle("/api/pumps/mine/export.xlsx", http.MethodGet, routes.ExportXLSX, true)

	handle("/api/pumps", http.MethodGet, routes.ListPumps, false)
	handle("/api/pumps", http.MethodPost, routes.CreatePump, true)
	handle("/api/pumps/{id}", http.MethodGet, routes.GetPump, false)
	handle("/api/pumps/{id}", http.MethodPut, routes.UpdatePump, true)
	handle("/api/pumps/{id}", http.MethodDelete, routes.DeletePump, true)

	handle("/api/map/markers", http.MethodGet, routes.Markers, false)
	handle("/api/map/ws", http.MethodGet, routes.MapWS, false)
	handle("/api/geocode/reverse", http.MethodGet, routes.ReverseGeocode, true)

	return r
}
