package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Register http.HandlerFunc
	Login    http.HandlerFunc
	Me       http.HandlerFunc
	Logout   http.HandlerFunc
	Health   http.HandlerFunc
}

// NewRouter wires all HTTP routes.
func NewRouter(routes Routes) http.Handler {
	r := mux.NewRouter()
	handle := func(path, method string, h http.HandlerFunc) {
		if h != nil {
			r.HandleFunc(path, h).Methods(method)
		}
	}

	handle("/api/auth/register", http.MethodPost, routes.Register)
	handle("/api/auth/login", http.MethodPost, routes.Login)
	handle("/api/auth/me", http.MethodGet, routes.Me)
	handle("/api/auth/logout", http.MethodPost, routes.Logout)
	handle("/health", http.MethodGet, routes.Health)
	return r
}
