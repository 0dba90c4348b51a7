package httpserver

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"fueltracker/backend/services/api-gateway/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers   *handlers.AuthHandlers
	PumpsHandlers  *handlers.PumpsHandlers
	MapFeed        http.Handler
	HealthHandler  http.HandlerFunc
	WebDir         string
	AllowedOrigins []string
}

// NewRouter wires HTTP routes. adminOnly guards pump mutations, the admin pump list, exports and
// geocoding.
func NewRouter(deps RouterDeps, adminOnly func(http.Handler) http.Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", deps.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", deps.AuthHandlers.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", deps.AuthHandlers.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", deps.AuthHandlers.Me).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/logout", deps.AuthHandlers.Logout).Methods(http.MethodPost)

	forward := http.HandlerFunc(deps.PumpsHandlers.Forward)
	admin := adminOnly(forward)

	r.Handle("/api/pumps/districts", forward).Methods(http.MethodGet)
	r.Handle("/api/pumps/nearest", forward).Methods(http.MethodGet)
	r.Handle("/api/pumps/mine", admin).Methods(http.MethodGet)
	r.Handle("/api/pumps/mine/export.{format:pdf|xlsx}", admin).Methods(http.MethodGet)
	r.Handle("/api/pumps", forward).Methods(http.MethodGet)
	r.Handle("/api/pumps", admin).Methods(http.MethodPost)
	r.Handle("/api/pumps/{id}", forward).Methods(http.MethodGet)
	r.Handle("/api/pumps/{id}", admin).Methods(http.MethodPut, http.MethodDelete)
	r.Handle("/api/map/markers", forward).Methods(http.MethodGet)
	if deps.MapFeed != nil {
		r.Handle("/api/map/ws", deps.MapFeed).Methods(http.MethodGet)
	}
	r.Handle("/api/geocode/reverse", admin).Methods(http.MethodGet)

	if deps.WebDir != "" {
		r.HandleFunc("/", handlers.NewPageHandler(deps.WebDir, "index.html")).Methods(http.MethodGet)
		r.HandleFunc("/user", handlers.NewPageHandler(deps.WebDir, "user.html")).Methods(http.MethodGet)
		r.HandleFunc("/admin", handlers.NewPageHandler(deps.WebDir, "admin.html")).Methods(http.MethodGet)
		r.PathPrefix("/").Handler(handlers.NewAssetsHandler(deps.WebDir)).Methods(http.MethodGet)
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})(r)
}
