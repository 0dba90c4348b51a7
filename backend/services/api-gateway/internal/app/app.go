package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fueltracker/backend/libs/auth"
	"fueltracker/backend/libs/httpserver"
	"fueltracker/backend/services/api-gateway/internal/clients"
	"fueltracker/backend/services/api-gateway/internal/config"
	gatewayhttp "fueltracker/backend/services/api-gateway/internal/http"
	"fueltracker/backend/services/api-gateway/internal/http/handlers"
	"fueltracker/backend/services/api-gateway/internal/http/middleware"
)

// App wires API gateway dependencies.
type App struct {
	server *httpserver.Server
	logger *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := clients.NewDefaultHTTPClient(cfg.HTTPTimeout())

	authClient := clients.NewAuthClient(cfg.Services.AuthURL, httpClient)
	pumpsClient := clients.NewPumpsClient(cfg.Services.PumpsURL, httpClient)

	mapFeed, err := handlers.NewMapFeedProxy(pumpsClient.BaseURL(), logger)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, 0)
	router := gatewayhttp.NewRouter(gatewayhttp.RouterDeps{
		AuthHandlers:   handlers.NewAuthHandlers(authClient, logger),
		PumpsHandlers:  handlers.NewPumpsHandlers(pumpsClient, logger),
		MapFeed:        mapFeed,
		HealthHandler:  handlers.NewHealthHandler(),
		WebDir:         cfg.Web.Dir,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, middleware.AdminOnly(tokens))

	handler := middleware.Chain(router,
		middleware.RecoveryMiddleware(logger),
		middleware.RequestID(),
		middleware.LoggingMiddleware(logger),
	)

	// The proxied map feed is long-lived, so no write timeout.
	server := httpserver.NewServer(cfg.HTTPAddress(), handler, logger, httpserver.WithTimeouts(15*time.Second, 0, 60*time.Second))

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources (none yet).
func (a *App) Close() {}
