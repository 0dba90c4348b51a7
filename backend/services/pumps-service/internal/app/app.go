package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"fueltracker/backend/libs/auth"
	libdb "fueltracker/backend/libs/db"
	"fueltracker/backend/libs/httpserver"
	"fueltracker/backend/libs/kvstore"
	libredis "fueltracker/backend/libs/redis"
	"fueltracker/backend/services/pumps-service/internal/config"
	"fueltracker/backend/services/pumps-service/internal/geocode"
	pumpshttp "fueltracker/backend/services/pumps-service/internal/http"
	"fueltracker/backend/services/pumps-service/internal/http/handlers"
	"fueltracker/backend/services/pumps-service/internal/mapview"
	"fueltracker/backend/services/pumps-service/internal/store"
	"fueltracker/backend/services/pumps-service/internal/ws"
)

// App wires all dependencies for the pumps service.
type App struct {
	server  *httpserver.Server
	manager *ws.Manager
	closers []io.Closer
	logger  *zap.Logger
}

// New builds the application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	kv, closers, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("blob store ready", zap.String("backend", cfg.Store.Backend))

	pumps := store.NewPumpStore(kv, logger)
	loaded := pumps.Load(ctx)
	logger.Info("pump collection loaded", zap.Int("pumps", len(loaded)))

	tokens := auth.NewTokenService(cfg.JWT.Secret, 0)
	center := mapview.LatLng{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng}

	manager := ws.NewManager(cfg.PingInterval())
	pumps.Subscribe(manager.RefreshAll)
	wsServer := ws.NewServer(manager, pumps, tokens, center, cfg.Map.Zoom, cfg.WriteTimeout(), logger)

	geocoder := geocode.NewClient(cfg.Geocode.URL, cfg.Geocode.UserAgent, cfg.GeocodeTimeout())

	router := pumpshttp.NewRouter(pumpshttp.Routes{
		ListPumps:      handlers.NewListPumpsHandler(pumps, logger),
		Districts:      handlers.NewDistrictsHandler(pumps),
		Nearest:        handlers.NewNearestHandler(pumps, logger),
		GetPump:        handlers.NewGetPumpHandler(pumps, logger),
		Markers:        handlers.NewMarkersHandler(pumps, center, cfg.Map.Zoom, logger),
		MapWS:          wsServer.HandleWS,
		CreatePump:     handlers.NewCreatePumpHandler(pumps, logger),
		UpdatePump:     handlers.NewUpdatePumpHandler(pumps, logger),
		DeletePump:     handlers.NewDeletePumpHandler(pumps, logger),
		MyPumps:        handlers.NewMyPumpsHandler(pumps),
		ExportPDF:      handlers.NewExportHandler(pumps, "pdf", logger),
		ExportXLSX:     handlers.NewExportHandler(pumps, "xlsx", logger),
		ReverseGeocode: handlers.NewReverseGeocodeHandler(geocoder, logger),
		Health:         handlers.NewHealthHandler(),
	}, tokens)

	// Live map connections outlive any write timeout.
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger, httpserver.WithTimeouts(15*time.Second, 0, 60*time.Second))

	return &App{
		server:  server,
		manager: manager,
		closers: closers,
		logger:  logger,
	}, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (kvstore.Store, []io.Closer, error) {
	switch cfg.Store.Backend {
	case kvstore.BackendMemory:
		return kvstore.NewMemoryStore(), nil, nil
	case kvstore.BackendPostgres:
		sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := libdb.EnsureSchema(ctx, sqlDB, kvstore.PostgresSchema); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		return kvstore.NewPostgresStore(sqlDB), []io.Closer{sqlDB}, nil
	case kvstore.BackendRedis:
		client, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewRedisStore(client, ""), []io.Closer{client}, nil
	default:
		return nil, nil, fmt.Errorf("app: unsupported store backend %q", cfg.Store.Backend)
	}
}

// Run starts the ping loop and HTTP server.
func (a *App) Run(ctx context.Context) error {
	go a.manager.Start(ctx)
	defer a.manager.CloseAll()
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
}
