package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fueltracker/backend/libs/auth"
	"fueltracker/backend/libs/httpserver"
	libredis "fueltracker/backend/libs/redis"
	appconfig "fueltracker/backend/services/auth-service/internal/config"
	"fueltracker/backend/services/auth-service/internal/db"
	authhttp "fueltracker/backend/services/auth-service/internal/http"
	"fueltracker/backend/services/auth-service/internal/http/handlers"
	"fueltracker/backend/services/auth-service/internal/password"
	"fueltracker/backend/services/auth-service/internal/repository"
	"fueltracker/backend/services/auth-service/internal/service"
	"fueltracker/backend/services/auth-service/internal/session"
)

// App wires dependencies for the auth service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	sessions := session.NewStore(redisClient, cfg.SessionTTL())
	hasher := password.NewBcryptHasher(cfg.Password.BcryptCost)
	tokenSvc := auth.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, sessions, hasher, tokenSvc, logger)

	cookies := handlers.CookieOptions{TTL: sessions.TTL(), Secure: cfg.Session.CookieSecure}
	routes := authhttp.Routes{
		Register: handlers.NewRegisterHandler(authSvc, cookies, logger),
		Login:    handlers.NewLoginHandler(authSvc, cookies, logger),
		Me:       handlers.NewMeHandler(authSvc, logger),
		Logout:   handlers.NewLogoutHandler(authSvc, cookies, logger),
		Health:   handlers.NewHealthHandler(),
	}

	router := authhttp.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
