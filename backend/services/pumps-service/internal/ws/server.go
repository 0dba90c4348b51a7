package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fueltracker/backend/libs/auth"
	"fueltracker/backend/services/pumps-service/internal/controller"
	"fueltracker/backend/services/pumps-service/internal/mapview"
	"fueltracker/backend/services/pumps-service/internal/models"
)

// Server upgrades HTTP connections to the live map feed.
type Server struct {
	manager      *Manager
	pumps        controller.PumpSource
	tokens       *auth.TokenService
	center       mapview.LatLng
	zoom         int
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server. tokens may be nil, in which case every client is anonymous.
func NewServer(manager *Manager, pumps controller.PumpSource, tokens *auth.TokenService, center mapview.LatLng, zoom int, writeTimeout time.Duration, logger *zap.Logger) *Server {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Server{
		manager:      manager,
		pumps:        pumps,
		tokens:       tokens,
		center:       center,
		zoom:         zoom,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is HTTP handler for /api/map/ws endpoint.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	user := s.identify(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	layer := mapview.NewLayer(s.center, s.zoom)
	layer.Init()
	ctrl := controller.New(s.pumps, mapview.NewView(layer, s.logger), user)
	session := NewSession(ctrl, layer)

	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(uuid.NewString(), conn, session, s.writeTimeout, s.logger, func(id string) {
		s.manager.Remove(id)
		cancel()
	})
	s.manager.Add(connection)

	connection.Refresh()
	go connection.Start(ctx)

	fields := []zap.Field{zap.String("conn_id", connection.ID())}
	if user != nil {
		fields = append(fields, zap.String("user_id", user.UserID))
	}
	s.logger.Info("map client connected", fields...)
}

// identify resolves an optional token from the Authorization header or the token query
// parameter. Browsers cannot set headers on websocket upgrades.
func (s *Server) identify(r *http.Request) *models.Actor {
	if s.tokens == nil {
		return nil
	}
	raw, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		raw = r.URL.Query().Get("token")
	}
	if raw == "" {
		return nil
	}
	claims, err := s.tokens.ValidateToken(raw)
	if err != nil {
		s.logger.Debug("ignoring invalid map client token", zap.Error(err))
		return nil
	}
	return &models.Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin}
}
