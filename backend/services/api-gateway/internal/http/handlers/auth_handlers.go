package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"fueltracker/backend/services/api-gateway/internal/clients"
)

// AuthHandlers proxies auth-service endpoints. Cookies travel both ways so the session set by
// auth-service lands on the gateway origin.
type AuthHandlers struct {
	client *clients.AuthClient
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(client *clients.AuthClient, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{client: client, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	h.withBody(w, r, "register", h.client.Register)
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.withBody(w, r, "login", h.client.Login)
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.Me(r.Context(), forwardHeaders(r))
	h.reply(w, "me", resp, err)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.Logout(r.Context(), forwardHeaders(r))
	h.reply(w, "logout", resp, err)
}

type bodyCall func(ctx context.Context, body []byte, headers http.Header) (*clients.Response, error)

func (h *AuthHandlers) withBody(w http.ResponseWriter, r *http.Request, op string, call bodyCall) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := call(r.Context(), body, forwardHeaders(r))
	h.reply(w, op, resp, err)
}

func (h *AuthHandlers) reply(w http.ResponseWriter, op string, resp *clients.Response, err error) {
	if err != nil {
		h.logger.Error("auth proxy failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusBadGateway, "auth service unavailable")
		return
	}
	writeUpstream(w, resp)
}
