package handlers

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"fueltracker/backend/services/api-gateway/internal/clients"
)

// PumpsHandlers proxies pumps-service endpoints.
type PumpsHandlers struct {
	client *clients.PumpsClient
	logger *zap.Logger
}

// NewPumpsHandlers returns handler struct.
func NewPumpsHandlers(client *clients.PumpsClient, logger *zap.Logger) *PumpsHandlers {
	return &PumpsHandlers{client: client, logger: logger}
}

// Forward relays the request to the same path on pumps-service.
func (h *PumpsHandlers) Forward(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := h.client.Forward(r.Context(), r.Method, r.URL.RequestURI(), body, forwardHeaders(r))
	if err != nil {
		h.logger.Error("pumps proxy failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, "pumps service unavailable")
		return
	}
	writeUpstream(w, resp)
}

// NewMapFeedProxy relays the live map WebSocket to pumps-service. The buffered client above
// cannot carry an upgraded connection.
func NewMapFeedProxy(pumpsURL string, logger *zap.Logger) (http.Handler, error) {
	target, err := url.Parse(pumpsURL)
	if err != nil || target.Host == "" {
		return nil, fmt.Errorf("handlers: invalid pumps service url %q", pumpsURL)
	}
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("map feed proxy failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "pumps service unavailable")
		},
	}, nil
}
