package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"fueltracker/backend/services/api-gateway/internal/clients"
)

const maxProxyBody = 1 << 20

// Request headers passed to upstream services.
var forwardedRequestHeaders = []string{"Authorization", "Cookie", "Content-Type", "Accept", "X-Request-ID"}

// Response headers passed back to the client.
var forwardedResponseHeaders = []string{"Content-Type", "Content-Disposition", "Set-Cookie"}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxProxyBody))
}

func forwardHeaders(r *http.Request) http.Header {
	out := http.Header{}
	for _, name := range forwardedRequestHeaders {
		for _, v := range r.Header.Values(name) {
			out.Add(name, v)
		}
	}
	return out
}

func writeUpstream(w http.ResponseWriter, resp *clients.Response) {
	for _, name := range forwardedResponseHeaders {
		for _, v := range resp.Header.Values(name) {
			w.Header().Add(name, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
