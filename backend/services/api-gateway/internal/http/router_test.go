package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fueltracker/backend/libs/auth"
	"fueltracker/backend/services/api-gateway/internal/clients"
	"fueltracker/backend/services/api-gateway/internal/http/handlers"
	"fueltracker/backend/services/api-gateway/internal/http/middleware"
)

type upstreamCall struct {
	method, uri, cookie, authorization, body string
}

type recordingUpstream struct {
	mu    sync.Mutex
	calls []upstreamCall
}

func (u *recordingUpstream) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	u.mu.Lock()
	u.calls = append(u.calls, upstreamCall{r.Method, r.URL.RequestURI(), r.Header.Get("Cookie"), r.Header.Get("Authorization"), string(body)})
	u.mu.Unlock()

	switch {
	case r.URL.Path == "/api/auth/login":
		w.Header().Set("Set-Cookie", "fueltracker.sid=s1; Path=/; HttpOnly")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u1"},"token":"t"}`))
	case strings.HasSuffix(r.URL.Path, "export.pdf"):
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="my-pumps.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.3"))
	case r.Method == http.MethodPost:
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"pump":{}}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true}`))
	}
}

func (u *recordingUpstream) last(t *testing.T) upstreamCall {
	t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.calls) == 0 {
		t.Fatalf("expected an upstream call")
	}
	return u.calls[len(u.calls)-1]
}

func (u *recordingUpstream) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

var upgrader = websocket.Upgrader{}

type gateway struct {
	handler http.Handler
	auth    *recordingUpstream
	pumps   *recordingUpstream
	tokens  *auth.TokenService
}

func newGateway(t *testing.T) gateway {
	t.Helper()
	authUp, pumpsUp := &recordingUpstream{}, &recordingUpstream{}
	authSrv := httptest.NewServer(http.HandlerFunc(authUp.handler))
	t.Cleanup(authSrv.Close)

	pumpsMux := http.NewServeMux()
	pumpsMux.HandleFunc("/api/map/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"layer","query":"`+r.URL.RawQuery+`"}`))
	})
	pumpsMux.HandleFunc("/", pumpsUp.handler)
	pumpsSrv := httptest.NewServer(pumpsMux)
	t.Cleanup(pumpsSrv.Close)

	webDir := t.TempDir()
	for name, content := range map[string]string{"index.html": "home page", "user.html": "user page", "admin.html": "admin page", "app.js": "console.log(1)"} {
		if err := os.WriteFile(filepath.Join(webDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	logger := zap.NewNop()
	httpClient := clients.NewDefaultHTTPClient(2 * time.Second)
	mapFeed, err := handlers.NewMapFeedProxy(pumpsSrv.URL, logger)
	if err != nil {
		t.Fatalf("map feed proxy: %v", err)
	}
	tokens := auth.NewTokenService("secret", time.Hour)
	router := NewRouter(RouterDeps{
		AuthHandlers:   handlers.NewAuthHandlers(clients.NewAuthClient(authSrv.URL, httpClient), logger),
		PumpsHandlers:  handlers.NewPumpsHandlers(clients.NewPumpsClient(pumpsSrv.URL, httpClient), logger),
		MapFeed:        mapFeed,
		HealthHandler:  handlers.NewHealthHandler(),
		WebDir:         webDir,
		AllowedOrigins: []string{"http://example.com"},
	}, middleware.AdminOnly(tokens))

	handler := middleware.Chain(router, middleware.RecoveryMiddleware(logger), middleware.RequestID(), middleware.LoggingMiddleware(logger))
	return gateway{handler: handler, auth: authUp, pumps: pumpsUp, tokens: tokens}
}

func (g gateway) serve(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginProxiesCookies(t *testing.T) {
	g := newGateway(t)

	rec := g.serve(http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"pw"}`, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Set-Cookie"), "fueltracker.sid=s1") {
		t.Fatalf("expected session cookie passed through, got %d %v", rec.Code, rec.Header())
	}
	if call := g.auth.last(t); call.body != `{"email":"a@b.c","password":"pw"}` {
		t.Fatalf("unexpected upstream body %q", call.body)
	}

	g.serve(http.MethodGet, "/api/auth/me", "", map[string]string{"Cookie": "fueltracker.sid=s1"})
	if call := g.auth.last(t); call.method != http.MethodGet || call.uri != "/api/auth/me" || call.cookie != "fueltracker.sid=s1" {
		t.Fatalf("unexpected me call %+v", call)
	}
}

func TestPublicPumpRoutesForwardQuery(t *testing.T) {
	g := newGateway(t)

	rec := g.serve(http.MethodGet, "/api/pumps?district=Thrissur&fuelType=cng", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if call := g.pumps.last(t); call.uri != "/api/pumps?district=Thrissur&fuelType=cng" {
		t.Fatalf("unexpected forwarded uri %q", call.uri)
	}

	g.serve(http.MethodGet, "/api/pumps/abc", "", nil)
	if call := g.pumps.last(t); call.uri != "/api/pumps/abc" {
		t.Fatalf("unexpected forwarded uri %q", call.uri)
	}
}

func TestAdminRoutesRejectedAtGateway(t *testing.T) {
	g := newGateway(t)
	user, _ := g.tokens.GenerateToken("user-1", false)

	if rec := g.serve(http.MethodPost, "/api/pumps", `{}`, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := g.serve(http.MethodDelete, "/api/pumps/abc", "", map[string]string{"Authorization": "Bearer " + user}); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := g.serve(http.MethodGet, "/api/geocode/reverse?lat=1&lng=2", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for geocode, got %d", rec.Code)
	}
	if g.pumps.count() != 0 {
		t.Fatalf("expected no upstream calls, got %d", g.pumps.count())
	}
}

func TestAdminRoutesForwardToken(t *testing.T) {
	g := newGateway(t)
	admin, _ := g.tokens.GenerateToken("admin-1", true)
	bearer := map[string]string{"Authorization": "Bearer " + admin}

	rec := g.serve(http.MethodPost, "/api/pumps", `{"name":"n"}`, bearer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if call := g.pumps.last(t); call.authorization != "Bearer "+admin || call.body != `{"name":"n"}` {
		t.Fatalf("unexpected forwarded call %+v", call)
	}

	rec = g.serve(http.MethodGet, "/api/pumps/mine/export.pdf", "", bearer)
	if rec.Header().Get("Content-Type") != "application/pdf" || !strings.Contains(rec.Header().Get("Content-Disposition"), "my-pumps.pdf") {
		t.Fatalf("expected export headers passed through, got %v", rec.Header())
	}
}

func TestUpstreamDownReturns502(t *testing.T) {
	logger := zap.NewNop()
	httpClient := clients.NewDefaultHTTPClient(time.Second)
	router := NewRouter(RouterDeps{
		AuthHandlers:  handlers.NewAuthHandlers(clients.NewAuthClient("http://127.0.0.1:1", httpClient), logger),
		PumpsHandlers: handlers.NewPumpsHandlers(clients.NewPumpsClient("http://127.0.0.1:1", httpClient), logger),
		HealthHandler: handlers.NewHealthHandler(),
	}, middleware.AdminOnly(auth.NewTokenService("secret", time.Hour)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pumps/districts", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestStaticPagesAndCORS(t *testing.T) {
	g := newGateway(t)

	for path, want := range map[string]string{"/": "home page", "/user": "user page", "/admin": "admin page", "/app.js": "console.log(1)"} {
		rec := g.serve(http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("%s: expected %q, got %d %q", path, want, rec.Code, rec.Body.String())
		}
	}

	rec := g.serve(http.MethodOptions, "/api/pumps", "", map[string]string{
		"Origin":                        "http://example.com",
		"Access-Control-Request-Method": http.MethodPost,
	})
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://example.com" {
		t.Fatalf("expected CORS preflight to allow origin, got %v", rec.Header())
	}
}

func TestMapFeedProxiesWebSocket(t *testing.T) {
	g := newGateway(t)
	srv := httptest.NewServer(g.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/map/ws?token=abc"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial through gateway: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"type":"layer","query":"token=abc"}` {
		t.Fatalf("unexpected frame %s", data)
	}
}
