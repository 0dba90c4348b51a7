package clients

import (
	"context"
	"net/http"
)

// AuthClient proxies auth-service endpoints.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns client.
func NewAuthClient(baseURL string, httpClient HTTPDoer) *AuthClient {
	return &AuthClient{base: NewBaseClient(baseURL, httpClient)}
}

// Register forwards the registration payload.
func (c *AuthClient) Register(ctx context.Context, body []byte, headers http.Header) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/api/auth/register", body, headers)
}

// Login forwards the login payload.
func (c *AuthClient) Login(ctx context.Context, body []byte, headers http.Header) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/api/auth/login", body, headers)
}

// Me resolves the session cookie carried in headers.
func (c *AuthClient) Me(ctx context.Context, headers http.Header) (*Response, error) {
	return c.base.Do(ctx, http.MethodGet, "/api/auth/me", nil, headers)
}

// Logout destroys the session carried in headers.
func (c *AuthClient) Logout(ctx context.Context, headers http.Header) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/api/auth/logout", nil, headers)
}
