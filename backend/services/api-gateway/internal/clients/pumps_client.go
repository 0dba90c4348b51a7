package clients

import (
	"context"
	"net/http"
)

// PumpsClient proxies pumps-service endpoints. Paths are forwarded unchanged.
type PumpsClient struct {
	base *BaseClient
}

// NewPumpsClient returns client.
func NewPumpsClient(baseURL string, httpClient HTTPDoer) *PumpsClient {
	return &PumpsClient{base: NewBaseClient(baseURL, httpClient)}
}

// BaseURL returns the pumps-service base URL.
func (c *PumpsClient) BaseURL() string {
	return c.base.BaseURL()
}

// Forward sends method and requestURI (path plus query) upstream.
func (c *PumpsClient) Forward(ctx context.Context, method, requestURI string, body []byte, headers http.Header) (*Response, error) {
	return c.base.Do(ctx, method, requestURI, body, headers)
}
