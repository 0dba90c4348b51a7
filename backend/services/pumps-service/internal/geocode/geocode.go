// Package geocode resolves map clicks to a street address so the admin pump form can be
// prefilled.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// ErrNoResult is returned when the provider knows no address for the point.
var ErrNoResult = errors.New("geocode: no address for location")

// Place is a reverse geocoding result.
type Place struct {
	Address  string `json:"address"`
	District string `json:"district,omitempty"`
}

// Client queries a Nominatim compatible reverse endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient returns a client; Nominatim requires an identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		StateDistrict string `json:"state_district"`
		County        string `json:"county"`
		City          string `json:"city"`
	} `json:"address"`
}

// Reverse looks up the address at lat/lng.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Place{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocode: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("geocode: nominatim status %d", resp.StatusCode)
	}

	var out reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Place{}, fmt.Errorf("geocode: decode: %w", err)
	}
	if out.Error != "" || strings.TrimSpace(out.DisplayName) == "" {
		return Place{}, ErrNoResult
	}

	return Place{Address: out.DisplayName, District: district(out)}, nil
}

// district strips the " District" suffix Nominatim uses for Indian state districts.
func district(r reverseResponse) string {
	for _, candidate := range []string{r.Address.StateDistrict, r.Address.County, r.Address.City} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return strings.TrimSuffix(candidate, " District")
		}
	}
	return ""
}
