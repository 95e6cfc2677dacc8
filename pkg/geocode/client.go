package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/visibility"
)

const (
	defaultBaseURL             = "https://api.postcodes.io"
	requestBodyReadLimit int64 = 1024
)

// Client wraps the postcodes.io lookup API used to turn UK postcodes into
// display locations for party plans and supplier listings.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured postcodes.io base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the postcode lookup client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// Place is the normalized data returned for a postcode lookup.
type Place struct {
	Postcode  string
	District  string
	Region    string
	Country   string
	Latitude  float64
	Longitude float64
}

// DisplayName picks the most specific human-readable locality available.
func (p *Place) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.District != "" {
		return p.District
	}
	if p.Region != "" {
		return p.Region
	}
	return p.Country
}

// Lookup resolves a UK postcode to its locality and coordinates. Unknown
// postcodes surface as not-found rather than a dependency failure.
func (c *Client) Lookup(ctx context.Context, postcode string) (*Place, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "geocode client not configured")
	}
	normalized := visibility.NormalizePostcode(postcode)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postcode is required")
	}

	endpoint := fmt.Sprintf("%s/postcodes/%s", strings.TrimRight(c.baseURL, "/"), url.PathEscape(normalized))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build postcode lookup request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute postcode lookup request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("postcode %s not found", normalized))
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "postcode lookup failed")
	}

	var apiResp struct {
		Result struct {
			Postcode      string  `json:"postcode"`
			AdminDistrict string  `json:"admin_district"`
			Region        string  `json:"region"`
			Country       string  `json:"country"`
			Latitude      float64 `json:"latitude"`
			Longitude     float64 `json:"longitude"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode postcode lookup response")
	}

	return &Place{
		Postcode:  apiResp.Result.Postcode,
		District:  apiResp.Result.AdminDistrict,
		Region:    apiResp.Result.Region,
		Country:   apiResp.Result.Country,
		Latitude:  apiResp.Result.Latitude,
		Longitude: apiResp.Result.Longitude,
	}, nil
}
