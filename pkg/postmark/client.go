package postmark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/partysnap/partysnap-backend/pkg/config"
	"github.com/partysnap/partysnap-backend/pkg/logger"
)

var (
	errTokenRequired = errors.New("postmark server token is required")
	errFromRequired  = errors.New("postmark default from address is required")
)

// Email is one outbound transactional message.
type Email struct {
	To       string         `json:"To"`
	From     string         `json:"From"`
	Subject  string         `json:"Subject"`
	HTMLBody string         `json:"HtmlBody,omitempty"`
	TextBody string         `json:"TextBody,omitempty"`
	Tag      string         `json:"Tag,omitempty"`
	Metadata map[string]any `json:"Metadata,omitempty"`
}

// Sender is the outbound email surface used by services. Services depend on
// this interface so tests can swap in a recorder.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Client posts messages to the Postmark API with bounded retries on
// server-side failures.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	serverToken string
	defaultFrom string
	maxRetries  int
	logg        *logger.Logger
}

// NewClient validates the Postmark configuration and builds a client.
func NewClient(cfg config.PostmarkConfig, logg *logger.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.ServerToken)
	if token == "" {
		return nil, errTokenRequired
	}
	from := strings.TrimSpace(cfg.DefaultFrom)
	if from == "" {
		return nil, errFromRequired
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.postmarkapp.com"
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     baseURL,
		serverToken: token,
		defaultFrom: from,
		maxRetries:  maxRetries,
		logg:        logg,
	}, nil
}

// Send delivers a single email, retrying with exponential backoff when
// Postmark responds with a 5xx.
func (c *Client) Send(ctx context.Context, email Email) error {
	if strings.TrimSpace(email.To) == "" {
		return fmt.Errorf("recipient is required")
	}
	if email.From == "" {
		email.From = c.defaultFrom
	}

	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewExponential(250*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return retry.RetryableError(fmt.Errorf("postmark returned %d", resp.StatusCode))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("postmark rejected message (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return nil
}
