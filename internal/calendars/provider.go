package calendars

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

	"github.com/partysnap/partysnap-backend/pkg/config"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
)

var errSyncBaseURLRequired = errors.New("calendar sync base url is required")

// RenewalClient renews push channels through the calendar sync gateway, which
// holds the per-supplier OAuth grants for Google and Outlook.
type RenewalClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	channelTTL time.Duration
}

// NewRenewalClient validates the calendar configuration and builds a client.
func NewRenewalClient(cfg config.CalendarConfig) (*RenewalClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.SyncBaseURL), "/")
	if baseURL == "" {
		return nil, errSyncBaseURLRequired
	}
	ttl := cfg.ChannelTTL
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &RenewalClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.SyncToken),
		channelTTL: ttl,
	}, nil
}

type renewRequest struct {
	Provider    string `json:"provider"`
	ChannelID   string `json:"channel_id"`
	ResourceID  string `json:"resource_id"`
	CallbackURL string `json:"callback_url"`
	TTLSeconds  int64  `json:"ttl_seconds"`
}

type renewResponse struct {
	ChannelID  string    `json:"channel_id"`
	ResourceID string    `json:"resource_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Renew asks the gateway for a replacement registration. Push channels cannot
// be extended in place, so the returned channel carries a new identity.
func (c *RenewalClient) Renew(ctx context.Context, webhook *models.CalendarWebhook) (*Channel, error) {
	if webhook == nil {
		return nil, fmt.Errorf("webhook is required")
	}

	body, err := json.Marshal(renewRequest{
		Provider:    webhook.Provider,
		ChannelID:   webhook.ChannelID,
		ResourceID:  webhook.ResourceID,
		CallbackURL: webhook.CallbackURL,
		TTLSeconds:  int64(c.channelTTL / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("encode renewal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/channels/renew", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("renew channel: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("calendar sync returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var renewed renewResponse
	if err := json.NewDecoder(resp.Body).Decode(&renewed); err != nil {
		return nil, fmt.Errorf("decode renewal: %w", err)
	}
	if renewed.ChannelID == "" {
		return nil, fmt.Errorf("calendar sync returned empty channel id")
	}
	return &Channel{
		ChannelID:  renewed.ChannelID,
		ResourceID: renewed.ResourceID,
		ExpiresAt:  renewed.ExpiresAt,
	}, nil
}
