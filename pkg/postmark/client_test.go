package postmark

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/partysnap/partysnap-backend/pkg/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.PostmarkConfig{
		ServerToken: "token",
		DefaultFrom: "hello@partysnap.co.uk",
		BaseURL:     baseURL,
		MaxRetries:  2,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestSendSetsDefaultFromAndToken(t *testing.T) {
	var gotToken, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		var payload map[string]any
		if err := decodeJSON(r, &payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		gotFrom, _ = payload["From"].(string)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if err := client.Send(context.Background(), Email{To: "parent@example.com", Subject: "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotToken != "token" {
		t.Fatalf("expected server token header, got %q", gotToken)
	}
	if gotFrom != "hello@partysnap.co.uk" {
		t.Fatalf("expected default from, got %q", gotFrom)
	}
}

func TestSendRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if err := client.Send(context.Background(), Email{To: "parent@example.com"}); err != nil {
		t.Fatalf("Send should recover after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if err := client.Send(context.Background(), Email{To: "parent@example.com"}); err == nil {
		t.Fatal("expected error for rejected message")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
