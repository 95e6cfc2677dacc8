package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/internal/auth"
	"github.com/partysnap/partysnap-backend/internal/suppliers"
	"github.com/partysnap/partysnap-backend/internal/users"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

func TestAuthLoginSuccess(t *testing.T) {
	resp := &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &users.UserDTO{ID: uuid.New(), Email: "alice@example.com"},
	}
	handler := AuthLogin(stubAuthService{resp: resp}, nil)

	body := []byte(`{"email":"alice@example.com","password":"Secret123!"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("X-PS-Token"); got != "access-token" {
		t.Fatalf("expected token header access-token got %s", got)
	}

	var envelope struct {
		Data struct {
			AccessToken string         `json:"access_token"`
			User        *users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("expected access token in payload got %q", envelope.Data.AccessToken)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != "alice@example.com" {
		t.Fatalf("expected user in payload got %+v", envelope.Data.User)
	}
}

func TestAuthLoginIncludesSupplierProfile(t *testing.T) {
	resp := &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &users.UserDTO{ID: uuid.New(), Email: "magic@example.com"},
		Supplier:     &suppliers.SupplierDTO{ID: uuid.New(), Name: "Max's Magic Shows"},
	}
	handler := AuthLogin(stubAuthService{resp: resp}, nil)

	body := []byte(`{"email":"magic@example.com","password":"Secret123!"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Supplier *suppliers.SupplierDTO `json:"supplier"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Supplier == nil || envelope.Data.Supplier.Name != "Max's Magic Shows" {
		t.Fatalf("expected supplier in payload got %+v", envelope.Data.Supplier)
	}
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	handler := AuthLogin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	body := []byte(`{"email":"alice@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLoginRejectsMissingFields(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"email":"alice@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminAuthLoginPropagatesError(t *testing.T) {
	handler := AdminAuthLogin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")}, nil)

	body := []byte(`{"email":"alice@example.com","password":"Secret123!"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}
