package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/internal/auth"
	"github.com/partysnap/partysnap-backend/internal/users"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

type stubRegisterService struct {
	err         error
	supplierErr error
}

func (s stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	return s.err
}

func (s stubRegisterService) RegisterSupplier(ctx context.Context, req auth.SupplierRegisterRequest) error {
	return s.supplierErr
}

type stubAuthService struct {
	resp *auth.LoginResponse
	err  error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

func (s stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

func TestAuthRegisterSuccess(t *testing.T) {
	token := "new-token"
	resp := &auth.LoginResponse{
		AccessToken:  token,
		RefreshToken: "refresh",
		User:         &users.UserDTO{ID: uuid.New(), Email: "alice@example.com"},
	}
	handler := AuthRegister(stubRegisterService{}, stubAuthService{resp: resp}, nil)

	body := []byte(`{
		"first_name": "Alice",
		"last_name": "Parent",
		"email": "alice@example.com",
		"password": "Secret123!",
		"accept_tos": true
	}`)
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	respRec := httptest.NewRecorder()

	handler.ServeHTTP(respRec, req)

	if respRec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", respRec.Code)
	}
	if got := respRec.Header().Get("X-PS-Token"); got != token {
		t.Fatalf("expected token header %s got %s", token, got)
	}

	var envelope struct {
		Data struct {
			User *users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(respRec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != "alice@example.com" {
		t.Fatalf("expected user in payload got %+v", envelope.Data.User)
	}
}

func TestAuthRegisterPropagatesError(t *testing.T) {
	handler := AuthRegister(stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "duplicate")}, stubAuthService{}, nil)

	body := []byte(`{
		"first_name": "Alice",
		"last_name": "Parent",
		"email": "alice@example.com",
		"password": "Secret123!",
		"accept_tos": true
	}`)
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	respRec := httptest.NewRecorder()

	handler.ServeHTTP(respRec, req)

	if respRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", respRec.Code)
	}
}

func TestAuthRegisterSupplierSuccess(t *testing.T) {
	resp := &auth.LoginResponse{
		AccessToken:  "supplier-token",
		RefreshToken: "refresh",
		User:         &users.UserDTO{ID: uuid.New(), Email: "magic@example.com"},
	}
	handler := AuthRegisterSupplier(stubRegisterService{}, stubAuthService{resp: resp}, nil)

	body := []byte(`{
		"first_name": "Max",
		"last_name": "Magic",
		"email": "magic@example.com",
		"password": "Secret123!",
		"business_name": "Max's Magic Shows",
		"category": "entertainment",
		"postcode": "SW1A 1AA",
		"accept_tos": true
	}`)
	req := httptest.NewRequest(http.MethodPost, "/register/supplier", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	respRec := httptest.NewRecorder()

	handler.ServeHTTP(respRec, req)

	if respRec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", respRec.Code)
	}
	if got := respRec.Header().Get("X-PS-Token"); got != "supplier-token" {
		t.Fatalf("expected supplier token header got %s", got)
	}
}

func TestAuthRegisterSupplierRejectsBadPayload(t *testing.T) {
	handler := AuthRegisterSupplier(stubRegisterService{}, stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/register/supplier", bytes.NewReader([]byte(`{"email":"x@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	respRec := httptest.NewRecorder()

	handler.ServeHTTP(respRec, req)

	if respRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", respRec.Code)
	}
}
