package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/api/middleware"
	"github.com/partysnap/partysnap-backend/internal/parties"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

type testPartiesService struct {
	setBudgetFn func(ctx context.Context, userID, partyID uuid.UUID, budget *decimal.Decimal) (*parties.PartyDTO, error)
}

func (s testPartiesService) Create(context.Context, uuid.UUID, parties.CreatePartyDTO) (*parties.PartyDTO, error) {
	panic("unimplemented")
}

func (s testPartiesService) Get(context.Context, uuid.UUID, uuid.UUID) (*parties.PartyDTO, error) {
	panic("unimplemented")
}

func (s testPartiesService) List(context.Context, uuid.UUID) ([]parties.PartyDTO, error) {
	panic("unimplemented")
}

func (s testPartiesService) Update(context.Context, uuid.UUID, uuid.UUID, parties.UpdatePartyDTO) (*parties.PartyDTO, error) {
	panic("unimplemented")
}

func (s testPartiesService) SetBudget(ctx context.Context, userID, partyID uuid.UUID, budget *decimal.Decimal) (*parties.PartyDTO, error) {
	return s.setBudgetFn(ctx, userID, partyID, budget)
}

func (s testPartiesService) FillSlot(context.Context, uuid.UUID, uuid.UUID, enums.SupplierCategory, uuid.UUID) (*parties.PartyDTO, error) {
	panic("unimplemented")
}

func (s testPartiesService) ClearSlot(context.Context, uuid.UUID, uuid.UUID, enums.SupplierCategory) (*parties.PartyDTO, error) {
	panic("unimplemented")
}

func newBudgetRequest(t *testing.T, partyID, userID uuid.UUID, payload string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/v1/parties/"+partyID.String()+"/budget", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("partyID", partyID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestSetPartyBudgetWithValue(t *testing.T) {
	var captured *decimal.Decimal
	svc := testPartiesService{
		setBudgetFn: func(_ context.Context, _, _ uuid.UUID, budget *decimal.Decimal) (*parties.PartyDTO, error) {
			captured = budget
			return &parties.PartyDTO{Budget: budget}, nil
		},
	}

	req := newBudgetRequest(t, uuid.New(), uuid.New(), `{"budget": "250.00"}`)
	resp := httptest.NewRecorder()
	SetPartyBudget(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured == nil || !captured.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("expected budget 250.00 got %v", captured)
	}
}

func TestSetPartyBudgetExplicitNullClears(t *testing.T) {
	called := false
	svc := testPartiesService{
		setBudgetFn: func(_ context.Context, _, _ uuid.UUID, budget *decimal.Decimal) (*parties.PartyDTO, error) {
			called = true
			if budget != nil {
				t.Fatalf("expected nil budget for explicit null got %v", budget)
			}
			return &parties.PartyDTO{}, nil
		},
	}

	req := newBudgetRequest(t, uuid.New(), uuid.New(), `{"budget": null}`)
	resp := httptest.NewRecorder()
	SetPartyBudget(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service call for explicit null")
	}
}

func TestSetPartyBudgetRejectsMissingField(t *testing.T) {
	svc := testPartiesService{
		setBudgetFn: func(context.Context, uuid.UUID, uuid.UUID, *decimal.Decimal) (*parties.PartyDTO, error) {
			t.Fatal("service must not be called when the budget field is absent")
			return nil, nil
		},
	}

	req := newBudgetRequest(t, uuid.New(), uuid.New(), `{}`)
	resp := httptest.NewRecorder()
	SetPartyBudget(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code == "" {
		t.Fatal("expected an error code in the envelope")
	}
}
