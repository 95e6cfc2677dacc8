package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNullableDecimalUnmarshal(t *testing.T) {
	type payload struct {
		Budget NullableDecimal `json:"budget"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"budget": 500}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.Budget.Valid || got.Budget.Value == nil || !got.Budget.Value.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected 500, got %+v", got.Budget)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"budget": null}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.Budget.Valid || got.Budget.Value != nil {
		t.Fatalf("expected explicit null, got %+v", got.Budget)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatalf("unmarshal missing: %v", err)
	}
	if got.Budget.Valid {
		t.Fatalf("expected invalid flag for missing field, got %+v", got.Budget)
	}
}
