package types

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// NullableDecimal tracks whether a decimal field was explicitly present in
// JSON. The budget endpoint uses it so an explicit null clears the ceiling
// while an absent field is rejected as an incomplete payload.
type NullableDecimal struct {
	Valid bool
	Value *decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed decimal.Decimal
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}
