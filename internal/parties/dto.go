package parties

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// SlotDTO is one filled category on a party plan.
type SlotDTO struct {
	ID         uuid.UUID              `json:"id"`
	Category   enums.SupplierCategory `json:"category"`
	Label      string                 `json:"label"`
	SupplierID uuid.UUID              `json:"supplier_id"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PartyDTO is the parent-facing view of a party plan.
type PartyDTO struct {
	ID         uuid.UUID         `json:"id"`
	ChildName  string            `json:"child_name"`
	Theme      string            `json:"theme,omitempty"`
	Date       time.Time         `json:"date"`
	GuestCount int               `json:"guest_count"`
	Postcode   string            `json:"postcode"`
	Location   *string           `json:"location,omitempty"`
	Budget     *decimal.Decimal  `json:"budget,omitempty"`
	Status     enums.PartyStatus `json:"status"`
	Slots      []SlotDTO         `json:"slots"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// CreatePartyDTO carries the initial party setup payload.
type CreatePartyDTO struct {
	ChildName  string           `json:"child_name" validate:"required"`
	Theme      string           `json:"theme"`
	Date       time.Time        `json:"date" validate:"required"`
	GuestCount int              `json:"guest_count" validate:"gte=0"`
	Postcode   string           `json:"postcode" validate:"required"`
	Budget     *decimal.Decimal `json:"budget"`
}

// UpdatePartyDTO is a partial update; nil fields are left untouched.
type UpdatePartyDTO struct {
	ChildName  *string            `json:"child_name"`
	Theme      *string            `json:"theme"`
	Date       *time.Time         `json:"date"`
	GuestCount *int               `json:"guest_count"`
	Postcode   *string            `json:"postcode"`
	Status     *enums.PartyStatus `json:"status"`
}

func slotFromModel(slot models.SupplierSlot) SlotDTO {
	return SlotDTO{
		ID:         slot.ID,
		Category:   slot.Category,
		Label:      slot.Category.Label(),
		SupplierID: slot.SupplierID,
		CreatedAt:  slot.CreatedAt,
	}
}

// FromModel maps a stored party onto the transport shape.
func FromModel(party *models.Party) *PartyDTO {
	slots := make([]SlotDTO, 0, len(party.Slots))
	for _, slot := range party.Slots {
		slots = append(slots, slotFromModel(slot))
	}
	return &PartyDTO{
		ID:         party.ID,
		ChildName:  party.ChildName,
		Theme:      party.Theme,
		Date:       party.Date,
		GuestCount: party.GuestCount,
		Postcode:   party.Postcode,
		Location:   party.Location,
		Budget:     party.Budget,
		Status:     party.Status,
		Slots:      slots,
		CreatedAt:  party.CreatedAt,
		UpdatedAt:  party.UpdatedAt,
	}
}
