package enquiries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// AddonDTO is a supplementary paid item on an enquiry.
type AddonDTO struct {
	ID         uuid.UUID       `json:"id"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	Category   *string         `json:"category,omitempty"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// EnquiryDTO is the shared transport shape for enquiries.
type EnquiryDTO struct {
	ID            uuid.UUID                  `json:"id"`
	PartyID       uuid.UUID                  `json:"party_id"`
	SupplierID    uuid.UUID                  `json:"supplier_id"`
	Category      enums.SupplierCategory     `json:"category"`
	Label         string                     `json:"label"`
	Status        enums.EnquiryStatus        `json:"status"`
	PaymentStatus enums.EnquiryPaymentStatus `json:"payment_status"`
	AutoAccepted  bool                       `json:"auto_accepted"`
	QuotedPrice   *decimal.Decimal           `json:"quoted_price,omitempty"`
	FinalPrice    *decimal.Decimal           `json:"final_price,omitempty"`
	Message       *string                    `json:"message,omitempty"`
	Active        bool                       `json:"active"`
	RespondedAt   *time.Time                 `json:"responded_at,omitempty"`
	Addons        []AddonDTO                 `json:"addons"`
	CreatedAt     time.Time                  `json:"created_at"`
}

// RespondDTO carries a supplier's answer to an enquiry.
type RespondDTO struct {
	Accept      bool             `json:"accept"`
	QuotedPrice *decimal.Decimal `json:"quoted_price"`
	Message     *string          `json:"message"`
}

// CreateAddonDTO attaches a paid extra to an enquiry. Category, when set,
// attributes the cost to that category instead of the enquiry's own.
type CreateAddonDTO struct {
	Name       string          `json:"name" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	Category   *string         `json:"category"`
	SupplierID *uuid.UUID      `json:"supplier_id"`
}

func addonFromModel(addon models.EnquiryAddon) AddonDTO {
	return AddonDTO{
		ID:         addon.ID,
		SupplierID: addon.SupplierID,
		Category:   addon.Category,
		Name:       addon.Name,
		Price:      addon.Price,
		CreatedAt:  addon.CreatedAt,
	}
}

// FromModel maps a stored enquiry onto the transport shape.
func FromModel(enquiry *models.Enquiry) *EnquiryDTO {
	addons := make([]AddonDTO, 0, len(enquiry.Addons))
	for _, addon := range enquiry.Addons {
		addons = append(addons, addonFromModel(addon))
	}
	return &EnquiryDTO{
		ID:            enquiry.ID,
		PartyID:       enquiry.PartyID,
		SupplierID:    enquiry.SupplierID,
		Category:      enquiry.Category,
		Label:         enquiry.Category.Label(),
		Status:        enquiry.Status,
		PaymentStatus: enquiry.PaymentStatus,
		AutoAccepted:  enquiry.AutoAccepted,
		QuotedPrice:   enquiry.QuotedPrice,
		FinalPrice:    enquiry.FinalPrice,
		Message:       enquiry.Message,
		Active:        enquiry.Active,
		RespondedAt:   enquiry.RespondedAt,
		Addons:        addons,
		CreatedAt:     enquiry.CreatedAt,
	}
}
