package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// Enquiry is an outbound offer from a party to one supplier for one category.
// At most one active enquiry exists per (party, category); superseded
// enquiries keep their rows with Active=false.
type Enquiry struct {
	ID            uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartyID       uuid.UUID                  `gorm:"column:party_id;type:uuid;not null;index:enquiries_party_id_idx"`
	SupplierID    uuid.UUID                  `gorm:"column:supplier_id;type:uuid;not null;index:enquiries_supplier_id_idx"`
	Category      enums.SupplierCategory     `gorm:"column:category;type:supplier_category;not null"`
	Status        enums.EnquiryStatus        `gorm:"column:status;type:enquiry_status;not null;default:'pending'"`
	PaymentStatus enums.EnquiryPaymentStatus `gorm:"column:payment_status;type:enquiry_payment_status;not null;default:'unpaid'"`
	AutoAccepted  bool                       `gorm:"column:auto_accepted;not null;default:false"`
	QuotedPrice   *decimal.Decimal           `gorm:"column:quoted_price;type:numeric(10,2)"`
	FinalPrice    *decimal.Decimal           `gorm:"column:final_price;type:numeric(10,2)"`
	Message       *string                    `gorm:"column:message"`
	Active        bool                       `gorm:"column:active;not null;default:true"`
	RespondedAt   *time.Time                 `gorm:"column:responded_at;type:timestamptz"`
	Addons        []EnquiryAddon             `gorm:"foreignKey:EnquiryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

// EnquiryAddon is a supplementary paid item attached to an enquiry, linked
// either to a specific supplier or to a category key. Add-ons become
// immutable once the parent enquiry is paid.
type EnquiryAddon struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EnquiryID  uuid.UUID       `gorm:"column:enquiry_id;type:uuid;not null;index:enquiry_addons_enquiry_id_idx"`
	SupplierID *uuid.UUID      `gorm:"column:supplier_id;type:uuid"`
	Category   *string         `gorm:"column:category"`
	Name       string          `gorm:"column:name;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
