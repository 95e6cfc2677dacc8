package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is generated once an enquiry's balance settles. One invoice per
// enquiry.
type Invoice struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartyID   uuid.UUID         `gorm:"column:party_id;type:uuid;not null;index:invoices_party_id_idx"`
	EnquiryID uuid.UUID         `gorm:"column:enquiry_id;type:uuid;not null;uniqueIndex:invoices_enquiry_id_key"`
	Number    string            `gorm:"column:number;not null;uniqueIndex:invoices_number_key"`
	Total     decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	IssuedAt  time.Time         `gorm:"column:issued_at;type:timestamptz;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// InvoiceLineItem is one charge line on an invoice (the supplier's final
// price plus any add-ons).
type InvoiceLineItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index:invoice_line_items_invoice_id_idx"`
	Description string          `gorm:"column:description;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
