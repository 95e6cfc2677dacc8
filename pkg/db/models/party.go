package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// Party is one booking event. Parties are never hard-deleted; Status carries
// the soft lifecycle instead.
type Party struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:parties_user_id_idx"`
	ChildName  string            `gorm:"column:child_name;not null"`
	Theme      string            `gorm:"column:theme"`
	Date       time.Time         `gorm:"column:date;not null"`
	GuestCount int               `gorm:"column:guest_count;not null;default:0"`
	Postcode   string            `gorm:"column:postcode;not null"`
	Location   *string           `gorm:"column:location"`
	Budget     *decimal.Decimal  `gorm:"column:budget;type:numeric(10,2)"`
	Status     enums.PartyStatus `gorm:"column:status;type:party_status;not null;default:'planning'"`
	Slots      []SupplierSlot    `gorm:"foreignKey:PartyID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// SupplierSlot maps one category on a party plan to the chosen supplier.
// At most one supplier per category per party.
type SupplierSlot struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartyID    uuid.UUID              `gorm:"column:party_id;type:uuid;not null;uniqueIndex:supplier_slots_party_category_key"`
	Category   enums.SupplierCategory `gorm:"column:category;type:supplier_category;not null;uniqueIndex:supplier_slots_party_category_key"`
	SupplierID uuid.UUID              `gorm:"column:supplier_id;type:uuid;not null"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
}
