package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// Supplier is a marketplace listing: a venue, entertainer, cake maker and so
// on. InstantBook suppliers produce auto-accepted enquiries that still need a
// human confirmation before the category counts as confirmed.
type Supplier struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             *uuid.UUID               `gorm:"column:user_id;type:uuid;index:suppliers_user_id_idx"`
	Name               string                   `gorm:"column:name;not null"`
	Category           enums.SupplierCategory   `gorm:"column:category;type:supplier_category;not null;index:suppliers_category_idx"`
	Description        *string                  `gorm:"column:description"`
	Email              string                   `gorm:"column:email;not null"`
	Postcode           string                   `gorm:"column:postcode;not null"`
	InstantBook        bool                     `gorm:"column:instant_book;not null;default:false"`
	VerificationStatus enums.VerificationStatus `gorm:"column:verification_status;type:verification_status;not null;default:'unverified'"`
	VerificationNote   *string                  `gorm:"column:verification_note"`
	VerifiedAt         *time.Time               `gorm:"column:verified_at;type:timestamptz"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
