package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GiftRegistry is the optional wishlist attached to a party. At most one per
// party.
type GiftRegistry struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartyID   uuid.UUID      `gorm:"column:party_id;type:uuid;not null;uniqueIndex:gift_registries_party_id_key"`
	Title     string         `gorm:"column:title;not null"`
	Items     []RegistryItem `gorm:"foreignKey:RegistryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// RegistryItem is one wished-for gift on a registry.
type RegistryItem struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RegistryID uuid.UUID        `gorm:"column:registry_id;type:uuid;not null;index:registry_items_registry_id_idx"`
	Name       string           `gorm:"column:name;not null"`
	URL        *string          `gorm:"column:url"`
	Price      *decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	Claimed    bool             `gorm:"column:claimed;not null;default:false"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}
