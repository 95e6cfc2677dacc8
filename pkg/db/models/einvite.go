package models

import (
	"time"

	"github.com/google/uuid"
)

// EInvite is the digital invitation for a party, shared via its slug. Its
// existence is what completes the "Design E-Invites" journey step.
type EInvite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartyID   uuid.UUID `gorm:"column:party_id;type:uuid;not null;uniqueIndex:einvites_party_id_key"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:einvites_slug_key"`
	Theme     string    `gorm:"column:theme;not null"`
	Message   *string   `gorm:"column:message"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
