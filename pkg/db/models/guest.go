package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// Guest is one guest-list entry for a party, tracking both whether an invite
// went out and the reply.
type Guest struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartyID      uuid.UUID               `gorm:"column:party_id;type:uuid;not null;index:guests_party_id_idx"`
	Name         string                  `gorm:"column:name;not null"`
	Email        *string                 `gorm:"column:email"`
	Child        bool                    `gorm:"column:child;not null;default:true"`
	InviteStatus enums.GuestInviteStatus `gorm:"column:invite_status;type:guest_invite_status;not null;default:'pending'"`
	RSVPStatus   enums.RSVPStatus        `gorm:"column:rsvp_status;type:rsvp_status;not null;default:'pending'"`
	RespondedAt  *time.Time              `gorm:"column:responded_at;type:timestamptz"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
