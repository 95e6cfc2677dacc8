package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarWebhook is a push-notification channel registered with a supplier's
// external calendar provider. Channels expire and are renewed by the cron
// worker before the expiry window closes.
type CalendarWebhook struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID    uuid.UUID  `gorm:"column:supplier_id;type:uuid;not null;index:calendar_webhooks_supplier_id_idx"`
	Provider      string     `gorm:"column:provider;not null"`
	ChannelID     string     `gorm:"column:channel_id;not null;uniqueIndex:calendar_webhooks_channel_id_key"`
	ResourceID    string     `gorm:"column:resource_id;not null"`
	CallbackURL   string     `gorm:"column:callback_url;not null"`
	ExpiresAt     time.Time  `gorm:"column:expires_at;type:timestamptz;not null;index:calendar_webhooks_expires_at_idx"`
	LastRenewedAt *time.Time `gorm:"column:last_renewed_at;type:timestamptz"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
