package calendars

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
)

// Channel is the provider-side identity of a renewed webhook registration.
type Channel struct {
	ChannelID  string
	ResourceID string
	ExpiresAt  time.Time
}

// Repository persists supplier calendar webhook channels.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &Repository{db: db}, nil
}

// Register stores a freshly created webhook channel for a supplier.
func (r *Repository) Register(ctx context.Context, webhook *models.CalendarWebhook) error {
	return r.db.WithContext(ctx).Create(webhook).Error
}

// ListExpiring returns channels whose expiry falls before the given instant,
// oldest expiry first.
func (r *Repository) ListExpiring(ctx context.Context, before time.Time, limit int) ([]models.CalendarWebhook, error) {
	var webhooks []models.CalendarWebhook
	err := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Order("expires_at ASC").
		Limit(limit).
		Find(&webhooks).Error
	if err != nil {
		return nil, err
	}
	return webhooks, nil
}

// MarkRenewed records the provider's replacement channel identity and pushes
// the expiry forward.
func (r *Repository) MarkRenewed(ctx context.Context, id uuid.UUID, channel Channel, renewedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.CalendarWebhook{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"channel_id":      channel.ChannelID,
			"resource_id":     channel.ResourceID,
			"expires_at":      channel.ExpiresAt,
			"last_renewed_at": renewedAt,
		}).Error
}

// Delete removes a channel that the provider reports as gone.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.CalendarWebhook{}).Error
}
