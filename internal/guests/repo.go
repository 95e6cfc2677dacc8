package guests

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// Repository handles guest-list persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository over the given gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new guest.
func (r *Repository) Create(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

// FindByID loads a guest. Returns nil when missing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// ListByParty returns a party's guest list in entry order.
func (r *Repository) ListByParty(ctx context.Context, partyID uuid.UUID) ([]models.Guest, error) {
	var guests []models.Guest
	err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("created_at ASC, id ASC").
		Find(&guests).Error
	if err != nil {
		return nil, err
	}
	return guests, nil
}

// Update applies the given column map to a guest.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a guest. Returns false when it did not exist.
func (r *Repository) Delete(ctx context.Context, partyID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND party_id = ?", id, partyID).
		Delete(&models.Guest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkInvitesSent flips every pending invite on the party to sent and
// returns how many were flipped.
func (r *Repository) MarkInvitesSent(ctx context.Context, partyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Guest{}).
		Where("party_id = ? AND invite_status = ?", partyID, enums.InviteStatusPending).
		Update("invite_status", enums.InviteStatusSent)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
