package einvites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
)

// Repository handles e-invite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository over the given gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new e-invite.
func (r *Repository) Create(ctx context.Context, einvite *models.EInvite) error {
	return r.db.WithContext(ctx).Create(einvite).Error
}

// FindByParty loads a party's e-invite. Returns nil when none exists.
func (r *Repository) FindByParty(ctx context.Context, partyID uuid.UUID) (*models.EInvite, error) {
	var einvite models.EInvite
	err := r.db.WithContext(ctx).Where("party_id = ?", partyID).First(&einvite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &einvite, nil
}

// FindBySlug resolves the public share link. Returns nil when unknown.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.EInvite, error) {
	var einvite models.EInvite
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&einvite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &einvite, nil
}

// Update applies the given column map to an e-invite.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.EInvite{}).
		Where("id = ?", id).
		Updates(updates).Error
}
