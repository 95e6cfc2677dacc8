package registry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
)

// Repository handles gift registry persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository over the given gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new registry.
func (r *Repository) Create(ctx context.Context, registry *models.GiftRegistry) error {
	return r.db.WithContext(ctx).Create(registry).Error
}

// FindByParty loads a party's registry with its items. Returns nil when the
// party has none.
func (r *Repository) FindByParty(ctx context.Context, partyID uuid.UUID) (*models.GiftRegistry, error) {
	var registry models.GiftRegistry
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("party_id = ?", partyID).
		First(&registry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &registry, nil
}

// UpdateTitle renames a registry.
func (r *Repository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return r.db.WithContext(ctx).
		Model(&models.GiftRegistry{}).
		Where("id = ?", id).
		Update("title", title).Error
}

// CreateItem adds an item to a registry.
func (r *Repository) CreateItem(ctx context.Context, item *models.RegistryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetItemClaimed flips an item's claimed flag. Returns false when the item
// is not on the registry.
func (r *Repository) SetItemClaimed(ctx context.Context, registryID, itemID uuid.UUID, claimed bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.RegistryItem{}).
		Where("id = ? AND registry_id = ?", itemID, registryID).
		Update("claimed", claimed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteItem removes an item. Returns false when it did not exist.
func (r *Repository) DeleteItem(ctx context.Context, registryID, itemID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND registry_id = ?", itemID, registryID).
		Delete(&models.RegistryItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
