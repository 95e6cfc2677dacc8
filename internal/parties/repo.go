package parties

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// Repository provides data access for parties and their supplier slots.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository over the given gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a Repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new party.
func (r *Repository) Create(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Create(party).Error
}

// FindByID loads a party with its slots. Returns nil when missing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error) {
	var party models.Party
	err := r.db.WithContext(ctx).
		Preload("Slots").
		Where("id = ?", id).
		First(&party).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &party, nil
}

// ListByUser returns the user's parties, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Party, error) {
	var parties []models.Party
	err := r.db.WithContext(ctx).
		Preload("Slots").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&parties).Error
	if err != nil {
		return nil, err
	}
	return parties, nil
}

// Update applies the given column map to a party.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Party{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetBudget writes or clears the budget ceiling. A nil budget clears it.
func (r *Repository) SetBudget(ctx context.Context, id uuid.UUID, budget *decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Party{}).
		Where("id = ?", id).
		Update("budget", budget).Error
}

// UpsertSlot fills a category slot, replacing any previous supplier choice
// for the same category.
func (r *Repository) UpsertSlot(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory, supplierID uuid.UUID) (*models.SupplierSlot, error) {
	slot := models.SupplierSlot{
		PartyID:    partyID,
		Category:   category,
		SupplierID: supplierID,
		CreatedAt:  time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "party_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"supplier_id"}),
		}).
		Create(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// ClearSlot removes the slot for a category. Returns false when no slot
// existed.
func (r *Repository) ClearSlot(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("party_id = ? AND category = ?", partyID, category).
		Delete(&models.SupplierSlot{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
