package enquiries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	"github.com/partysnap/partysnap-backend/pkg/pagination"
)

// Repository provides data access for enquiries and their add-ons.
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

// Create persists a new enquiry.
func (r *Repository) Create(ctx context.Context, enquiry *models.Enquiry) error {
	return r.db.WithContext(ctx).Create(enquiry).Error
}

// FindByID loads an enquiry with its add-ons. Returns nil when missing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := r.db.WithContext(ctx).
		Preload("Addons").
		Where("id = ?", id).
		First(&enquiry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// ListActiveByParty returns the live enquiry per category for a party.
func (r *Repository) ListActiveByParty(ctx context.Context, partyID uuid.UUID) ([]models.Enquiry, error) {
	var enquiries []models.Enquiry
	err := r.db.WithContext(ctx).
		Preload("Addons").
		Where("party_id = ? AND active = TRUE", partyID).
		Order("created_at ASC").
		Find(&enquiries).Error
	if err != nil {
		return nil, err
	}
	return enquiries, nil
}

type listSupplierEnquiriesParams struct {
	SupplierID uuid.UUID
	Statuses   []enums.EnquiryStatus
	Cursor     *pagination.Cursor
	Limit      int
}

// ListBySupplier returns a supplier's active enquiries, newest first, with a
// cursor for the next page when more rows remain.
func (r *Repository) ListBySupplier(ctx context.Context, params listSupplierEnquiriesParams) ([]models.Enquiry, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Preload("Addons").
		Where("supplier_id = ? AND active = TRUE", params.SupplierID)
	if len(params.Statuses) > 0 {
		query = query.Where("status IN ?", params.Statuses)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var enquiries []models.Enquiry
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&enquiries).Error; err != nil {
		return nil, nil, err
	}

	if len(enquiries) > normalized {
		next := enquiries[normalized]
		enquiries = enquiries[:normalized]
		return enquiries, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return enquiries, nil, nil
}

// ListStalePending returns live pending enquiries created inside the given
// window, oldest first. The window keeps reminder sweeps from re-notifying
// suppliers already chased on a previous run.
func (r *Repository) ListStalePending(ctx context.Context, from, to time.Time, limit int) ([]models.Enquiry, error) {
	var enquiries []models.Enquiry
	err := r.db.WithContext(ctx).
		Where("active = TRUE AND status = ? AND created_at >= ? AND created_at < ?", enums.EnquiryStatusPending, from, to).
		Order("created_at ASC").
		Limit(limit).
		Find(&enquiries).Error
	if err != nil {
		return nil, err
	}
	return enquiries, nil
}

// DeactivateActive retires the live enquiry for a category, keeping the row
// for audit. Returns false when none was active.
func (r *Repository) DeactivateActive(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Where("party_id = ? AND category = ? AND active = TRUE", partyID, category).
		Update("active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Respond moves an enquiry out of its awaiting states. The expected current
// statuses guard against double responses.
func (r *Repository) Respond(ctx context.Context, id uuid.UUID, to enums.EnquiryStatus, quotedPrice *decimal.Decimal, message *string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":        to,
		"auto_accepted": false,
		"responded_at":  at,
	}
	if quotedPrice != nil {
		updates["quoted_price"] = quotedPrice
	}
	if message != nil {
		updates["message"] = message
	}
	result := r.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Where("id = ? AND active = TRUE AND (status = ? OR (status = ? AND auto_accepted = TRUE))",
			id, enums.EnquiryStatusPending, enums.EnquiryStatusAccepted).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetPaymentStatus records a payment state change from the payment provider.
func (r *Repository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status enums.EnquiryPaymentStatus, finalPrice *decimal.Decimal) error {
	updates := map[string]any{"payment_status": status}
	if finalPrice != nil {
		updates["final_price"] = finalPrice
	}
	return r.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CreateAddon attaches an add-on to an enquiry.
func (r *Repository) CreateAddon(ctx context.Context, addon *models.EnquiryAddon) error {
	return r.db.WithContext(ctx).Create(addon).Error
}

// DeleteAddon removes an add-on. Returns false when it did not exist.
func (r *Repository) DeleteAddon(ctx context.Context, enquiryID, addonID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND enquiry_id = ?", addonID, enquiryID).
		Delete(&models.EnquiryAddon{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
