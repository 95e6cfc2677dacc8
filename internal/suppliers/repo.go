package suppliers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	"github.com/partysnap/partysnap-backend/pkg/pagination"
)

// Repository handles supplier persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to supplier operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listSuppliersParams struct {
	Category enums.SupplierCategory
	Postcode string
	Statuses []enums.VerificationStatus
	Cursor   *pagination.Cursor
	Limit    int
}

// Create persists a new supplier listing.
func (r *Repository) Create(ctx context.Context, dto CreateSupplierDTO) (*models.Supplier, error) {
	supplier := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// FindByID loads a supplier by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindByUserID returns the listing owned by the provided account, if any.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns suppliers matching the filters, newest first, with a cursor
// for the next page when more rows remain.
func (r *Repository) List(ctx context.Context, params listSuppliersParams) ([]models.Supplier, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Supplier{})
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Postcode != "" {
		query = query.Where("postcode LIKE ?", params.Postcode+"%")
	}
	if len(params.Statuses) > 0 {
		query = query.Where("verification_status IN ?", params.Statuses)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var suppliers []models.Supplier
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&suppliers).Error; err != nil {
		return nil, nil, err
	}

	if len(suppliers) > normalized {
		next := suppliers[normalized]
		suppliers = suppliers[:normalized]
		return suppliers, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return suppliers, nil, nil
}

// UpdateVerification moves a supplier to a new verification state. The
// expected current statuses guard against concurrent reviews.
func (r *Repository) UpdateVerification(ctx context.Context, id uuid.UUID, from []enums.VerificationStatus, to enums.VerificationStatus, note *string, at *time.Time) (bool, error) {
	updates := map[string]any{
		"verification_status": to,
		"verification_note":   note,
		"verified_at":         at,
	}
	result := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ? AND verification_status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Update saves the provided supplier.
func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) error {
	if supplier == nil {
		return fmt.Errorf("supplier is required")
	}
	return r.db.WithContext(ctx).Save(supplier).Error
}

// FindApprovedAlternative picks the newest approved supplier in a category,
// excluding the one being replaced. Used to backfill declined enquiries.
func (r *Repository) FindApprovedAlternative(ctx context.Context, category enums.SupplierCategory, excludeID uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Where("category = ? AND verification_status = ? AND id <> ?", category, enums.VerificationStatusApproved, excludeID).
		Order("created_at DESC").
		First(&supplier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}
