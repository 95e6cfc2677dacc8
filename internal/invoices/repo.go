package invoices

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
)

// Repository handles invoice persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository over the given gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists an invoice with its line items.
func (r *Repository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// FindByID loads an invoice with its line items. Returns nil when missing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("id = ?", id).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByEnquiry loads the invoice raised for an enquiry, if any.
func (r *Repository) FindByEnquiry(ctx context.Context, enquiryID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("enquiry_id = ?", enquiryID).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListByParty returns a party's invoices, newest first.
func (r *Repository) ListByParty(ctx context.Context, partyID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("party_id = ?", partyID).
		Order("issued_at DESC, id DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountIssuedInYear feeds sequential invoice numbering. The unique index on
// number catches the race between two settlements counting at once.
func (r *Repository) CountIssuedInYear(ctx context.Context, year int) (int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("issued_at >= ? AND issued_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
