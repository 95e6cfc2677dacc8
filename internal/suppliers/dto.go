package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// SupplierDTO is the public directory shape of a supplier listing.
type SupplierDTO struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Category    enums.SupplierCategory `json:"category"`
	Label       string                 `json:"label"`
	Description *string                `json:"description,omitempty"`
	Postcode    string                 `json:"postcode"`
	InstantBook bool                   `json:"instant_book"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AdminSupplierDTO includes verification state for the review queue.
type AdminSupplierDTO struct {
	SupplierDTO
	Email              string                   `json:"email"`
	VerificationStatus enums.VerificationStatus `json:"verification_status"`
	VerificationNote   *string                  `json:"verification_note,omitempty"`
	VerifiedAt         *time.Time               `json:"verified_at,omitempty"`
}

// CreateSupplierDTO holds the data required to persist a new listing.
type CreateSupplierDTO struct {
	UserID      *uuid.UUID
	Name        string
	Category    enums.SupplierCategory
	Description *string
	Email       string
	Postcode    string
	InstantBook bool
}

func FromModel(s *models.Supplier) *SupplierDTO {
	if s == nil {
		return nil
	}
	return &SupplierDTO{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Label:       s.Category.Label(),
		Description: s.Description,
		Postcode:    s.Postcode,
		InstantBook: s.InstantBook,
		CreatedAt:   s.CreatedAt,
	}
}

func adminFromModel(s *models.Supplier) *AdminSupplierDTO {
	if s == nil {
		return nil
	}
	return &AdminSupplierDTO{
		SupplierDTO:        *FromModel(s),
		Email:              s.Email,
		VerificationStatus: s.VerificationStatus,
		VerificationNote:   s.VerificationNote,
		VerifiedAt:         s.VerifiedAt,
	}
}

func (c CreateSupplierDTO) ToModel() *models.Supplier {
	return &models.Supplier{
		UserID:             c.UserID,
		Name:               c.Name,
		Category:           c.Category,
		Description:        c.Description,
		Email:              c.Email,
		Postcode:           c.Postcode,
		InstantBook:        c.InstantBook,
		VerificationStatus: enums.VerificationStatusUnverified,
	}
}
