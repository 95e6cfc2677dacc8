package planner

import (
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// EnquiryIndex maps each category to its active enquiry so a full plan can be
// resolved without rescanning the enquiry list per category.
type EnquiryIndex map[enums.SupplierCategory]*models.Enquiry

// IndexEnquiries builds the category lookup. Inactive enquiries are skipped
// and the first active enquiry per category wins, matching the storage
// invariant of at most one active enquiry per (party, category).
func IndexEnquiries(enquiries []models.Enquiry) EnquiryIndex {
	index := make(EnquiryIndex, len(enquiries))
	for i := range enquiries {
		e := &enquiries[i]
		if !e.Active {
			continue
		}
		if _, ok := index[e.Category]; ok {
			continue
		}
		index[e.Category] = e
	}
	return index
}

// Lookup returns the active enquiry for a category, or nil when none exists.
func (idx EnquiryIndex) Lookup(category enums.SupplierCategory) *models.Enquiry {
	if idx == nil {
		return nil
	}
	return idx[category]
}

// ResolveCategoryStatus reduces one enquiry (or its absence) to the derived
// category state. An auto-accepted enquiry is awaiting a human confirmation
// and is deliberately kept distinct from confirmed.
func ResolveCategoryStatus(enquiry *models.Enquiry) enums.CategoryStatus {
	if enquiry == nil {
		return enums.CategoryStatusNotEnquired
	}
	switch enquiry.Status {
	case enums.EnquiryStatusAccepted:
		if enquiry.AutoAccepted {
			return enums.CategoryStatusAwaitingConfirmation
		}
		return enums.CategoryStatusConfirmed
	case enums.EnquiryStatusDeclined:
		return enums.CategoryStatusDeclined
	default:
		return enums.CategoryStatusPending
	}
}
