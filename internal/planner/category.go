// Package planner derives booking-readiness, journey progress, and budget
// views for a party plan. Every function here is a pure reduction over the
// persisted entities: no I/O, no hidden state, total over empty inputs.
package planner

import (
	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// QualifyingCategories returns the filled slot categories that count toward
// readiness, in slot order. The e-invites slot is an add-on workflow and
// never qualifies, and slots without a chosen supplier are skipped.
func QualifyingCategories(slots []models.SupplierSlot) []enums.SupplierCategory {
	categories := make([]enums.SupplierCategory, 0, len(slots))
	seen := make(map[enums.SupplierCategory]struct{}, len(slots))
	for _, slot := range slots {
		if !slot.Category.IsBookable() {
			continue
		}
		if slot.SupplierID == uuid.Nil {
			continue
		}
		if _, ok := seen[slot.Category]; ok {
			continue
		}
		seen[slot.Category] = struct{}{}
		categories = append(categories, slot.Category)
	}
	return categories
}

// VenueSlot finds the venue slot on a plan, or nil when none is filled.
func VenueSlot(slots []models.SupplierSlot) *models.SupplierSlot {
	for i := range slots {
		if slots[i].Category == enums.CategoryVenue && slots[i].SupplierID != uuid.Nil {
			return &slots[i]
		}
	}
	return nil
}
