package planner

import (
	"testing"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

func TestQualifyingCategoriesSkipsEInvitesAndEmptySlots(t *testing.T) {
	empty := slot(enums.CategoryCakes)
	empty.SupplierID = uuid.Nil

	got := QualifyingCategories([]models.SupplierSlot{
		slot(enums.CategoryVenue),
		slot(enums.CategoryEInvites),
		empty,
		slot(enums.CategoryVenue),
		slot(enums.CategoryBalloons),
	})

	want := []enums.SupplierCategory{enums.CategoryVenue, enums.CategoryBalloons}
	if len(got) != len(want) {
		t.Fatalf("unexpected categories %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected categories %v", got)
		}
	}
}

func TestVenueSlot(t *testing.T) {
	if VenueSlot(nil) != nil {
		t.Fatalf("expected nil for empty slots")
	}

	slots := []models.SupplierSlot{slot(enums.CategoryCakes), slot(enums.CategoryVenue)}
	found := VenueSlot(slots)
	if found == nil || found.Category != enums.CategoryVenue {
		t.Fatalf("unexpected venue slot %+v", found)
	}
}
