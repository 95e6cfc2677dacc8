package planner

import (
	"testing"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

func slot(category enums.SupplierCategory) models.SupplierSlot {
	return models.SupplierSlot{
		ID:         uuid.New(),
		PartyID:    uuid.New(),
		Category:   category,
		SupplierID: uuid.New(),
	}
}

func enquiry(category enums.SupplierCategory, status enums.EnquiryStatus, autoAccepted bool) models.Enquiry {
	return models.Enquiry{
		ID:           uuid.New(),
		PartyID:      uuid.New(),
		SupplierID:   uuid.New(),
		Category:     category,
		Status:       status,
		AutoAccepted: autoAccepted,
		Active:       true,
	}
}

func TestComputeReadinessPartitionIsTotal(t *testing.T) {
	slots := []models.SupplierSlot{
		slot(enums.CategoryVenue),
		slot(enums.CategoryEntertainment),
		slot(enums.CategoryCakes),
		slot(enums.CategoryBalloons),
		slot(enums.CategoryFacePainting),
		slot(enums.CategoryEInvites),
	}
	enquiries := []models.Enquiry{
		enquiry(enums.CategoryVenue, enums.EnquiryStatusAccepted, false),
		enquiry(enums.CategoryEntertainment, enums.EnquiryStatusAccepted, true),
		enquiry(enums.CategoryCakes, enums.EnquiryStatusPending, false),
		enquiry(enums.CategoryBalloons, enums.EnquiryStatusDeclined, false),
	}

	got := ComputeReadiness(slots, enquiries)

	if got.TotalSuppliers != 5 {
		t.Fatalf("expected einvites excluded from total, got %d", got.TotalSuppliers)
	}
	sum := got.ConfirmedCount + got.PendingCount + got.DeclinedCount + got.UnenquiredCount
	if sum != got.TotalSuppliers {
		t.Fatalf("partition not total: %d counted of %d", sum, got.TotalSuppliers)
	}
	if got.ConfirmedCount != 1 || got.PendingCount != 2 || got.DeclinedCount != 1 || got.UnenquiredCount != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}
}

func TestComputeReadinessEmptyPlan(t *testing.T) {
	got := ComputeReadiness(nil, nil)

	if got.ProgressPercentage != 0 {
		t.Fatalf("expected 0%% for empty plan, got %d", got.ProgressPercentage)
	}
	if got.AllConfirmed {
		t.Fatalf("empty plan must not be all confirmed")
	}
}

func TestComputeReadinessMixedScenario(t *testing.T) {
	slots := []models.SupplierSlot{
		slot(enums.CategoryVenue),
		slot(enums.CategoryEntertainment),
		slot(enums.CategoryCakes),
	}
	enquiries := []models.Enquiry{
		enquiry(enums.CategoryVenue, enums.EnquiryStatusAccepted, false),
		enquiry(enums.CategoryEntertainment, enums.EnquiryStatusPending, false),
	}

	got := ComputeReadiness(slots, enquiries)

	if got.ConfirmedCount != 1 || got.PendingCount != 1 || got.DeclinedCount != 0 || got.UnenquiredCount != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if got.ProgressPercentage != 33 {
		t.Fatalf("expected 33%%, got %d", got.ProgressPercentage)
	}
	if got.AllConfirmed {
		t.Fatalf("plan with pending categories must not be all confirmed")
	}
}

func TestComputeReadinessAllConfirmed(t *testing.T) {
	slots := []models.SupplierSlot{
		slot(enums.CategoryVenue),
		slot(enums.CategoryEntertainment),
		slot(enums.CategoryCakes),
	}
	enquiries := []models.Enquiry{
		enquiry(enums.CategoryVenue, enums.EnquiryStatusAccepted, false),
		enquiry(enums.CategoryEntertainment, enums.EnquiryStatusAccepted, false),
		enquiry(enums.CategoryCakes, enums.EnquiryStatusAccepted, false),
	}

	got := ComputeReadiness(slots, enquiries)

	if !got.AllConfirmed {
		t.Fatalf("expected all confirmed, got %+v", got)
	}
	if got.ProgressPercentage != 100 {
		t.Fatalf("expected 100%%, got %d", got.ProgressPercentage)
	}
}

func TestComputeReadinessAutoAcceptedIsNotConfirmed(t *testing.T) {
	slots := []models.SupplierSlot{slot(enums.CategoryVenue)}
	enquiries := []models.Enquiry{enquiry(enums.CategoryVenue, enums.EnquiryStatusAccepted, true)}

	got := ComputeReadiness(slots, enquiries)

	if got.ConfirmedCount != 0 || got.PendingCount != 1 {
		t.Fatalf("auto-accepted enquiry should count as pending, got %+v", got)
	}
	if got.Categories[0].Status != enums.CategoryStatusAwaitingConfirmation {
		t.Fatalf("unexpected category status %s", got.Categories[0].Status)
	}
}

func TestComputeReadinessPercentageBounds(t *testing.T) {
	statuses := []enums.EnquiryStatus{enums.EnquiryStatusAccepted, enums.EnquiryStatusPending, enums.EnquiryStatusDeclined}
	categories := []enums.SupplierCategory{
		enums.CategoryVenue, enums.CategoryEntertainment, enums.CategoryCakes,
		enums.CategoryActivities, enums.CategoryPartyBags, enums.CategoryDecorations,
		enums.CategoryPhotography,
	}

	for confirmed := 0; confirmed <= len(categories); confirmed++ {
		slots := make([]models.SupplierSlot, 0, len(categories))
		enquiries := make([]models.Enquiry, 0, len(categories))
		for i, category := range categories {
			slots = append(slots, slot(category))
			status := statuses[i%len(statuses)]
			if i < confirmed {
				status = enums.EnquiryStatusAccepted
			}
			enquiries = append(enquiries, enquiry(category, status, false))
		}

		got := ComputeReadiness(slots, enquiries)
		if got.ProgressPercentage < 0 || got.ProgressPercentage > 100 {
			t.Fatalf("percentage out of range: %d", got.ProgressPercentage)
		}
	}
}

func TestIndexEnquiriesSkipsInactiveAndKeepsFirst(t *testing.T) {
	first := enquiry(enums.CategoryVenue, enums.EnquiryStatusDeclined, false)
	first.Active = false
	second := enquiry(enums.CategoryVenue, enums.EnquiryStatusPending, false)
	third := enquiry(enums.CategoryVenue, enums.EnquiryStatusAccepted, false)

	index := IndexEnquiries([]models.Enquiry{first, second, third})

	got := index.Lookup(enums.CategoryVenue)
	if got == nil || got.ID != second.ID {
		t.Fatalf("expected first active enquiry, got %+v", got)
	}
	if index.Lookup(enums.CategoryCakes) != nil {
		t.Fatalf("expected nil for unenquired category")
	}
}

func TestResolveCategoryStatusNil(t *testing.T) {
	if got := ResolveCategoryStatus(nil); got != enums.CategoryStatusNotEnquired {
		t.Fatalf("unexpected status %s", got)
	}
}
