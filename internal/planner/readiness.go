package planner

import (
	"math"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// CategoryReadiness is the resolved state of one qualifying category.
type CategoryReadiness struct {
	Category enums.SupplierCategory `json:"category"`
	Label    string                 `json:"label"`
	Status   enums.CategoryStatus   `json:"status"`
}

// Readiness is the aggregate booking state of a party plan. The counts are a
// total partition of the qualifying categories: awaiting-confirmation rolls
// into PendingCount because the booking is not yet confirmed by a human.
type Readiness struct {
	TotalSuppliers     int                 `json:"totalSuppliers"`
	ConfirmedCount     int                 `json:"confirmedCount"`
	PendingCount       int                 `json:"pendingCount"`
	DeclinedCount      int                 `json:"declinedCount"`
	UnenquiredCount    int                 `json:"unenquiredCount"`
	ProgressPercentage int                 `json:"progressPercentage"`
	AllConfirmed       bool                `json:"allConfirmed"`
	Categories         []CategoryReadiness `json:"categories"`
}

// ComputeReadiness resolves every qualifying category on the plan and folds
// the results into counts, a progress percentage, and the all-confirmed gate
// used to surface the payment call-to-action.
func ComputeReadiness(slots []models.SupplierSlot, enquiries []models.Enquiry) Readiness {
	categories := QualifyingCategories(slots)
	index := IndexEnquiries(enquiries)

	result := Readiness{
		TotalSuppliers: len(categories),
		Categories:     make([]CategoryReadiness, 0, len(categories)),
	}

	for _, category := range categories {
		status := ResolveCategoryStatus(index.Lookup(category))
		result.Categories = append(result.Categories, CategoryReadiness{
			Category: category,
			Label:    category.Label(),
			Status:   status,
		})

		switch status {
		case enums.CategoryStatusConfirmed:
			result.ConfirmedCount++
		case enums.CategoryStatusDeclined:
			result.DeclinedCount++
		case enums.CategoryStatusNotEnquired:
			result.UnenquiredCount++
		default:
			result.PendingCount++
		}
	}

	if result.TotalSuppliers > 0 {
		result.ProgressPercentage = percentOf(result.ConfirmedCount, result.TotalSuppliers)
		// An empty plan is never ready, even though zero confirmed out of
		// zero is vacuously complete.
		result.AllConfirmed = result.ConfirmedCount == result.TotalSuppliers
	}

	return result
}

func percentOf(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
