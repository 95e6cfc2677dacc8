package visibility

import (
	"fmt"
	"strings"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

// SupplierBookingInput drives the shared bookability checks for parent-facing
// queries and slot fills.
type SupplierBookingInput struct {
	Supplier          *models.Supplier
	RequestedCategory enums.SupplierCategory
}

// EnsureSupplierBookable enforces canonical rules so unverified or
// miscategorised suppliers never end up on a party plan.
func EnsureSupplierBookable(input SupplierBookingInput) error {
	if input.RequestedCategory == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if !input.RequestedCategory.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", input.RequestedCategory))
	}
	if input.RequestedCategory == enums.CategoryEInvites {
		return pkgerrors.New(pkgerrors.CodeValidation, "e-invites are an add-on workflow, not a bookable supplier")
	}
	if input.Supplier == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	if input.Supplier.VerificationStatus != enums.VerificationStatusApproved {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not verified")
	}
	if input.Supplier.Category != input.RequestedCategory {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("supplier offers %s, not %s", input.Supplier.Category, input.RequestedCategory))
	}
	return nil
}

// NormalizePostcode uppercases and strips interior whitespace so postcode
// comparisons behave consistently.
func NormalizePostcode(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(value), ""))
}
