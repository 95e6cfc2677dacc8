package enums

import "fmt"

// CategoryStatus is the derived booking state of one supplier category on a
// party plan, reduced from the category's enquiry (or lack of one).
type CategoryStatus string

const (
	// CategoryStatusConfirmed means a human supplier accepted the enquiry.
	CategoryStatusConfirmed CategoryStatus = "confirmed"
	// CategoryStatusAwaitingConfirmation means the acceptance was
	// system-generated and still needs a real supplier response.
	CategoryStatusAwaitingConfirmation CategoryStatus = "awaiting_confirmation"
	CategoryStatusPending              CategoryStatus = "pending"
	// CategoryStatusDeclined is treated as "being replaced": the platform
	// backfills a declined category with an alternate supplier.
	CategoryStatusDeclined    CategoryStatus = "declined"
	CategoryStatusNotEnquired CategoryStatus = "not_enquired"
)

var validCategoryStatuses = []CategoryStatus{
	CategoryStatusConfirmed,
	CategoryStatusAwaitingConfirmation,
	CategoryStatusPending,
	CategoryStatusDeclined,
	CategoryStatusNotEnquired,
}

// String implements fmt.Stringer.
func (c CategoryStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CategoryStatus.
func (c CategoryStatus) IsValid() bool {
	for _, candidate := range validCategoryStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategoryStatus converts raw input into a CategoryStatus.
func ParseCategoryStatus(value string) (CategoryStatus, error) {
	for _, candidate := range validCategoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category status %q", value)
}
