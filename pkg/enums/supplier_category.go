package enums

import (
	"fmt"
	"strings"
	"unicode"
)

// SupplierCategory identifies the service slot a supplier fills on a party plan.
type SupplierCategory string

const (
	CategoryVenue         SupplierCategory = "venue"
	CategoryEntertainment SupplierCategory = "entertainment"
	CategoryCakes         SupplierCategory = "cakes"
	CategoryFacePainting  SupplierCategory = "facePainting"
	CategoryActivities    SupplierCategory = "activities"
	CategoryPartyBags     SupplierCategory = "partyBags"
	CategoryDecorations   SupplierCategory = "decorations"
	CategoryBalloons      SupplierCategory = "balloons"
	CategoryPhotography   SupplierCategory = "photography"
	// CategoryEInvites is an add-on workflow slot, never counted toward
	// booking readiness.
	CategoryEInvites SupplierCategory = "einvites"
)

var validSupplierCategories = []SupplierCategory{
	CategoryVenue,
	CategoryEntertainment,
	CategoryCakes,
	CategoryFacePainting,
	CategoryActivities,
	CategoryPartyBags,
	CategoryDecorations,
	CategoryBalloons,
	CategoryPhotography,
	CategoryEInvites,
}

var categoryLabels = map[SupplierCategory]string{
	CategoryVenue:         "Venue",
	CategoryEntertainment: "Entertainment",
	CategoryCakes:         "Cakes",
	CategoryFacePainting:  "Face Painting",
	CategoryActivities:    "Activities",
	CategoryPartyBags:     "Party Bags",
	CategoryDecorations:   "Decorations",
	CategoryBalloons:      "Balloons",
	CategoryPhotography:   "Photography",
	CategoryEInvites:      "E-Invites",
}

// String implements fmt.Stringer.
func (c SupplierCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known SupplierCategory.
func (c SupplierCategory) IsValid() bool {
	for _, candidate := range validSupplierCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsBookable reports whether the category counts toward booking readiness.
func (c SupplierCategory) IsBookable() bool {
	return c != CategoryEInvites && c != ""
}

// Label returns the human-readable display name for the category. Unknown keys
// degrade to a title-cased rendering of the raw key rather than failing.
func (c SupplierCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return titleCaseKey(string(c))
}

// ParseSupplierCategory converts raw input into a SupplierCategory.
func ParseSupplierCategory(value string) (SupplierCategory, error) {
	for _, candidate := range validSupplierCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier category %q", value)
}

// titleCaseKey renders a camelCase or lowercase key as spaced title case,
// e.g. "softPlay" becomes "Soft Play".
func titleCaseKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
