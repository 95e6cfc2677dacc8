package enums

import "testing"

func TestCategoryLabelKnown(t *testing.T) {
	if got := CategoryFacePainting.Label(); got != "Face Painting" {
		t.Fatalf("expected Face Painting, got %q", got)
	}
	if got := CategoryVenue.Label(); got != "Venue" {
		t.Fatalf("expected Venue, got %q", got)
	}
}

func TestCategoryLabelFallback(t *testing.T) {
	cases := map[string]string{
		"softPlay":     "Soft Play",
		"magician":     "Magician",
		"bouncyCastle": "Bouncy Castle",
	}
	for raw, want := range cases {
		if got := SupplierCategory(raw).Label(); got != want {
			t.Fatalf("label for %q: expected %q, got %q", raw, want, got)
		}
	}
}

func TestCategoryIsBookable(t *testing.T) {
	if CategoryEInvites.IsBookable() {
		t.Fatal("einvites must not count as bookable")
	}
	if SupplierCategory("").IsBookable() {
		t.Fatal("empty category must not count as bookable")
	}
	if !CategoryCakes.IsBookable() {
		t.Fatal("cakes should be bookable")
	}
}
