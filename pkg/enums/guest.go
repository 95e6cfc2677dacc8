package enums

import "fmt"

// GuestInviteStatus tracks whether an invitation has gone out to a guest.
type GuestInviteStatus string

const (
	InviteStatusPending GuestInviteStatus = "pending"
	InviteStatusSent    GuestInviteStatus = "sent"
)

// String implements fmt.Stringer.
func (g GuestInviteStatus) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GuestInviteStatus.
func (g GuestInviteStatus) IsValid() bool {
	return g == InviteStatusPending || g == InviteStatusSent
}

// ParseGuestInviteStatus converts raw input into a GuestInviteStatus.
func ParseGuestInviteStatus(value string) (GuestInviteStatus, error) {
	switch GuestInviteStatus(value) {
	case InviteStatusPending, InviteStatusSent:
		return GuestInviteStatus(value), nil
	}
	return "", fmt.Errorf("invalid guest invite status %q", value)
}

// RSVPStatus tracks a guest's reply to an invitation.
type RSVPStatus string

const (
	RSVPStatusPending   RSVPStatus = "pending"
	RSVPStatusConfirmed RSVPStatus = "confirmed"
	RSVPStatusDeclined  RSVPStatus = "declined"
)

var validRSVPStatuses = []RSVPStatus{
	RSVPStatusPending,
	RSVPStatusConfirmed,
	RSVPStatusDeclined,
}

// String implements fmt.Stringer.
func (r RSVPStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RSVPStatus.
func (r RSVPStatus) IsValid() bool {
	for _, candidate := range validRSVPStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRSVPStatus converts raw input into an RSVPStatus.
func ParseRSVPStatus(value string) (RSVPStatus, error) {
	for _, candidate := range validRSVPStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rsvp status %q", value)
}
