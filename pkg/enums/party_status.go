package enums

import "fmt"

// PartyStatus is the soft lifecycle state of a party. Parties are never hard
// deleted; cancellation flips this status instead.
type PartyStatus string

const (
	PartyStatusPlanning  PartyStatus = "planning"
	PartyStatusBooked    PartyStatus = "booked"
	PartyStatusCompleted PartyStatus = "completed"
	PartyStatusCancelled PartyStatus = "cancelled"
)

var validPartyStatuses = []PartyStatus{
	PartyStatusPlanning,
	PartyStatusBooked,
	PartyStatusCompleted,
	PartyStatusCancelled,
}

// String implements fmt.Stringer.
func (p PartyStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PartyStatus.
func (p PartyStatus) IsValid() bool {
	for _, candidate := range validPartyStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePartyStatus converts raw input into a PartyStatus.
func ParsePartyStatus(value string) (PartyStatus, error) {
	for _, candidate := range validPartyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid party status %q", value)
}
