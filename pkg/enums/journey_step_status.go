package enums

import "fmt"

// JourneyStepStatus is the derived display state of one post-booking
// journey step.
type JourneyStepStatus string

const (
	StepStatusLocked    JourneyStepStatus = "locked"
	StepStatusAvailable JourneyStepStatus = "available"
	StepStatusCurrent   JourneyStepStatus = "current"
	StepStatusCompleted JourneyStepStatus = "completed"
	StepStatusUpcoming  JourneyStepStatus = "upcoming"
)

var validJourneyStepStatuses = []JourneyStepStatus{
	StepStatusLocked,
	StepStatusAvailable,
	StepStatusCurrent,
	StepStatusCompleted,
	StepStatusUpcoming,
}

// String implements fmt.Stringer.
func (s JourneyStepStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known JourneyStepStatus.
func (s JourneyStepStatus) IsValid() bool {
	for _, candidate := range validJourneyStepStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseJourneyStepStatus converts raw input into a JourneyStepStatus.
func ParseJourneyStepStatus(value string) (JourneyStepStatus, error) {
	for _, candidate := range validJourneyStepStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid journey step status %q", value)
}
