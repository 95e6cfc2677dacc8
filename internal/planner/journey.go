package planner

import (
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

// Step identifiers, in journey order.
const (
	StepPaymentSecured    = "payment_secured"
	StepVenueConfirmation = "venue_confirmation"
	StepGuestList         = "guest_list"
	StepGiftRegistry      = "gift_registry"
	StepDesignEInvites    = "design_einvites"
	StepSendInvitations   = "send_invitations"
	StepTrackRSVPs        = "track_rsvps"
	StepFinalDetails      = "final_details"
)

// StepMetrics carries the counters some steps display alongside their status.
type StepMetrics struct {
	Total     int `json:"total"`
	Sent      int `json:"sent,omitempty"`
	Confirmed int `json:"confirmed,omitempty"`
}

// StepAction is the navigation affordance attached to an actionable step.
type StepAction struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// JourneyStep is one derived workflow milestone. It is recomputed on every
// read and never persisted.
type JourneyStep struct {
	ID            string                  `json:"id"`
	Number        int                     `json:"number"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Status        enums.JourneyStepStatus `json:"status"`
	UnlockMessage string                  `json:"unlockMessage,omitempty"`
	Metrics       *StepMetrics            `json:"metrics,omitempty"`
	Action        *StepAction             `json:"action,omitempty"`
}

// Journey is the full post-booking workflow view for a party.
type Journey struct {
	Steps          []JourneyStep `json:"steps"`
	NextStep       *JourneyStep  `json:"nextStep,omitempty"`
	CompletedSteps int           `json:"completedSteps"`
	TotalSteps     int           `json:"totalSteps"`
	Percentage     int           `json:"percentage"`
}

// JourneyInput is everything the deriver reads. Registry and EInvite are nil
// when the party has not created them yet.
type JourneyInput struct {
	Slots             []models.SupplierSlot
	Enquiries         []models.Enquiry
	Guests            []models.Guest
	Registry          *models.GiftRegistry
	RegistryItemCount int
	EInvite           *models.EInvite
}

// DeriveJourney computes the ordered step list for a booked party. Status is
// a pure function of the inputs; calling it twice with the same inputs yields
// the same list.
//
// Steps 1, 7 and 8 are deliberately constant: payment is a precondition for
// reaching this view, RSVP tracking stays available once opened, and final
// details never activate yet.
func DeriveJourney(input JourneyInput) Journey {
	index := IndexEnquiries(input.Enquiries)

	venueSlot := VenueSlot(input.Slots)
	venueConfirmed := false
	if venueSlot != nil {
		venueConfirmed = ResolveCategoryStatus(index.Lookup(enums.CategoryVenue)) == enums.CategoryStatusConfirmed
	}

	guestCount := len(input.Guests)
	sentCount := 0
	confirmedRSVPs := 0
	for _, guest := range input.Guests {
		if guest.InviteStatus == enums.InviteStatusSent {
			sentCount++
		}
		if guest.RSVPStatus == enums.RSVPStatusConfirmed {
			confirmedRSVPs++
		}
	}

	einvitesCreated := input.EInvite != nil && input.EInvite.Slug != ""

	steps := []JourneyStep{
		{
			ID:          StepPaymentSecured,
			Number:      1,
			Title:       "Payment Secured",
			Description: "Your booking payment is in place.",
			Status:      enums.StepStatusCompleted,
		},
		venueConfirmationStep(venueSlot != nil, venueConfirmed, index.Lookup(enums.CategoryVenue)),
		{
			ID:          StepGuestList,
			Number:      3,
			Title:       "Guest List",
			Description: "Add the friends and family you want to invite.",
			Status:      completedWhen(guestCount > 0, enums.StepStatusAvailable),
			Metrics:     &StepMetrics{Total: guestCount},
			Action:      &StepAction{Label: "Build guest list", Target: "guest-list"},
		},
		{
			ID:          StepGiftRegistry,
			Number:      4,
			Title:       "Gift Registry",
			Description: "Create a registry so guests know what to bring.",
			Status:      completedWhen(input.Registry != nil, enums.StepStatusAvailable),
			Metrics:     &StepMetrics{Total: input.RegistryItemCount},
			Action:      &StepAction{Label: "Set up registry", Target: "gift-registry"},
		},
		designEInvitesStep(venueConfirmed, einvitesCreated),
		sendInvitationsStep(einvitesCreated, guestCount, sentCount),
		{
			ID:          StepTrackRSVPs,
			Number:      7,
			Title:       "Track RSVPs",
			Description: "See who has replied to the invitation.",
			Status:      enums.StepStatusAvailable,
			Metrics:     &StepMetrics{Total: guestCount, Confirmed: confirmedRSVPs},
			Action:      &StepAction{Label: "View RSVPs", Target: "rsvps"},
		},
		{
			ID:          StepFinalDetails,
			Number:      8,
			Title:       "Final Details",
			Description: "Last-minute checks closer to the big day.",
			Status:      enums.StepStatusUpcoming,
		},
	}

	journey := Journey{Steps: steps, TotalSteps: len(steps)}
	for i := range steps {
		if steps[i].Status == enums.StepStatusCompleted {
			journey.CompletedSteps++
		}
	}
	journey.Percentage = percentOf(journey.CompletedSteps, journey.TotalSteps)
	journey.NextStep = nextStep(steps)
	return journey
}

// nextStep picks the first current step, falling back to the first available
// one. Nil when nothing qualifies.
func nextStep(steps []JourneyStep) *JourneyStep {
	for i := range steps {
		if steps[i].Status == enums.StepStatusCurrent {
			return &steps[i]
		}
	}
	for i := range steps {
		if steps[i].Status == enums.StepStatusAvailable {
			return &steps[i]
		}
	}
	return nil
}

func venueConfirmationStep(slotFilled, confirmed bool, venueEnquiry *models.Enquiry) JourneyStep {
	step := JourneyStep{
		ID:          StepVenueConfirmation,
		Number:      2,
		Title:       "Venue Confirmation",
		Description: "Your venue confirms the date and time.",
	}
	switch {
	case !slotFilled:
		step.Status = enums.StepStatusLocked
		step.UnlockMessage = "Choose a venue to unlock this step."
	case confirmed:
		step.Status = enums.StepStatusCompleted
	default:
		// Covers pending and auto-accepted awaiting a human response.
		step.Status = enums.StepStatusCurrent
		if venueEnquiry != nil && venueEnquiry.AutoAccepted {
			step.Description = "Instant booking received, awaiting the venue's confirmation."
		}
	}
	return step
}

func designEInvitesStep(venueConfirmed, einvitesCreated bool) JourneyStep {
	step := JourneyStep{
		ID:          StepDesignEInvites,
		Number:      5,
		Title:       "Design E-Invites",
		Description: "Create a shareable digital invitation.",
		Action:      &StepAction{Label: "Design invites", Target: "einvites"},
	}
	switch {
	case !venueConfirmed:
		step.Status = enums.StepStatusLocked
		step.UnlockMessage = "Invitations unlock once the venue is confirmed."
	case einvitesCreated:
		step.Status = enums.StepStatusCompleted
	default:
		step.Status = enums.StepStatusAvailable
	}
	return step
}

func sendInvitationsStep(einvitesCreated bool, guestCount, sentCount int) JourneyStep {
	step := JourneyStep{
		ID:          StepSendInvitations,
		Number:      6,
		Title:       "Send Invitations",
		Description: "Share the invitation with your guest list.",
		Metrics:     &StepMetrics{Total: guestCount, Sent: sentCount},
		Action:      &StepAction{Label: "Send invites", Target: "send-invites"},
	}
	switch {
	case !einvitesCreated:
		step.Status = enums.StepStatusLocked
		step.UnlockMessage = "Design your e-invite first."
	case sentCount > 0:
		step.Status = enums.StepStatusCompleted
	default:
		step.Status = enums.StepStatusAvailable
	}
	return step
}

func completedWhen(done bool, fallback enums.JourneyStepStatus) enums.JourneyStepStatus {
	if done {
		return enums.StepStatusCompleted
	}
	return fallback
}
