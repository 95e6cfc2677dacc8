// Package dashboard assembles the single payload behind the party planning
// screen: readiness, journey steps and budget, derived fresh on every read.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/internal/parties"
	"github.com/partysnap/partysnap-backend/internal/planner"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

// DashboardDTO is everything the planning screen needs in one response.
type DashboardDTO struct {
	Party     parties.PartyDTO      `json:"party"`
	Readiness planner.Readiness     `json:"readiness"`
	Journey   planner.Journey       `json:"journey"`
	Budget    planner.BudgetSummary `json:"budget"`
	DaysUntil int                   `json:"days_until"`
}

// Service serves the aggregated dashboard view.
type Service interface {
	Get(ctx context.Context, userID, partyID uuid.UUID) (*DashboardDTO, error)
}

type partyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
}

type enquiryLister interface {
	ListActiveByParty(ctx context.Context, partyID uuid.UUID) ([]models.Enquiry, error)
}

type guestLister interface {
	ListByParty(ctx context.Context, partyID uuid.UUID) ([]models.Guest, error)
}

type registryFinder interface {
	FindByParty(ctx context.Context, partyID uuid.UUID) (*models.GiftRegistry, error)
}

type einviteFinder interface {
	FindByParty(ctx context.Context, partyID uuid.UUID) (*models.EInvite, error)
}

type service struct {
	parties   partyFinder
	enquiries enquiryLister
	guests    guestLister
	registry  registryFinder
	einvites  einviteFinder
	now       func() time.Time
}

// ServiceParams wires Service dependencies.
type ServiceParams struct {
	Parties   partyFinder
	Enquiries enquiryLister
	Guests    guestLister
	Registry  registryFinder
	EInvites  einviteFinder

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewService builds the dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Parties == nil {
		return nil, fmt.Errorf("party repository is required")
	}
	if params.Enquiries == nil {
		return nil, fmt.Errorf("enquiry repository is required")
	}
	if params.Guests == nil {
		return nil, fmt.Errorf("guest repository is required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("registry repository is required")
	}
	if params.EInvites == nil {
		return nil, fmt.Errorf("e-invite repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		parties:   params.Parties,
		enquiries: params.Enquiries,
		guests:    params.Guests,
		registry:  params.Registry,
		einvites:  params.EInvites,
		now:       now,
	}, nil
}

func (s *service) Get(ctx context.Context, userID, partyID uuid.UUID) (*DashboardDTO, error) {
	if userID == uuid.Nil || partyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and party id are required")
	}
	party, err := s.parties.FindByID(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load party")
	}
	if party == nil || party.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "party not found")
	}

	enquiries, err := s.enquiries.ListActiveByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list enquiries")
	}
	guests, err := s.guests.ListByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list guests")
	}
	registry, err := s.registry.FindByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load registry")
	}
	einvite, err := s.einvites.FindByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load e-invite")
	}

	registryItemCount := 0
	if registry != nil {
		registryItemCount = len(registry.Items)
	}

	return &DashboardDTO{
		Party:     *parties.FromModel(party),
		Readiness: planner.ComputeReadiness(party.Slots, enquiries),
		Journey: planner.DeriveJourney(planner.JourneyInput{
			Slots:             party.Slots,
			Enquiries:         enquiries,
			Guests:            guests,
			Registry:          registry,
			RegistryItemCount: registryItemCount,
			EInvite:           einvite,
		}),
		Budget:    planner.ComputeBudget(enquiries, party.Budget),
		DaysUntil: daysUntil(s.now().UTC(), party.Date),
	}, nil
}

// daysUntil rounds up so a party later today still shows as day zero, and
// never goes negative once the date has passed.
func daysUntil(now, date time.Time) int {
	diff := date.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}
