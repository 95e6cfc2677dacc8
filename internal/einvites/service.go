package einvites

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/internal/planner"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

// EInviteDTO is the owner-facing view of a digital invitation.
type EInviteDTO struct {
	ID        uuid.UUID `json:"id"`
	PartyID   uuid.UUID `json:"party_id"`
	Slug      string    `json:"slug"`
	Theme     string    `json:"theme"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicInviteDTO is what a guest sees when opening a share link. It leaks
// nothing beyond what a paper invitation would.
type PublicInviteDTO struct {
	Slug      string    `json:"slug"`
	Theme     string    `json:"theme"`
	Message   *string   `json:"message,omitempty"`
	ChildName string    `json:"child_name"`
	Date      time.Time `json:"date"`
	Location  *string   `json:"location,omitempty"`
}

// CreateEInviteDTO designs the invitation.
type CreateEInviteDTO struct {
	Theme   string  `json:"theme" validate:"required"`
	Message *string `json:"message"`
}

// UpdateEInviteDTO is a partial update; nil fields are left untouched.
type UpdateEInviteDTO struct {
	Theme   *string `json:"theme"`
	Message *string `json:"message"`
}

// Service manages the digital invitation attached to a party.
type Service interface {
	Create(ctx context.Context, userID, partyID uuid.UUID, dto CreateEInviteDTO) (*EInviteDTO, error)
	Get(ctx context.Context, userID, partyID uuid.UUID) (*EInviteDTO, error)
	Update(ctx context.Context, userID, partyID uuid.UUID, dto UpdateEInviteDTO) (*EInviteDTO, error)
	PublicView(ctx context.Context, slug string) (*PublicInviteDTO, error)
}

type einviteRepository interface {
	Create(ctx context.Context, einvite *models.EInvite) error
	FindByParty(ctx context.Context, partyID uuid.UUID) (*models.EInvite, error)
	FindBySlug(ctx context.Context, slug string) (*models.EInvite, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type partyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
}

// enquiryLister feeds the venue-confirmation gate.
type enquiryLister interface {
	ListActiveByParty(ctx context.Context, partyID uuid.UUID) ([]models.Enquiry, error)
}

type service struct {
	repo      einviteRepository
	parties   partyFinder
	enquiries enquiryLister
}

// ServiceParams wires Service dependencies.
type ServiceParams struct {
	Repo      einviteRepository
	Parties   partyFinder
	Enquiries enquiryLister
}

// NewService builds the e-invite service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("e-invite repository is required")
	}
	if params.Parties == nil {
		return nil, fmt.Errorf("party repository is required")
	}
	if params.Enquiries == nil {
		return nil, fmt.Errorf("enquiry repository is required")
	}
	return &service{repo: params.Repo, parties: params.Parties, enquiries: params.Enquiries}, nil
}

func (s *service) Create(ctx context.Context, userID, partyID uuid.UUID, dto CreateEInviteDTO) (*EInviteDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	theme := strings.TrimSpace(dto.Theme)
	if theme == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "theme is required")
	}

	existing, err := s.repo.FindByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load e-invite")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "party already has an e-invite")
	}

	confirmed, err := s.venueConfirmed(ctx, party)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "confirm the venue before designing e-invites")
	}

	einvite := &models.EInvite{
		PartyID: party.ID,
		Slug:    newSlug(party.ChildName),
		Theme:   theme,
		Message: dto.Message,
	}
	if err := s.repo.Create(ctx, einvite); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create e-invite")
	}
	return fromModel(einvite), nil
}

func (s *service) Get(ctx context.Context, userID, partyID uuid.UUID) (*EInviteDTO, error) {
	einvite, err := s.ownedEInvite(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	return fromModel(einvite), nil
}

func (s *service) Update(ctx context.Context, userID, partyID uuid.UUID, dto UpdateEInviteDTO) (*EInviteDTO, error) {
	einvite, err := s.ownedEInvite(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if dto.Theme != nil {
		theme := strings.TrimSpace(*dto.Theme)
		if theme == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "theme cannot be blank")
		}
		updates["theme"] = theme
	}
	if dto.Message != nil {
		updates["message"] = dto.Message
	}
	if len(updates) == 0 {
		return fromModel(einvite), nil
	}

	if err := s.repo.Update(ctx, einvite.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update e-invite")
	}
	updated, err := s.repo.FindByParty(ctx, einvite.PartyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload e-invite")
	}
	return fromModel(updated), nil
}

func (s *service) PublicView(ctx context.Context, slug string) (*PublicInviteDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	einvite, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load e-invite")
	}
	if einvite == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
	}
	party, err := s.parties.FindByID(ctx, einvite.PartyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load party")
	}
	if party == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
	}
	return &PublicInviteDTO{
		Slug:      einvite.Slug,
		Theme:     einvite.Theme,
		Message:   einvite.Message,
		ChildName: party.ChildName,
		Date:      party.Date,
		Location:  party.Location,
	}, nil
}

// venueConfirmed applies the same rule the dashboard uses: a human-confirmed
// accepted enquiry on the venue slot.
func (s *service) venueConfirmed(ctx context.Context, party *models.Party) (bool, error) {
	if planner.VenueSlot(party.Slots) == nil {
		return false, nil
	}
	enquiries, err := s.enquiries.ListActiveByParty(ctx, party.ID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list enquiries")
	}
	idx := planner.IndexEnquiries(enquiries)
	return planner.ResolveCategoryStatus(idx.Lookup(enums.CategoryVenue)) == enums.CategoryStatusConfirmed, nil
}

func (s *service) ownedParty(ctx context.Context, userID, partyID uuid.UUID) (*models.Party, error) {
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
	return party, nil
}

func (s *service) ownedEInvite(ctx context.Context, userID, partyID uuid.UUID) (*models.EInvite, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	einvite, err := s.repo.FindByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load e-invite")
	}
	if einvite == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "e-invite not found")
	}
	return einvite, nil
}

func fromModel(einvite *models.EInvite) *EInviteDTO {
	return &EInviteDTO{
		ID:        einvite.ID,
		PartyID:   einvite.PartyID,
		Slug:      einvite.Slug,
		Theme:     einvite.Theme,
		Message:   einvite.Message,
		CreatedAt: einvite.CreatedAt,
	}
}

// newSlug builds a shareable link segment from the child's name plus a short
// random suffix to keep slugs unique without a retry loop.
func newSlug(childName string) string {
	base := slugify(childName)
	if base == "" {
		base = "party"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return base + "-" + suffix
}

func slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
