package guests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

// GuestDTO is one guest-list entry.
type GuestDTO struct {
	ID           uuid.UUID               `json:"id"`
	Name         string                  `json:"name"`
	Email        *string                 `json:"email,omitempty"`
	Child        bool                    `json:"child"`
	InviteStatus enums.GuestInviteStatus `json:"invite_status"`
	RSVPStatus   enums.RSVPStatus        `json:"rsvp_status"`
	RespondedAt  *time.Time              `json:"responded_at,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

// CreateGuestDTO adds someone to the guest list.
type CreateGuestDTO struct {
	Name  string  `json:"name" validate:"required"`
	Email *string `json:"email" validate:"omitempty,email"`
	Child bool    `json:"child"`
}

// UpdateGuestDTO is a partial update; nil fields are left untouched.
type UpdateGuestDTO struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Child *bool   `json:"child"`
}

// Service manages a party's guest list and RSVP tracking.
type Service interface {
	Add(ctx context.Context, userID, partyID uuid.UUID, dto CreateGuestDTO) (*GuestDTO, error)
	List(ctx context.Context, userID, partyID uuid.UUID) ([]GuestDTO, error)
	Update(ctx context.Context, userID, partyID, guestID uuid.UUID, dto UpdateGuestDTO) (*GuestDTO, error)
	Remove(ctx context.Context, userID, partyID, guestID uuid.UUID) error
	MarkInvitesSent(ctx context.Context, userID, partyID uuid.UUID) (int64, error)
	RecordRSVP(ctx context.Context, userID, partyID, guestID uuid.UUID, rsvp enums.RSVPStatus) (*GuestDTO, error)
}

type guestRepository interface {
	Create(ctx context.Context, guest *models.Guest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	ListByParty(ctx context.Context, partyID uuid.UUID) ([]models.Guest, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, partyID, id uuid.UUID) (bool, error)
	MarkInvitesSent(ctx context.Context, partyID uuid.UUID) (int64, error)
}

type partyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
}

// einviteFinder gates invite sending on the digital invitation existing.
type einviteFinder interface {
	FindByParty(ctx context.Context, partyID uuid.UUID) (*models.EInvite, error)
}

type service struct {
	repo     guestRepository
	parties  partyFinder
	einvites einviteFinder
}

// ServiceParams wires Service dependencies.
type ServiceParams struct {
	Repo     guestRepository
	Parties  partyFinder
	EInvites einviteFinder
}

// NewService builds the guest service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("guest repository is required")
	}
	if params.Parties == nil {
		return nil, fmt.Errorf("party repository is required")
	}
	if params.EInvites == nil {
		return nil, fmt.Errorf("e-invite repository is required")
	}
	return &service{repo: params.Repo, parties: params.Parties, einvites: params.EInvites}, nil
}

func (s *service) Add(ctx context.Context, userID, partyID uuid.UUID, dto CreateGuestDTO) (*GuestDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest name is required")
	}

	guest := &models.Guest{
		PartyID:      party.ID,
		Name:         name,
		Email:        normalizeEmail(dto.Email),
		Child:        dto.Child,
		InviteStatus: enums.InviteStatusPending,
		RSVPStatus:   enums.RSVPStatusPending,
	}
	if err := s.repo.Create(ctx, guest); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create guest")
	}
	return fromModel(guest), nil
}

func (s *service) List(ctx context.Context, userID, partyID uuid.UUID) ([]GuestDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	guests, err := s.repo.ListByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list guests")
	}
	dtos := make([]GuestDTO, 0, len(guests))
	for i := range guests {
		dtos = append(dtos, *fromModel(&guests[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, userID, partyID, guestID uuid.UUID, dto UpdateGuestDTO) (*GuestDTO, error) {
	guest, err := s.ownedGuest(ctx, userID, partyID, guestID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest name cannot be blank")
		}
		updates["name"] = name
	}
	if dto.Email != nil {
		updates["email"] = normalizeEmail(dto.Email)
	}
	if dto.Child != nil {
		updates["child"] = *dto.Child
	}
	if len(updates) == 0 {
		return fromModel(guest), nil
	}

	if err := s.repo.Update(ctx, guest.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update guest")
	}
	updated, err := s.repo.FindByID(ctx, guest.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload guest")
	}
	return fromModel(updated), nil
}

func (s *service) Remove(ctx context.Context, userID, partyID, guestID uuid.UUID) error {
	if _, err := s.ownedParty(ctx, userID, partyID); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, partyID, guestID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete guest")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "guest not found")
	}
	return nil
}

func (s *service) MarkInvitesSent(ctx context.Context, userID, partyID uuid.UUID) (int64, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return 0, err
	}
	einvite, err := s.einvites.FindByParty(ctx, party.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load e-invite")
	}
	if einvite == nil {
		return 0, pkgerrors.New(pkgerrors.CodeStateConflict, "design the e-invite before sending invitations")
	}

	sent, err := s.repo.MarkInvitesSent(ctx, party.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark invites sent")
	}
	return sent, nil
}

func (s *service) RecordRSVP(ctx context.Context, userID, partyID, guestID uuid.UUID, rsvp enums.RSVPStatus) (*GuestDTO, error) {
	guest, err := s.ownedGuest(ctx, userID, partyID, guestID)
	if err != nil {
		return nil, err
	}
	if !rsvp.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown rsvp status %q", rsvp))
	}
	if guest.InviteStatus != enums.InviteStatusSent {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "guest has not been invited yet")
	}

	updates := map[string]any{"rsvp_status": rsvp}
	if rsvp == enums.RSVPStatusPending {
		updates["responded_at"] = nil
	} else {
		updates["responded_at"] = time.Now().UTC()
	}
	if err := s.repo.Update(ctx, guest.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record rsvp")
	}
	updated, err := s.repo.FindByID(ctx, guest.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload guest")
	}
	return fromModel(updated), nil
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

func (s *service) ownedGuest(ctx context.Context, userID, partyID, guestID uuid.UUID) (*models.Guest, error) {
	if _, err := s.ownedParty(ctx, userID, partyID); err != nil {
		return nil, err
	}
	guest, err := s.repo.FindByID(ctx, guestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load guest")
	}
	if guest == nil || guest.PartyID != partyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "guest not found")
	}
	return guest, nil
}

func fromModel(guest *models.Guest) *GuestDTO {
	return &GuestDTO{
		ID:           guest.ID,
		Name:         guest.Name,
		Email:        guest.Email,
		Child:        guest.Child,
		InviteStatus: guest.InviteStatus,
		RSVPStatus:   guest.RSVPStatus,
		RespondedAt:  guest.RespondedAt,
		CreatedAt:    guest.CreatedAt,
	}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	out := strings.ToLower(strings.TrimSpace(*email))
	if out == "" {
		return nil
	}
	return &out
}
