package parties

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/geocode"
	"github.com/partysnap/partysnap-backend/pkg/visibility"
)

// Service exposes party plan operations for the owning parent.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, dto CreatePartyDTO) (*PartyDTO, error)
	Get(ctx context.Context, userID, partyID uuid.UUID) (*PartyDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]PartyDTO, error)
	Update(ctx context.Context, userID, partyID uuid.UUID, dto UpdatePartyDTO) (*PartyDTO, error)
	SetBudget(ctx context.Context, userID, partyID uuid.UUID, budget *decimal.Decimal) (*PartyDTO, error)
	FillSlot(ctx context.Context, userID, partyID uuid.UUID, category enums.SupplierCategory, supplierID uuid.UUID) (*PartyDTO, error)
	ClearSlot(ctx context.Context, userID, partyID uuid.UUID, category enums.SupplierCategory) (*PartyDTO, error)
}

type partyRepository interface {
	Create(ctx context.Context, party *models.Party) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Party, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SetBudget(ctx context.Context, id uuid.UUID, budget *decimal.Decimal) error
	UpsertSlot(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory, supplierID uuid.UUID) (*models.SupplierSlot, error)
	ClearSlot(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory) (bool, error)
}

type supplierFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

// enquiryCoordinator keeps slot changes and their enquiries in step without
// importing the enquiries package.
type enquiryCoordinator interface {
	DispatchForSlot(ctx context.Context, party *models.Party, supplier *models.Supplier) error
	CancelActive(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory) error
}

type geocoder interface {
	Lookup(ctx context.Context, postcode string) (*geocode.Place, error)
}

type service struct {
	repo      partyRepository
	suppliers supplierFinder
	enquiries enquiryCoordinator
	geocoder  geocoder
}

// ServiceParams wires Service dependencies. Geocoder is optional; when
// absent parties are stored without a resolved location name.
type ServiceParams struct {
	Repo      partyRepository
	Suppliers supplierFinder
	Enquiries enquiryCoordinator
	Geocoder  geocoder
}

// NewService builds the party service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("party repository is required")
	}
	if params.Suppliers == nil {
		return nil, fmt.Errorf("supplier repository is required")
	}
	if params.Enquiries == nil {
		return nil, fmt.Errorf("enquiry coordinator is required")
	}
	return &service{
		repo:      params.Repo,
		suppliers: params.Suppliers,
		enquiries: params.Enquiries,
		geocoder:  params.Geocoder,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, dto CreatePartyDTO) (*PartyDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(dto.ChildName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "child name is required")
	}
	if dto.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party date is required")
	}
	if dto.GuestCount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest count cannot be negative")
	}
	postcode := visibility.NormalizePostcode(dto.Postcode)
	if postcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postcode is required")
	}
	if err := validateBudget(dto.Budget); err != nil {
		return nil, err
	}

	party := &models.Party{
		UserID:     userID,
		ChildName:  strings.TrimSpace(dto.ChildName),
		Theme:      strings.TrimSpace(dto.Theme),
		Date:       dto.Date,
		GuestCount: dto.GuestCount,
		Postcode:   postcode,
		Budget:     dto.Budget,
		Status:     enums.PartyStatusPlanning,
	}
	party.Location = s.resolveLocation(ctx, postcode)

	if err := s.repo.Create(ctx, party); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create party")
	}
	return FromModel(party), nil
}

func (s *service) Get(ctx context.Context, userID, partyID uuid.UUID) (*PartyDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	return FromModel(party), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]PartyDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	parties, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list parties")
	}
	dtos := make([]PartyDTO, 0, len(parties))
	for i := range parties {
		dtos = append(dtos, *FromModel(&parties[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, userID, partyID uuid.UUID, dto UpdatePartyDTO) (*PartyDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	if party.Status == enums.PartyStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled parties cannot be edited")
	}

	updates := map[string]any{}
	if dto.ChildName != nil {
		name := strings.TrimSpace(*dto.ChildName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "child name cannot be blank")
		}
		updates["child_name"] = name
	}
	if dto.Theme != nil {
		updates["theme"] = strings.TrimSpace(*dto.Theme)
	}
	if dto.Date != nil {
		if dto.Date.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "party date cannot be blank")
		}
		updates["date"] = *dto.Date
	}
	if dto.GuestCount != nil {
		if *dto.GuestCount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest count cannot be negative")
		}
		updates["guest_count"] = *dto.GuestCount
	}
	if dto.Postcode != nil {
		postcode := visibility.NormalizePostcode(*dto.Postcode)
		if postcode == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "postcode cannot be blank")
		}
		updates["postcode"] = postcode
		updates["location"] = s.resolveLocation(ctx, postcode)
	}
	if dto.Status != nil {
		if !dto.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown party status %q", *dto.Status))
		}
		updates["status"] = *dto.Status
	}
	if len(updates) == 0 {
		return FromModel(party), nil
	}

	if err := s.repo.Update(ctx, party.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update party")
	}
	updated, err := s.repo.FindByID(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload party")
	}
	return FromModel(updated), nil
}

func (s *service) SetBudget(ctx context.Context, userID, partyID uuid.UUID, budget *decimal.Decimal) (*PartyDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}
	if err := s.repo.SetBudget(ctx, party.ID, budget); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set budget")
	}
	party.Budget = budget
	return FromModel(party), nil
}

func (s *service) FillSlot(ctx context.Context, userID, partyID uuid.UUID, category enums.SupplierCategory, supplierID uuid.UUID) (*PartyDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	if party.Status == enums.PartyStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled parties cannot be edited")
	}
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}

	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load supplier")
	}
	if err := visibility.EnsureSupplierBookable(visibility.SupplierBookingInput{
		Supplier:          supplier,
		RequestedCategory: category,
	}); err != nil {
		return nil, err
	}

	// Replacing a previous choice retires its enquiry before the new one
	// is dispatched.
	if prev := slotFor(party, category); prev != nil && prev.SupplierID != supplierID {
		if err := s.enquiries.CancelActive(ctx, party.ID, category); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel enquiry")
		}
	}

	if _, err := s.repo.UpsertSlot(ctx, party.ID, category, supplierID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fill slot")
	}
	if err := s.enquiries.DispatchForSlot(ctx, party, supplier); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload party")
	}
	return FromModel(updated), nil
}

func (s *service) ClearSlot(ctx context.Context, userID, partyID uuid.UUID, category enums.SupplierCategory) (*PartyDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", category))
	}

	cleared, err := s.repo.ClearSlot(ctx, party.ID, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear slot")
	}
	if !cleared {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "slot not filled")
	}
	if err := s.enquiries.CancelActive(ctx, party.ID, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel enquiry")
	}

	updated, err := s.repo.FindByID(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload party")
	}
	return FromModel(updated), nil
}

// ownedParty loads a party and hides other users' parties behind not-found.
func (s *service) ownedParty(ctx context.Context, userID, partyID uuid.UUID) (*models.Party, error) {
	if userID == uuid.Nil || partyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and party id are required")
	}
	party, err := s.repo.FindByID(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load party")
	}
	if party == nil || party.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "party not found")
	}
	return party, nil
}

// resolveLocation is best effort; a failed lookup never blocks a write.
func (s *service) resolveLocation(ctx context.Context, postcode string) *string {
	if s.geocoder == nil {
		return nil
	}
	place, err := s.geocoder.Lookup(ctx, postcode)
	if err != nil || place == nil {
		return nil
	}
	name := place.DisplayName()
	if name == "" {
		return nil
	}
	return &name
}

func validateBudget(budget *decimal.Decimal) error {
	if budget != nil && !budget.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "budget must be greater than zero")
	}
	return nil
}

func slotFor(party *models.Party, category enums.SupplierCategory) *models.SupplierSlot {
	for i := range party.Slots {
		if party.Slots[i].Category == category {
			return &party.Slots[i]
		}
	}
	return nil
}
