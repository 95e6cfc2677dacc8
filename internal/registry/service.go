package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

// ItemDTO is one wished-for gift.
type ItemDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	URL       *string          `json:"url,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Claimed   bool             `json:"claimed"`
	CreatedAt time.Time        `json:"created_at"`
}

// RegistryDTO is a party's gift registry with its items.
type RegistryDTO struct {
	ID        uuid.UUID `json:"id"`
	PartyID   uuid.UUID `json:"party_id"`
	Title     string    `json:"title"`
	Items     []ItemDTO `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateItemDTO adds a gift to the registry.
type CreateItemDTO struct {
	Name  string           `json:"name" validate:"required"`
	URL   *string          `json:"url"`
	Price *decimal.Decimal `json:"price"`
}

// Service manages the optional gift registry attached to a party.
type Service interface {
	Create(ctx context.Context, userID, partyID uuid.UUID, title string) (*RegistryDTO, error)
	Get(ctx context.Context, userID, partyID uuid.UUID) (*RegistryDTO, error)
	Rename(ctx context.Context, userID, partyID uuid.UUID, title string) (*RegistryDTO, error)
	AddItem(ctx context.Context, userID, partyID uuid.UUID, dto CreateItemDTO) (*RegistryDTO, error)
	SetItemClaimed(ctx context.Context, userID, partyID, itemID uuid.UUID, claimed bool) (*RegistryDTO, error)
	RemoveItem(ctx context.Context, userID, partyID, itemID uuid.UUID) (*RegistryDTO, error)
}

type registryRepository interface {
	Create(ctx context.Context, registry *models.GiftRegistry) error
	FindByParty(ctx context.Context, partyID uuid.UUID) (*models.GiftRegistry, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	CreateItem(ctx context.Context, item *models.RegistryItem) error
	SetItemClaimed(ctx context.Context, registryID, itemID uuid.UUID, claimed bool) (bool, error)
	DeleteItem(ctx context.Context, registryID, itemID uuid.UUID) (bool, error)
}

type partyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
}

type service struct {
	repo    registryRepository
	parties partyFinder
}

// ServiceParams wires Service dependencies.
type ServiceParams struct {
	Repo    registryRepository
	Parties partyFinder
}

// NewService builds the registry service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("registry repository is required")
	}
	if params.Parties == nil {
		return nil, fmt.Errorf("party repository is required")
	}
	return &service{repo: params.Repo, parties: params.Parties}, nil
}

func (s *service) Create(ctx context.Context, userID, partyID uuid.UUID, title string) (*RegistryDTO, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registry title is required")
	}

	existing, err := s.repo.FindByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load registry")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "party already has a registry")
	}

	registry := &models.GiftRegistry{PartyID: party.ID, Title: title}
	if err := s.repo.Create(ctx, registry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create registry")
	}
	return fromModel(registry), nil
}

func (s *service) Get(ctx context.Context, userID, partyID uuid.UUID) (*RegistryDTO, error) {
	registry, err := s.ownedRegistry(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	return fromModel(registry), nil
}

func (s *service) Rename(ctx context.Context, userID, partyID uuid.UUID, title string) (*RegistryDTO, error) {
	registry, err := s.ownedRegistry(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registry title is required")
	}
	if err := s.repo.UpdateTitle(ctx, registry.ID, title); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rename registry")
	}
	return s.reload(ctx, registry.PartyID)
}

func (s *service) AddItem(ctx context.Context, userID, partyID uuid.UUID, dto CreateItemDTO) (*RegistryDTO, error) {
	registry, err := s.ownedRegistry(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if dto.Price != nil && dto.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}

	item := &models.RegistryItem{
		RegistryID: registry.ID,
		Name:       name,
		URL:        dto.URL,
		Price:      dto.Price,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	return s.reload(ctx, registry.PartyID)
}

func (s *service) SetItemClaimed(ctx context.Context, userID, partyID, itemID uuid.UUID, claimed bool) (*RegistryDTO, error) {
	registry, err := s.ownedRegistry(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.SetItemClaimed(ctx, registry.ID, itemID, claimed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claim item")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return s.reload(ctx, registry.PartyID)
}

func (s *service) RemoveItem(ctx context.Context, userID, partyID, itemID uuid.UUID) (*RegistryDTO, error) {
	registry, err := s.ownedRegistry(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	deleted, err := s.repo.DeleteItem(ctx, registry.ID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return s.reload(ctx, registry.PartyID)
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

func (s *service) ownedRegistry(ctx context.Context, userID, partyID uuid.UUID) (*models.GiftRegistry, error) {
	party, err := s.ownedParty(ctx, userID, partyID)
	if err != nil {
		return nil, err
	}
	registry, err := s.repo.FindByParty(ctx, party.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load registry")
	}
	if registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registry not found")
	}
	return registry, nil
}

func (s *service) reload(ctx context.Context, partyID uuid.UUID) (*RegistryDTO, error) {
	registry, err := s.repo.FindByParty(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload registry")
	}
	return fromModel(registry), nil
}

func fromModel(registry *models.GiftRegistry) *RegistryDTO {
	items := make([]ItemDTO, 0, len(registry.Items))
	for _, item := range registry.Items {
		items = append(items, ItemDTO{
			ID:        item.ID,
			Name:      item.Name,
			URL:       item.URL,
			Price:     item.Price,
			Claimed:   item.Claimed,
			CreatedAt: item.CreatedAt,
		})
	}
	return &RegistryDTO{
		ID:        registry.ID,
		PartyID:   registry.PartyID,
		Title:     registry.Title,
		Items:     items,
		CreatedAt: registry.CreatedAt,
	}
}
