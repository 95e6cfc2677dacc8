package registry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

type fakeRegistryRepo struct {
	registries map[uuid.UUID]*models.GiftRegistry
}

func newFakeRegistryRepo(registries ...*models.GiftRegistry) *fakeRegistryRepo {
	repo := &fakeRegistryRepo{registries: map[uuid.UUID]*models.GiftRegistry{}}
	for _, registry := range registries {
		repo.registries[registry.PartyID] = registry
	}
	return repo
}

func (f *fakeRegistryRepo) Create(_ context.Context, registry *models.GiftRegistry) error {
	if registry.ID == uuid.Nil {
		registry.ID = uuid.New()
	}
	f.registries[registry.PartyID] = registry
	return nil
}

func (f *fakeRegistryRepo) FindByParty(_ context.Context, partyID uuid.UUID) (*models.GiftRegistry, error) {
	return f.registries[partyID], nil
}

func (f *fakeRegistryRepo) UpdateTitle(_ context.Context, id uuid.UUID, title string) error {
	for _, registry := range f.registries {
		if registry.ID == id {
			registry.Title = title
		}
	}
	return nil
}

func (f *fakeRegistryRepo) CreateItem(_ context.Context, item *models.RegistryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	for _, registry := range f.registries {
		if registry.ID == item.RegistryID {
			registry.Items = append(registry.Items, *item)
		}
	}
	return nil
}

func (f *fakeRegistryRepo) SetItemClaimed(_ context.Context, registryID, itemID uuid.UUID, claimed bool) (bool, error) {
	for _, registry := range f.registries {
		if registry.ID != registryID {
			continue
		}
		for i := range registry.Items {
			if registry.Items[i].ID == itemID {
				registry.Items[i].Claimed = claimed
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeRegistryRepo) DeleteItem(_ context.Context, registryID, itemID uuid.UUID) (bool, error) {
	for _, registry := range f.registries {
		if registry.ID != registryID {
			continue
		}
		for i := range registry.Items {
			if registry.Items[i].ID == itemID {
				registry.Items = append(registry.Items[:i], registry.Items[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

type fakePartyFinder struct {
	parties map[uuid.UUID]*models.Party
}

func (f *fakePartyFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Party, error) {
	return f.parties[id], nil
}

func testParty() *models.Party {
	return &models.Party{ID: uuid.New(), UserID: uuid.New(), Status: enums.PartyStatusPlanning}
}

func newTestService(t *testing.T, repo *fakeRegistryRepo, parties ...*models.Party) Service {
	t.Helper()
	finder := &fakePartyFinder{parties: map[uuid.UUID]*models.Party{}}
	for _, party := range parties {
		finder.parties[party.ID] = party
	}
	svc, err := NewService(ServiceParams{Repo: repo, Parties: finder})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateRegistryOncePerParty(t *testing.T) {
	party := testParty()
	svc := newTestService(t, newFakeRegistryRepo(), party)

	dto, err := svc.Create(context.Background(), party.UserID, party.ID, "Maya's wishlist")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Title != "Maya's wishlist" || dto.PartyID != party.ID {
		t.Fatalf("got %+v", dto)
	}

	_, err = svc.Create(context.Background(), party.UserID, party.ID, "Second")
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestGetRegistryMissing(t *testing.T) {
	party := testParty()
	svc := newTestService(t, newFakeRegistryRepo(), party)

	_, err := svc.Get(context.Background(), party.UserID, party.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestAddItemValidatesPrice(t *testing.T) {
	party := testParty()
	registry := &models.GiftRegistry{ID: uuid.New(), PartyID: party.ID, Title: "Wishlist"}
	svc := newTestService(t, newFakeRegistryRepo(registry), party)

	negative := decimal.NewFromInt(-5)
	_, err := svc.AddItem(context.Background(), party.UserID, party.ID, CreateItemDTO{Name: "Lego", Price: &negative})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}

	price := decimal.NewFromInt(25)
	dto, err := svc.AddItem(context.Background(), party.UserID, party.ID, CreateItemDTO{Name: "Lego", Price: &price})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].Name != "Lego" {
		t.Fatalf("items = %+v", dto.Items)
	}
}

func TestClaimAndRemoveItem(t *testing.T) {
	party := testParty()
	item := models.RegistryItem{ID: uuid.New(), Name: "Scooter"}
	registry := &models.GiftRegistry{ID: uuid.New(), PartyID: party.ID, Title: "Wishlist"}
	item.RegistryID = registry.ID
	registry.Items = []models.RegistryItem{item}
	svc := newTestService(t, newFakeRegistryRepo(registry), party)

	dto, err := svc.SetItemClaimed(context.Background(), party.UserID, party.ID, item.ID, true)
	if err != nil {
		t.Fatalf("SetItemClaimed: %v", err)
	}
	if !dto.Items[0].Claimed {
		t.Fatal("item not claimed")
	}

	dto, err = svc.RemoveItem(context.Background(), party.UserID, party.ID, item.ID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("items = %+v, want empty", dto.Items)
	}

	_, err = svc.RemoveItem(context.Background(), party.UserID, party.ID, item.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRegistryHiddenFromOtherUsers(t *testing.T) {
	party := testParty()
	registry := &models.GiftRegistry{ID: uuid.New(), PartyID: party.ID, Title: "Wishlist"}
	svc := newTestService(t, newFakeRegistryRepo(registry), party)

	_, err := svc.Get(context.Background(), uuid.New(), party.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
