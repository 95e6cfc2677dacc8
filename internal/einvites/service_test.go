package einvites

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

type fakeEInviteRepo struct {
	byParty map[uuid.UUID]*models.EInvite
}

func newFakeEInviteRepo(einvites ...*models.EInvite) *fakeEInviteRepo {
	repo := &fakeEInviteRepo{byParty: map[uuid.UUID]*models.EInvite{}}
	for _, einvite := range einvites {
		repo.byParty[einvite.PartyID] = einvite
	}
	return repo
}

func (f *fakeEInviteRepo) Create(_ context.Context, einvite *models.EInvite) error {
	if einvite.ID == uuid.Nil {
		einvite.ID = uuid.New()
	}
	f.byParty[einvite.PartyID] = einvite
	return nil
}

func (f *fakeEInviteRepo) FindByParty(_ context.Context, partyID uuid.UUID) (*models.EInvite, error) {
	return f.byParty[partyID], nil
}

func (f *fakeEInviteRepo) FindBySlug(_ context.Context, slug string) (*models.EInvite, error) {
	for _, einvite := range f.byParty {
		if einvite.Slug == slug {
			return einvite, nil
		}
	}
	return nil, nil
}

func (f *fakeEInviteRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	for _, einvite := range f.byParty {
		if einvite.ID != id {
			continue
		}
		if theme, ok := updates["theme"].(string); ok {
			einvite.Theme = theme
		}
		if message, ok := updates["message"].(*string); ok {
			einvite.Message = message
		}
	}
	return nil
}

type fakePartyFinder struct {
	parties map[uuid.UUID]*models.Party
}

func (f *fakePartyFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Party, error) {
	return f.parties[id], nil
}

type fakeEnquiryLister struct {
	enquiries []models.Enquiry
}

func (f *fakeEnquiryLister) ListActiveByParty(_ context.Context, _ uuid.UUID) ([]models.Enquiry, error) {
	return f.enquiries, nil
}

func confirmedVenueParty() (*models.Party, []models.Enquiry) {
	party := &models.Party{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ChildName: "Maya Rose",
		Date:      time.Now().AddDate(0, 1, 0),
		Status:    enums.PartyStatusPlanning,
	}
	party.Slots = []models.SupplierSlot{{
		ID:         uuid.New(),
		PartyID:    party.ID,
		Category:   enums.CategoryVenue,
		SupplierID: uuid.New(),
	}}
	enquiries := []models.Enquiry{{
		ID:         uuid.New(),
		PartyID:    party.ID,
		SupplierID: party.Slots[0].SupplierID,
		Category:   enums.CategoryVenue,
		Status:     enums.EnquiryStatusAccepted,
		Active:     true,
	}}
	return party, enquiries
}

func newTestService(t *testing.T, repo *fakeEInviteRepo, enquiries []models.Enquiry, parties ...*models.Party) Service {
	t.Helper()
	finder := &fakePartyFinder{parties: map[uuid.UUID]*models.Party{}}
	for _, party := range parties {
		finder.parties[party.ID] = party
	}
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Parties:   finder,
		Enquiries: &fakeEnquiryLister{enquiries: enquiries},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateRequiresConfirmedVenue(t *testing.T) {
	party, enquiries := confirmedVenueParty()
	enquiries[0].Status = enums.EnquiryStatusPending
	svc := newTestService(t, newFakeEInviteRepo(), enquiries, party)

	_, err := svc.Create(context.Background(), party.UserID, party.ID, CreateEInviteDTO{Theme: "unicorns"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want state conflict", err)
	}
}

func TestCreateRejectsAutoAcceptedVenue(t *testing.T) {
	party, enquiries := confirmedVenueParty()
	enquiries[0].AutoAccepted = true
	svc := newTestService(t, newFakeEInviteRepo(), enquiries, party)

	_, err := svc.Create(context.Background(), party.UserID, party.ID, CreateEInviteDTO{Theme: "unicorns"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want state conflict", err)
	}
}

func TestCreateGeneratesSlugFromChildName(t *testing.T) {
	party, enquiries := confirmedVenueParty()
	svc := newTestService(t, newFakeEInviteRepo(), enquiries, party)

	dto, err := svc.Create(context.Background(), party.UserID, party.ID, CreateEInviteDTO{Theme: "unicorns"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(dto.Slug, "maya-rose-") {
		t.Fatalf("slug = %q, want maya-rose- prefix", dto.Slug)
	}
	if len(dto.Slug) != len("maya-rose-")+8 {
		t.Fatalf("slug = %q, want 8 char suffix", dto.Slug)
	}
}

func TestCreateOncePerParty(t *testing.T) {
	party, enquiries := confirmedVenueParty()
	existing := &models.EInvite{ID: uuid.New(), PartyID: party.ID, Slug: "maya-rose-deadbeef", Theme: "space"}
	svc := newTestService(t, newFakeEInviteRepo(existing), enquiries, party)

	_, err := svc.Create(context.Background(), party.UserID, party.ID, CreateEInviteDTO{Theme: "unicorns"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestPublicViewExposesInvitationOnly(t *testing.T) {
	party, enquiries := confirmedVenueParty()
	location := "Westminster"
	party.Location = &location
	einvite := &models.EInvite{ID: uuid.New(), PartyID: party.ID, Slug: "maya-rose-deadbeef", Theme: "unicorns"}
	svc := newTestService(t, newFakeEInviteRepo(einvite), enquiries, party)

	dto, err := svc.PublicView(context.Background(), "maya-rose-deadbeef")
	if err != nil {
		t.Fatalf("PublicView: %v", err)
	}
	if dto.ChildName != "Maya Rose" || dto.Theme != "unicorns" {
		t.Fatalf("got %+v", dto)
	}
	if dto.Location == nil || *dto.Location != "Westminster" {
		t.Fatalf("location = %v", dto.Location)
	}

	_, err = svc.PublicView(context.Background(), "unknown-slug")
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUpdateTheme(t *testing.T) {
	party, enquiries := confirmedVenueParty()
	einvite := &models.EInvite{ID: uuid.New(), PartyID: party.ID, Slug: "maya-rose-deadbeef", Theme: "space"}
	svc := newTestService(t, newFakeEInviteRepo(einvite), enquiries, party)

	theme := "unicorns"
	dto, err := svc.Update(context.Background(), party.UserID, party.ID, UpdateEInviteDTO{Theme: &theme})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if dto.Theme != "unicorns" {
		t.Fatalf("theme = %q", dto.Theme)
	}
	if dto.Slug != "maya-rose-deadbeef" {
		t.Fatalf("slug changed to %q", dto.Slug)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Maya Rose", "maya-rose"},
		{"  Olly!  ", "olly"},
		{"Zoë & Finn", "zoë-finn"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.input); got != tc.want {
			t.Fatalf("slugify(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
