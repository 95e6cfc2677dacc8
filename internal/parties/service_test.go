package parties

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/geocode"
)

type fakePartyRepo struct {
	parties map[uuid.UUID]*models.Party

	setBudgetCalls []*decimal.Decimal
	upsertCalls    []enums.SupplierCategory
	clearResult    bool
}

func newFakePartyRepo(parties ...*models.Party) *fakePartyRepo {
	repo := &fakePartyRepo{parties: map[uuid.UUID]*models.Party{}, clearResult: true}
	for _, party := range parties {
		repo.parties[party.ID] = party
	}
	return repo
}

func (f *fakePartyRepo) Create(_ context.Context, party *models.Party) error {
	if party.ID == uuid.Nil {
		party.ID = uuid.New()
	}
	f.parties[party.ID] = party
	return nil
}

func (f *fakePartyRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Party, error) {
	return f.parties[id], nil
}

func (f *fakePartyRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Party, error) {
	var out []models.Party
	for _, party := range f.parties {
		if party.UserID == userID {
			out = append(out, *party)
		}
	}
	return out, nil
}

func (f *fakePartyRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	party := f.parties[id]
	if name, ok := updates["child_name"].(string); ok {
		party.ChildName = name
	}
	if theme, ok := updates["theme"].(string); ok {
		party.Theme = theme
	}
	if count, ok := updates["guest_count"].(int); ok {
		party.GuestCount = count
	}
	if status, ok := updates["status"].(enums.PartyStatus); ok {
		party.Status = status
	}
	if postcode, ok := updates["postcode"].(string); ok {
		party.Postcode = postcode
	}
	if location, ok := updates["location"].(*string); ok {
		party.Location = location
	}
	return nil
}

func (f *fakePartyRepo) SetBudget(_ context.Context, id uuid.UUID, budget *decimal.Decimal) error {
	f.setBudgetCalls = append(f.setBudgetCalls, budget)
	f.parties[id].Budget = budget
	return nil
}

func (f *fakePartyRepo) UpsertSlot(_ context.Context, partyID uuid.UUID, category enums.SupplierCategory, supplierID uuid.UUID) (*models.SupplierSlot, error) {
	f.upsertCalls = append(f.upsertCalls, category)
	party := f.parties[partyID]
	for i := range party.Slots {
		if party.Slots[i].Category == category {
			party.Slots[i].SupplierID = supplierID
			return &party.Slots[i], nil
		}
	}
	slot := models.SupplierSlot{ID: uuid.New(), PartyID: partyID, Category: category, SupplierID: supplierID}
	party.Slots = append(party.Slots, slot)
	return &slot, nil
}

func (f *fakePartyRepo) ClearSlot(_ context.Context, partyID uuid.UUID, category enums.SupplierCategory) (bool, error) {
	if !f.clearResult {
		return false, nil
	}
	party := f.parties[partyID]
	for i := range party.Slots {
		if party.Slots[i].Category == category {
			party.Slots = append(party.Slots[:i], party.Slots[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeSupplierFinder struct {
	suppliers map[uuid.UUID]*models.Supplier
}

func (f *fakeSupplierFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Supplier, error) {
	return f.suppliers[id], nil
}

type fakeCoordinator struct {
	dispatched []uuid.UUID
	cancelled  []enums.SupplierCategory
}

func (f *fakeCoordinator) DispatchForSlot(_ context.Context, _ *models.Party, supplier *models.Supplier) error {
	f.dispatched = append(f.dispatched, supplier.ID)
	return nil
}

func (f *fakeCoordinator) CancelActive(_ context.Context, _ uuid.UUID, category enums.SupplierCategory) error {
	f.cancelled = append(f.cancelled, category)
	return nil
}

type fakeGeocoder struct {
	place *geocode.Place
	err   error
}

func (f *fakeGeocoder) Lookup(_ context.Context, _ string) (*geocode.Place, error) {
	return f.place, f.err
}

func approvedSupplier(category enums.SupplierCategory) *models.Supplier {
	ownerID := uuid.New()
	return &models.Supplier{
		ID:                 uuid.New(),
		UserID:             &ownerID,
		Category:           category,
		VerificationStatus: enums.VerificationStatusApproved,
	}
}

func planningParty(userID uuid.UUID) *models.Party {
	return &models.Party{
		ID:         uuid.New(),
		UserID:     userID,
		ChildName:  "Maya",
		Date:       time.Now().AddDate(0, 1, 0),
		GuestCount: 12,
		Postcode:   "SW1A1AA",
		Status:     enums.PartyStatusPlanning,
	}
}

func newTestService(t *testing.T, repo *fakePartyRepo, suppliers *fakeSupplierFinder, coordinator *fakeCoordinator, geocoder *fakeGeocoder) Service {
	t.Helper()
	if suppliers == nil {
		suppliers = &fakeSupplierFinder{suppliers: map[uuid.UUID]*models.Supplier{}}
	}
	if coordinator == nil {
		coordinator = &fakeCoordinator{}
	}
	params := ServiceParams{Repo: repo, Suppliers: suppliers, Enquiries: coordinator}
	if geocoder != nil {
		params.Geocoder = geocoder
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateNormalizesPostcodeAndResolvesLocation(t *testing.T) {
	repo := newFakePartyRepo()
	geo := &fakeGeocoder{place: &geocode.Place{Postcode: "SW1A1AA", District: "Westminster"}}
	svc := newTestService(t, repo, nil, nil, geo)

	dto, err := svc.Create(context.Background(), uuid.New(), CreatePartyDTO{
		ChildName:  "Maya",
		Date:       time.Now().AddDate(0, 2, 0),
		GuestCount: 10,
		Postcode:   " sw1a 1aa ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Postcode != "SW1A1AA" {
		t.Fatalf("postcode = %q, want SW1A1AA", dto.Postcode)
	}
	if dto.Location == nil || *dto.Location != "Westminster" {
		t.Fatalf("location = %v, want Westminster", dto.Location)
	}
	if dto.Status != enums.PartyStatusPlanning {
		t.Fatalf("status = %s, want planning", dto.Status)
	}
}

func TestCreateToleratesGeocodeFailure(t *testing.T) {
	repo := newFakePartyRepo()
	geo := &fakeGeocoder{err: pkgerrors.New(pkgerrors.CodeDependency, "postcode lookup unavailable")}
	svc := newTestService(t, repo, nil, nil, geo)

	dto, err := svc.Create(context.Background(), uuid.New(), CreatePartyDTO{
		ChildName: "Maya",
		Date:      time.Now().AddDate(0, 2, 0),
		Postcode:  "SW1A 1AA",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Location != nil {
		t.Fatalf("location = %v, want nil", dto.Location)
	}
}

func TestCreateRejectsNonPositiveBudget(t *testing.T) {
	repo := newFakePartyRepo()
	svc := newTestService(t, repo, nil, nil, nil)

	zero := decimal.Zero
	_, err := svc.Create(context.Background(), uuid.New(), CreatePartyDTO{
		ChildName: "Maya",
		Date:      time.Now().AddDate(0, 2, 0),
		Postcode:  "SW1A 1AA",
		Budget:    &zero,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestGetHidesOtherUsersParties(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	svc := newTestService(t, newFakePartyRepo(party), nil, nil, nil)

	if _, err := svc.Get(context.Background(), owner, party.ID); err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	_, err := svc.Get(context.Background(), uuid.New(), party.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUpdateRejectsCancelledParty(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	party.Status = enums.PartyStatusCancelled
	svc := newTestService(t, newFakePartyRepo(party), nil, nil, nil)

	theme := "dinosaurs"
	_, err := svc.Update(context.Background(), owner, party.ID, UpdatePartyDTO{Theme: &theme})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want state conflict", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	svc := newTestService(t, newFakePartyRepo(party), nil, nil, nil)

	theme := "space"
	count := 20
	dto, err := svc.Update(context.Background(), owner, party.ID, UpdatePartyDTO{Theme: &theme, GuestCount: &count})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if dto.Theme != "space" || dto.GuestCount != 20 {
		t.Fatalf("got theme %q count %d", dto.Theme, dto.GuestCount)
	}
	if dto.ChildName != "Maya" {
		t.Fatalf("child name changed to %q", dto.ChildName)
	}
}

func TestSetBudgetAndClear(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	repo := newFakePartyRepo(party)
	svc := newTestService(t, repo, nil, nil, nil)

	budget := decimal.NewFromInt(500)
	dto, err := svc.SetBudget(context.Background(), owner, party.ID, &budget)
	if err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	if dto.Budget == nil || !dto.Budget.Equal(budget) {
		t.Fatalf("budget = %v, want 500", dto.Budget)
	}

	dto, err = svc.SetBudget(context.Background(), owner, party.ID, nil)
	if err != nil {
		t.Fatalf("clear budget: %v", err)
	}
	if dto.Budget != nil {
		t.Fatalf("budget = %v, want nil", dto.Budget)
	}

	negative := decimal.NewFromInt(-10)
	_, err = svc.SetBudget(context.Background(), owner, party.ID, &negative)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestFillSlotDispatchesEnquiry(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	supplier := approvedSupplier(enums.CategoryVenue)
	repo := newFakePartyRepo(party)
	finder := &fakeSupplierFinder{suppliers: map[uuid.UUID]*models.Supplier{supplier.ID: supplier}}
	coordinator := &fakeCoordinator{}
	svc := newTestService(t, repo, finder, coordinator, nil)

	dto, err := svc.FillSlot(context.Background(), owner, party.ID, enums.CategoryVenue, supplier.ID)
	if err != nil {
		t.Fatalf("FillSlot: %v", err)
	}
	if len(dto.Slots) != 1 || dto.Slots[0].SupplierID != supplier.ID {
		t.Fatalf("slots = %+v", dto.Slots)
	}
	if len(coordinator.dispatched) != 1 || coordinator.dispatched[0] != supplier.ID {
		t.Fatalf("dispatched = %v", coordinator.dispatched)
	}
	if len(coordinator.cancelled) != 0 {
		t.Fatalf("cancelled = %v, want none on first fill", coordinator.cancelled)
	}
}

func TestFillSlotReplacingSupplierCancelsOldEnquiry(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	previous := approvedSupplier(enums.CategoryVenue)
	party.Slots = []models.SupplierSlot{{
		ID:         uuid.New(),
		PartyID:    party.ID,
		Category:   enums.CategoryVenue,
		SupplierID: previous.ID,
	}}
	replacement := approvedSupplier(enums.CategoryVenue)
	repo := newFakePartyRepo(party)
	finder := &fakeSupplierFinder{suppliers: map[uuid.UUID]*models.Supplier{replacement.ID: replacement}}
	coordinator := &fakeCoordinator{}
	svc := newTestService(t, repo, finder, coordinator, nil)

	if _, err := svc.FillSlot(context.Background(), owner, party.ID, enums.CategoryVenue, replacement.ID); err != nil {
		t.Fatalf("FillSlot: %v", err)
	}
	if len(coordinator.cancelled) != 1 || coordinator.cancelled[0] != enums.CategoryVenue {
		t.Fatalf("cancelled = %v, want [venue]", coordinator.cancelled)
	}
	if len(coordinator.dispatched) != 1 || coordinator.dispatched[0] != replacement.ID {
		t.Fatalf("dispatched = %v", coordinator.dispatched)
	}
}

func TestFillSlotRejectsUnverifiedSupplier(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	supplier := approvedSupplier(enums.CategoryVenue)
	supplier.VerificationStatus = enums.VerificationStatusPending
	repo := newFakePartyRepo(party)
	finder := &fakeSupplierFinder{suppliers: map[uuid.UUID]*models.Supplier{supplier.ID: supplier}}
	svc := newTestService(t, repo, finder, nil, nil)

	_, err := svc.FillSlot(context.Background(), owner, party.ID, enums.CategoryVenue, supplier.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestFillSlotRejectsEInvitesCategory(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	supplier := approvedSupplier(enums.CategoryEInvites)
	repo := newFakePartyRepo(party)
	finder := &fakeSupplierFinder{suppliers: map[uuid.UUID]*models.Supplier{supplier.ID: supplier}}
	svc := newTestService(t, repo, finder, nil, nil)

	_, err := svc.FillSlot(context.Background(), owner, party.ID, enums.CategoryEInvites, supplier.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestClearSlotCancelsEnquiry(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	party.Slots = []models.SupplierSlot{{
		ID:         uuid.New(),
		PartyID:    party.ID,
		Category:   enums.CategoryCakes,
		SupplierID: uuid.New(),
	}}
	repo := newFakePartyRepo(party)
	coordinator := &fakeCoordinator{}
	svc := newTestService(t, repo, nil, coordinator, nil)

	dto, err := svc.ClearSlot(context.Background(), owner, party.ID, enums.CategoryCakes)
	if err != nil {
		t.Fatalf("ClearSlot: %v", err)
	}
	if len(dto.Slots) != 0 {
		t.Fatalf("slots = %+v, want empty", dto.Slots)
	}
	if len(coordinator.cancelled) != 1 || coordinator.cancelled[0] != enums.CategoryCakes {
		t.Fatalf("cancelled = %v", coordinator.cancelled)
	}
}

func TestClearSlotMissingReturnsNotFound(t *testing.T) {
	owner := uuid.New()
	party := planningParty(owner)
	svc := newTestService(t, newFakePartyRepo(party), nil, nil, nil)

	_, err := svc.ClearSlot(context.Background(), owner, party.ID, enums.CategoryBalloons)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
