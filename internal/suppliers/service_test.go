package suppliers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/internal/notifications"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/pagination"
)

type fakeSupplierRepo struct {
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	findByUserFn   func(ctx context.Context, userID uuid.UUID) (*models.Supplier, error)
	listFn         func(ctx context.Context, params listSuppliersParams) ([]models.Supplier, *pagination.Cursor, error)
	verificationFn func(ctx context.Context, id uuid.UUID, from []enums.VerificationStatus, to enums.VerificationStatus, note *string, at *time.Time) (bool, error)
}

func (f *fakeSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSupplierRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error) {
	if f.findByUserFn != nil {
		return f.findByUserFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSupplierRepo) List(ctx context.Context, params listSuppliersParams) ([]models.Supplier, *pagination.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeSupplierRepo) UpdateVerification(ctx context.Context, id uuid.UUID, from []enums.VerificationStatus, to enums.VerificationStatus, note *string, at *time.Time) (bool, error) {
	if f.verificationFn != nil {
		return f.verificationFn(ctx, id, from, to, note, at)
	}
	return true, nil
}

type fakeNotifier struct {
	sent []notifications.NotifyParams
}

func (f *fakeNotifier) Notify(ctx context.Context, params notifications.NotifyParams) (*models.Notification, error) {
	f.sent = append(f.sent, params)
	return &models.Notification{}, nil
}

func pendingSupplier(userID uuid.UUID) *models.Supplier {
	return &models.Supplier{
		ID:                 uuid.New(),
		UserID:             &userID,
		Name:               "The Fun Barn",
		Category:           enums.CategoryVenue,
		Email:              "host@funbarn.example",
		Postcode:           "SW1A1AA",
		VerificationStatus: enums.VerificationStatusPending,
	}
}

func TestService_DirectoryOnlyApproved(t *testing.T) {
	var captured listSuppliersParams
	repo := &fakeSupplierRepo{
		listFn: func(ctx context.Context, params listSuppliersParams) ([]models.Supplier, *pagination.Cursor, error) {
			captured = params
			return []models.Supplier{*pendingSupplier(uuid.New())}, nil, nil
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Directory(context.Background(), DirectoryParams{Category: enums.CategoryVenue, Postcode: "sw1a"})
	if err != nil {
		t.Fatalf("unexpected directory error: %v", err)
	}
	if len(captured.Statuses) != 1 || captured.Statuses[0] != enums.VerificationStatusApproved {
		t.Fatalf("directory must filter to approved, got %v", captured.Statuses)
	}
	if captured.Postcode != "SW1A" {
		t.Fatalf("postcode not normalized: %q", captured.Postcode)
	}
	if len(result.Items) != 1 || result.Items[0].Label != "Venue" {
		t.Fatalf("unexpected items %+v", result.Items)
	}
}

func TestService_DirectoryRejectsUnknownCategory(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &fakeSupplierRepo{}})
	_, err := svc.Directory(context.Background(), DirectoryParams{Category: "unicorns"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_GetHidesUnapproved(t *testing.T) {
	supplier := pendingSupplier(uuid.New())
	repo := &fakeSupplierRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
			return supplier, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.Get(context.Background(), supplier.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for pending supplier, got %v", err)
	}
}

func TestService_SubmitForReview(t *testing.T) {
	userID := uuid.New()
	supplier := pendingSupplier(userID)
	supplier.VerificationStatus = enums.VerificationStatusUnverified

	repo := &fakeSupplierRepo{
		findByUserFn: func(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
			return supplier, nil
		},
		verificationFn: func(ctx context.Context, id uuid.UUID, from []enums.VerificationStatus, to enums.VerificationStatus, note *string, at *time.Time) (bool, error) {
			if to != enums.VerificationStatusPending {
				t.Fatalf("unexpected target status %s", to)
			}
			return true, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	result, err := svc.SubmitForReview(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}
	if result.VerificationStatus != enums.VerificationStatusPending {
		t.Fatalf("unexpected status %s", result.VerificationStatus)
	}
}

func TestService_SubmitForReviewConflict(t *testing.T) {
	userID := uuid.New()
	supplier := pendingSupplier(userID)
	supplier.VerificationStatus = enums.VerificationStatusApproved

	repo := &fakeSupplierRepo{
		findByUserFn: func(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
			return supplier, nil
		},
		verificationFn: func(ctx context.Context, id uuid.UUID, from []enums.VerificationStatus, to enums.VerificationStatus, note *string, at *time.Time) (bool, error) {
			return false, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.SubmitForReview(context.Background(), userID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestService_ReviewApprove(t *testing.T) {
	userID := uuid.New()
	supplier := pendingSupplier(userID)
	notifier := &fakeNotifier{}
	repo := &fakeSupplierRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
			return supplier, nil
		},
		verificationFn: func(ctx context.Context, id uuid.UUID, from []enums.VerificationStatus, to enums.VerificationStatus, note *string, at *time.Time) (bool, error) {
			if to != enums.VerificationStatusApproved {
				t.Fatalf("unexpected target %s", to)
			}
			if at == nil {
				t.Fatal("expected verified_at to be set on approval")
			}
			return true, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo, Notifier: notifier})

	result, err := svc.Review(context.Background(), ReviewParams{SupplierID: supplier.ID, Approve: true})
	if err != nil {
		t.Fatalf("unexpected review error: %v", err)
	}
	if result.VerificationStatus != enums.VerificationStatusApproved {
		t.Fatalf("unexpected status %s", result.VerificationStatus)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].UserID != userID || notifier.sent[0].Type != enums.NotificationTypeVerification {
		t.Fatalf("unexpected notifications %+v", notifier.sent)
	}
}

func TestService_ReviewRejectRequiresNote(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &fakeSupplierRepo{}})
	_, err := svc.Review(context.Background(), ReviewParams{SupplierID: uuid.New(), Approve: false})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
