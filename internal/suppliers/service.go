package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/internal/notifications"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/pagination"
	"github.com/partysnap/partysnap-backend/pkg/visibility"
)

// Service exposes the public directory and the admin verification workflow.
type Service interface {
	Directory(ctx context.Context, params DirectoryParams) (*DirectoryResult, error)
	Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	SubmitForReview(ctx context.Context, userID uuid.UUID) (*AdminSupplierDTO, error)
	ReviewQueue(ctx context.Context, params ReviewQueueParams) (*ReviewQueueResult, error)
	Review(ctx context.Context, params ReviewParams) (*AdminSupplierDTO, error)
}

type supplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, params listSuppliersParams) ([]models.Supplier, *pagination.Cursor, error)
	UpdateVerification(ctx context.Context, id uuid.UUID, from []enums.VerificationStatus, to enums.VerificationStatus, note *string, at *time.Time) (bool, error)
}

type notifier interface {
	Notify(ctx context.Context, params notifications.NotifyParams) (*models.Notification, error)
}

type service struct {
	repo     supplierRepository
	notifier notifier
}

// ServiceParams bundles supplier service dependencies.
type ServiceParams struct {
	Repo     supplierRepository
	Notifier notifier
}

// NewService wires the supplier service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("supplier repository is required")
	}
	return &service{repo: params.Repo, notifier: params.Notifier}, nil
}

// DirectoryParams filters the public supplier directory.
type DirectoryParams struct {
	Category enums.SupplierCategory
	Postcode string
	Cursor   string
	Limit    int
}

// DirectoryResult is one page of approved suppliers.
type DirectoryResult struct {
	Items  []SupplierDTO `json:"items"`
	Cursor string        `json:"cursor"`
}

// ReviewQueueParams pages through suppliers awaiting verification.
type ReviewQueueParams struct {
	Cursor string
	Limit  int
}

// ReviewQueueResult is one page of the admin review queue.
type ReviewQueueResult struct {
	Items  []AdminSupplierDTO `json:"items"`
	Cursor string             `json:"cursor"`
}

// ReviewParams carries an admin's verification decision.
type ReviewParams struct {
	SupplierID uuid.UUID
	Approve    bool
	Note       *string
}

func (s *service) Directory(ctx context.Context, params DirectoryParams) (*DirectoryResult, error) {
	if params.Category != "" && !params.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", params.Category))
	}

	query := listSuppliersParams{
		Category: params.Category,
		Postcode: visibility.NormalizePostcode(params.Postcode),
		Statuses: []enums.VerificationStatus{enums.VerificationStatusApproved},
		Limit:    params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}

	items := make([]SupplierDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &DirectoryResult{Items: items, Cursor: cursor}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if supplier.VerificationStatus != enums.VerificationStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return FromModel(supplier), nil
}

func (s *service) SubmitForReview(ctx context.Context, userID uuid.UUID) (*AdminSupplierDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	supplier, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no listing for this account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}

	from := []enums.VerificationStatus{enums.VerificationStatusUnverified, enums.VerificationStatusRejected}
	moved, err := s.repo.UpdateVerification(ctx, supplier.ID, from, enums.VerificationStatusPending, nil, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit for review")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("listing is already %s", supplier.VerificationStatus))
	}

	supplier.VerificationStatus = enums.VerificationStatusPending
	supplier.VerificationNote = nil
	return adminFromModel(supplier), nil
}

func (s *service) ReviewQueue(ctx context.Context, params ReviewQueueParams) (*ReviewQueueResult, error) {
	query := listSuppliersParams{
		Statuses: []enums.VerificationStatus{enums.VerificationStatusPending},
		Limit:    params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list review queue")
	}

	items := make([]AdminSupplierDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *adminFromModel(&rows[i]))
	}
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ReviewQueueResult{Items: items, Cursor: cursor}, nil
}

func (s *service) Review(ctx context.Context, params ReviewParams) (*AdminSupplierDTO, error) {
	if params.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if !params.Approve {
		note := ""
		if params.Note != nil {
			note = strings.TrimSpace(*params.Note)
		}
		if note == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a rejection note is required")
		}
	}

	supplier, err := s.repo.FindByID(ctx, params.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}

	target := enums.VerificationStatusRejected
	var verifiedAt *time.Time
	if params.Approve {
		target = enums.VerificationStatusApproved
		now := time.Now().UTC()
		verifiedAt = &now
	}

	from := []enums.VerificationStatus{enums.VerificationStatusPending}
	moved, err := s.repo.UpdateVerification(ctx, supplier.ID, from, target, params.Note, verifiedAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record review decision")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("listing is %s, not pending review", supplier.VerificationStatus))
	}

	supplier.VerificationStatus = target
	supplier.VerificationNote = params.Note
	supplier.VerifiedAt = verifiedAt

	if s.notifier != nil && supplier.UserID != nil {
		title := "Your listing was approved"
		message := fmt.Sprintf("%s is now live in the %s directory.", supplier.Name, supplier.Category.Label())
		if !params.Approve {
			title = "Your listing needs changes"
			message = fmt.Sprintf("%s was not approved: %s", supplier.Name, *params.Note)
		}
		if _, err := s.notifier.Notify(ctx, notifications.NotifyParams{
			UserID:  *supplier.UserID,
			Type:    enums.NotificationTypeVerification,
			Title:   title,
			Message: message,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify supplier")
		}
	}

	return adminFromModel(supplier), nil
}
