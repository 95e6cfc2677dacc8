package enquiries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/internal/notifications"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/pagination"
	"github.com/partysnap/partysnap-backend/pkg/postmark"
)

// Service drives the enquiry lifecycle from dispatch through supplier
// response and payment settlement.
type Service interface {
	DispatchForSlot(ctx context.Context, party *models.Party, supplier *models.Supplier) error
	CancelActive(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory) error
	ListForParty(ctx context.Context, userID, partyID uuid.UUID) ([]EnquiryDTO, error)
	SupplierInbox(ctx context.Context, params SupplierInboxParams) ([]EnquiryDTO, string, error)
	Respond(ctx context.Context, supplierID, enquiryID uuid.UUID, dto RespondDTO) (*EnquiryDTO, error)
	UpdatePayment(ctx context.Context, enquiryID uuid.UUID, status enums.EnquiryPaymentStatus, finalPrice *decimal.Decimal) (*EnquiryDTO, error)
	AddAddon(ctx context.Context, userID, enquiryID uuid.UUID, dto CreateAddonDTO) (*EnquiryDTO, error)
	RemoveAddon(ctx context.Context, userID, enquiryID, addonID uuid.UUID) error
}

// SupplierInboxParams pages through a supplier's incoming enquiries.
type SupplierInboxParams struct {
	SupplierID uuid.UUID
	Status     *enums.EnquiryStatus
	Limit      int
	Cursor     string
}

type enquiryRepository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Enquiry, error)
	ListActiveByParty(ctx context.Context, partyID uuid.UUID) ([]models.Enquiry, error)
	ListBySupplier(ctx context.Context, params listSupplierEnquiriesParams) ([]models.Enquiry, *pagination.Cursor, error)
	DeactivateActive(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory) (bool, error)
	Respond(ctx context.Context, id uuid.UUID, to enums.EnquiryStatus, quotedPrice *decimal.Decimal, message *string, at time.Time) (bool, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status enums.EnquiryPaymentStatus, finalPrice *decimal.Decimal) error
	CreateAddon(ctx context.Context, addon *models.EnquiryAddon) error
	DeleteAddon(ctx context.Context, enquiryID, addonID uuid.UUID) (bool, error)
}

type partyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
}

type supplierDirectory interface {
	FindApprovedAlternative(ctx context.Context, category enums.SupplierCategory, excludeID uuid.UUID) (*models.Supplier, error)
}

// slotWriter updates the party plan when a declined enquiry is backfilled
// with an alternative supplier.
type slotWriter interface {
	UpsertSlot(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory, supplierID uuid.UUID) (*models.SupplierSlot, error)
}

type notifier interface {
	Notify(ctx context.Context, params notifications.NotifyParams) (*models.Notification, error)
}

type service struct {
	repo      enquiryRepository
	parties   partyFinder
	suppliers supplierDirectory
	slots     slotWriter
	notifier  notifier
	mailer    postmark.Sender
}

// ServiceParams wires Service dependencies. Notifier and Mailer are
// optional; without them state changes still land, just silently.
type ServiceParams struct {
	Repo      enquiryRepository
	Parties   partyFinder
	Suppliers supplierDirectory
	Slots     slotWriter
	Notifier  notifier
	Mailer    postmark.Sender
}

// NewService builds the enquiry service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("enquiry repository is required")
	}
	if params.Parties == nil {
		return nil, fmt.Errorf("party repository is required")
	}
	if params.Suppliers == nil {
		return nil, fmt.Errorf("supplier repository is required")
	}
	if params.Slots == nil {
		return nil, fmt.Errorf("slot writer is required")
	}
	return &service{
		repo:      params.Repo,
		parties:   params.Parties,
		suppliers: params.Suppliers,
		slots:     params.Slots,
		notifier:  params.Notifier,
		mailer:    params.Mailer,
	}, nil
}

func (s *service) DispatchForSlot(ctx context.Context, party *models.Party, supplier *models.Supplier) error {
	if party == nil || supplier == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "party and supplier are required")
	}

	// Keeps the one-active-enquiry-per-category invariant when a slot is
	// refilled with the same supplier.
	if _, err := s.repo.DeactivateActive(ctx, party.ID, supplier.Category); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "retire previous enquiry")
	}

	enquiry := &models.Enquiry{
		PartyID:       party.ID,
		SupplierID:    supplier.ID,
		Category:      supplier.Category,
		Status:        enums.EnquiryStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
		Active:        true,
	}
	if supplier.InstantBook {
		enquiry.Status = enums.EnquiryStatusAccepted
		enquiry.AutoAccepted = true
	}
	if err := s.repo.Create(ctx, enquiry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create enquiry")
	}

	s.emailSupplier(ctx, supplier, party)
	if enquiry.AutoAccepted {
		s.notify(ctx, party.UserID, notifications.NotifyParams{
			Type:    enums.NotificationTypeEnquiryAccepted,
			Title:   fmt.Sprintf("%s booked instantly", supplier.Name),
			Message: fmt.Sprintf("%s accepted your %s enquiry automatically. They will confirm the details shortly.", supplier.Name, supplier.Category.Label()),
		})
	}
	return nil
}

func (s *service) CancelActive(ctx context.Context, partyID uuid.UUID, category enums.SupplierCategory) error {
	if _, err := s.repo.DeactivateActive(ctx, partyID, category); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "retire enquiry")
	}
	return nil
}

func (s *service) ListForParty(ctx context.Context, userID, partyID uuid.UUID) ([]EnquiryDTO, error) {
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

	enquiries, err := s.repo.ListActiveByParty(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list enquiries")
	}
	dtos := make([]EnquiryDTO, 0, len(enquiries))
	for i := range enquiries {
		dtos = append(dtos, *FromModel(&enquiries[i]))
	}
	return dtos, nil
}

func (s *service) SupplierInbox(ctx context.Context, params SupplierInboxParams) ([]EnquiryDTO, string, error) {
	if params.SupplierID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	repoParams := listSupplierEnquiriesParams{
		SupplierID: params.SupplierID,
		Limit:      params.Limit,
	}
	if params.Status != nil {
		if !params.Status.IsValid() {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown enquiry status %q", *params.Status))
		}
		repoParams.Statuses = []enums.EnquiryStatus{*params.Status}
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		repoParams.Cursor = cursor
	}

	enquiries, next, err := s.repo.ListBySupplier(ctx, repoParams)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list enquiries")
	}
	dtos := make([]EnquiryDTO, 0, len(enquiries))
	for i := range enquiries {
		dtos = append(dtos, *FromModel(&enquiries[i]))
	}
	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return dtos, nextCursor, nil
}

func (s *service) Respond(ctx context.Context, supplierID, enquiryID uuid.UUID, dto RespondDTO) (*EnquiryDTO, error) {
	enquiry, err := s.ownedEnquiry(ctx, supplierID, enquiryID)
	if err != nil {
		return nil, err
	}
	if !responseOpen(enquiry) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "enquiry already answered")
	}

	status := enums.EnquiryStatusDeclined
	if dto.Accept {
		status = enums.EnquiryStatusAccepted
		if dto.QuotedPrice != nil && !dto.QuotedPrice.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quoted price must be greater than zero")
		}
	}

	now := time.Now().UTC()
	moved, err := s.repo.Respond(ctx, enquiry.ID, status, dto.QuotedPrice, trimmed(dto.Message), now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "respond to enquiry")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "enquiry already answered")
	}

	party, err := s.parties.FindByID(ctx, enquiry.PartyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load party")
	}
	if dto.Accept {
		s.notifyAccepted(ctx, party, enquiry)
	} else {
		s.handleDecline(ctx, party, enquiry)
	}

	updated, err := s.repo.FindByID(ctx, enquiry.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload enquiry")
	}
	return FromModel(updated), nil
}

func (s *service) UpdatePayment(ctx context.Context, enquiryID uuid.UUID, status enums.EnquiryPaymentStatus, finalPrice *decimal.Decimal) (*EnquiryDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment status %q", status))
	}
	enquiry, err := s.repo.FindByID(ctx, enquiryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load enquiry")
	}
	if enquiry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found")
	}
	if status != enums.PaymentStatusUnpaid && enquiry.Status != enums.EnquiryStatusAccepted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only accepted enquiries can be paid")
	}

	if err := s.repo.SetPaymentStatus(ctx, enquiry.ID, status, finalPrice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set payment status")
	}

	if status.IsSettled() && !enquiry.PaymentStatus.IsSettled() {
		if party, err := s.parties.FindByID(ctx, enquiry.PartyID); err == nil && party != nil {
			s.notify(ctx, party.UserID, notifications.NotifyParams{
				Type:    enums.NotificationTypePaymentReceived,
				Title:   fmt.Sprintf("Payment received for %s", enquiry.Category.Label()),
				Message: "Your booking payment went through.",
			})
		}
	}

	updated, err := s.repo.FindByID(ctx, enquiry.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload enquiry")
	}
	return FromModel(updated), nil
}

func (s *service) AddAddon(ctx context.Context, userID, enquiryID uuid.UUID, dto CreateAddonDTO) (*EnquiryDTO, error) {
	enquiry, err := s.parentEnquiry(ctx, userID, enquiryID)
	if err != nil {
		return nil, err
	}
	if enquiry.PaymentStatus.IsSettled() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "paid enquiries cannot be changed")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "add-on name is required")
	}
	if !dto.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "add-on price must be greater than zero")
	}

	addon := &models.EnquiryAddon{
		EnquiryID:  enquiry.ID,
		SupplierID: dto.SupplierID,
		Category:   trimmed(dto.Category),
		Name:       strings.TrimSpace(dto.Name),
		Price:      dto.Price,
	}
	if err := s.repo.CreateAddon(ctx, addon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create add-on")
	}

	updated, err := s.repo.FindByID(ctx, enquiry.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload enquiry")
	}
	return FromModel(updated), nil
}

func (s *service) RemoveAddon(ctx context.Context, userID, enquiryID, addonID uuid.UUID) error {
	enquiry, err := s.parentEnquiry(ctx, userID, enquiryID)
	if err != nil {
		return err
	}
	if enquiry.PaymentStatus.IsSettled() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "paid enquiries cannot be changed")
	}

	deleted, err := s.repo.DeleteAddon(ctx, enquiry.ID, addonID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete add-on")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "add-on not found")
	}
	return nil
}

// handleDecline notifies the parent and, when another approved supplier
// exists in the category, backfills the slot with a fresh enquiry.
func (s *service) handleDecline(ctx context.Context, party *models.Party, enquiry *models.Enquiry) {
	if party == nil {
		return
	}
	label := enquiry.Category.Label()

	alternative, err := s.suppliers.FindApprovedAlternative(ctx, enquiry.Category, enquiry.SupplierID)
	if err != nil || alternative == nil {
		s.notify(ctx, party.UserID, notifications.NotifyParams{
			Type:    enums.NotificationTypeEnquiryDeclined,
			Title:   fmt.Sprintf("%s enquiry declined", label),
			Message: fmt.Sprintf("Your %s enquiry was declined. Pick another supplier to keep planning.", label),
		})
		return
	}

	if _, err := s.repo.DeactivateActive(ctx, party.ID, enquiry.Category); err != nil {
		return
	}
	if _, err := s.slots.UpsertSlot(ctx, party.ID, enquiry.Category, alternative.ID); err != nil {
		return
	}
	replacement := &models.Enquiry{
		PartyID:       party.ID,
		SupplierID:    alternative.ID,
		Category:      enquiry.Category,
		Status:        enums.EnquiryStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
		Active:        true,
	}
	if alternative.InstantBook {
		replacement.Status = enums.EnquiryStatusAccepted
		replacement.AutoAccepted = true
	}
	if err := s.repo.Create(ctx, replacement); err != nil {
		return
	}

	s.emailSupplier(ctx, alternative, party)
	s.notify(ctx, party.UserID, notifications.NotifyParams{
		Type:    enums.NotificationTypeSupplierReplaced,
		Title:   fmt.Sprintf("New %s supplier suggested", label),
		Message: fmt.Sprintf("Your %s enquiry was declined, so we sent one to %s instead.", label, alternative.Name),
	})
}

func (s *service) notifyAccepted(ctx context.Context, party *models.Party, enquiry *models.Enquiry) {
	if party == nil {
		return
	}
	label := enquiry.Category.Label()
	s.notify(ctx, party.UserID, notifications.NotifyParams{
		Type:    enums.NotificationTypeEnquiryAccepted,
		Title:   fmt.Sprintf("%s confirmed", label),
		Message: fmt.Sprintf("Your %s supplier accepted the enquiry.", label),
	})
}

// ownedEnquiry loads an active enquiry addressed to the given supplier.
func (s *service) ownedEnquiry(ctx context.Context, supplierID, enquiryID uuid.UUID) (*models.Enquiry, error) {
	if supplierID == uuid.Nil || enquiryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id and enquiry id are required")
	}
	enquiry, err := s.repo.FindByID(ctx, enquiryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load enquiry")
	}
	if enquiry == nil || enquiry.SupplierID != supplierID || !enquiry.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found")
	}
	return enquiry, nil
}

// parentEnquiry loads an active enquiry on a party owned by the given user.
func (s *service) parentEnquiry(ctx context.Context, userID, enquiryID uuid.UUID) (*models.Enquiry, error) {
	if userID == uuid.Nil || enquiryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and enquiry id are required")
	}
	enquiry, err := s.repo.FindByID(ctx, enquiryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load enquiry")
	}
	if enquiry == nil || !enquiry.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found")
	}
	party, err := s.parties.FindByID(ctx, enquiry.PartyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load party")
	}
	if party == nil || party.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found")
	}
	return enquiry, nil
}

func (s *service) notify(ctx context.Context, userID uuid.UUID, params notifications.NotifyParams) {
	if s.notifier == nil {
		return
	}
	params.UserID = userID
	// Notification failures never roll back the state change.
	_, _ = s.notifier.Notify(ctx, params)
}

func (s *service) emailSupplier(ctx context.Context, supplier *models.Supplier, party *models.Party) {
	if s.mailer == nil || supplier.Email == "" {
		return
	}
	// Email failures never roll back the state change.
	_ = s.mailer.Send(ctx, postmark.Email{
		To:      supplier.Email,
		Subject: fmt.Sprintf("New %s enquiry on PartySnap", supplier.Category.Label()),
		TextBody: fmt.Sprintf(
			"You have a new enquiry for a party on %s near %s. Log in to respond.",
			party.Date.Format("2 January 2006"), party.Postcode),
		Tag: "enquiry-dispatched",
	})
}

// responseOpen reports whether a supplier answer is still expected: the
// enquiry is pending, or was auto-accepted and awaits a human confirmation.
func responseOpen(enquiry *models.Enquiry) bool {
	if enquiry.Status == enums.EnquiryStatusPending {
		return true
	}
	return enquiry.Status == enums.EnquiryStatusAccepted && enquiry.AutoAccepted
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	if out == "" {
		return nil
	}
	return &out
}
