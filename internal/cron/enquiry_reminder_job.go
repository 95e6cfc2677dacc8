package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/internal/notifications"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	"github.com/partysnap/partysnap-backend/pkg/logger"
	"github.com/partysnap/partysnap-backend/pkg/postmark"
)

const (
	defaultReminderAge   = 48 * time.Hour
	defaultReminderSweep = 24 * time.Hour
	defaultReminderLimit = 200
)

// EnquiryReminderJobParams configures the stale-enquiry chase cron job.
type EnquiryReminderJobParams struct {
	Logger    *logger.Logger
	Enquiries staleEnquiryLister
	Parties   reminderPartyFinder
	Suppliers reminderSupplierFinder
	Notifier  reminderNotifier
	Mailer    postmark.Sender
	Age       time.Duration
	Sweep     time.Duration
	Limit     int
	Now       func() time.Time
}

type staleEnquiryLister interface {
	ListStalePending(ctx context.Context, from, to time.Time, limit int) ([]models.Enquiry, error)
}

type reminderPartyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
}

type reminderSupplierFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type reminderNotifier interface {
	Notify(ctx context.Context, params notifications.NotifyParams) (*models.Notification, error)
}

// NewEnquiryReminderJob builds a job that chases suppliers sitting on pending
// enquiries and tells the parent the supplier has gone quiet.
func NewEnquiryReminderJob(params EnquiryReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Enquiries == nil {
		return nil, fmt.Errorf("enquiries repository required")
	}
	if params.Parties == nil {
		return nil, fmt.Errorf("parties repository required")
	}
	if params.Suppliers == nil {
		return nil, fmt.Errorf("suppliers repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	age := params.Age
	if age <= 0 {
		age = defaultReminderAge
	}
	sweep := params.Sweep
	if sweep <= 0 {
		sweep = defaultReminderSweep
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultReminderLimit
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &enquiryReminderJob{
		logg:      params.Logger,
		enquiries: params.Enquiries,
		parties:   params.Parties,
		suppliers: params.Suppliers,
		notifier:  params.Notifier,
		mailer:    params.Mailer,
		age:       age,
		sweep:     sweep,
		limit:     limit,
		now:       now,
	}, nil
}

type enquiryReminderJob struct {
	logg      *logger.Logger
	enquiries staleEnquiryLister
	parties   reminderPartyFinder
	suppliers reminderSupplierFinder
	notifier  reminderNotifier
	mailer    postmark.Sender
	age       time.Duration
	sweep     time.Duration
	limit     int
	now       func() time.Time
}

func (j *enquiryReminderJob) Name() string { return "enquiry-reminder" }

func (j *enquiryReminderJob) Run(ctx context.Context) error {
	logCtx := j.logg.WithField(ctx, "job", j.Name())
	logCtx = j.logg.WithField(logCtx, "event", "cron.job")
	// Each sweep covers one interval's worth of enquiries crossing the age
	// threshold, so a supplier is chased once per enquiry.
	to := j.now().UTC().Add(-j.age)
	from := to.Add(-j.sweep)
	stale, err := j.enquiries.ListStalePending(logCtx, from, to, j.limit)
	if err != nil {
		return fmt.Errorf("list stale enquiries: %w", err)
	}
	var errs error
	reminded := 0
	for i := range stale {
		if err := j.remind(logCtx, &stale[i]); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		reminded++
	}
	reportCtx := j.logg.WithFields(logCtx, map[string]any{
		"candidates": len(stale),
		"reminded":   reminded,
	})
	j.logg.Info(reportCtx, "enquiry reminder loop complete")
	return errs
}

func (j *enquiryReminderJob) remind(ctx context.Context, enquiry *models.Enquiry) error {
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"enquiry_id":  enquiry.ID,
		"party_id":    enquiry.PartyID,
		"supplier_id": enquiry.SupplierID,
	})
	party, err := j.parties.FindByID(logCtx, enquiry.PartyID)
	if err != nil {
		return fmt.Errorf("load party for enquiry %s: %w", enquiry.ID, err)
	}
	if party == nil || party.Status == enums.PartyStatusCancelled {
		j.logg.Info(logCtx, "party gone or cancelled; skipping reminder")
		return nil
	}
	label := enquiry.Category.Label()
	_, err = j.notifier.Notify(logCtx, notifications.NotifyParams{
		UserID:  party.UserID,
		Type:    enums.NotificationTypeEnquiryReminder,
		Title:   fmt.Sprintf("Still waiting on your %s enquiry", label),
		Message: fmt.Sprintf("The %s supplier has not responded yet. You can pick an alternative any time.", label),
	})
	if err != nil {
		return fmt.Errorf("notify parent for enquiry %s: %w", enquiry.ID, err)
	}
	j.emailSupplier(logCtx, enquiry, party)
	return nil
}

func (j *enquiryReminderJob) emailSupplier(ctx context.Context, enquiry *models.Enquiry, party *models.Party) {
	if j.mailer == nil {
		return
	}
	supplier, err := j.suppliers.FindByID(ctx, enquiry.SupplierID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			j.logg.Error(ctx, "load supplier for reminder email", err)
		}
		return
	}
	if supplier.Email == "" {
		return
	}
	// Email failures never fail the sweep; the in-app reminder already landed.
	if err := j.mailer.Send(ctx, postmark.Email{
		To:      supplier.Email,
		Subject: fmt.Sprintf("Reminder: %s enquiry awaiting your reply", supplier.Category.Label()),
		TextBody: fmt.Sprintf(
			"An enquiry for a party on %s near %s is still waiting for your answer. Log in to respond.",
			party.Date.Format("2 January 2006"), party.Postcode),
		Tag: "enquiry-reminder",
	}); err != nil {
		j.logg.Error(ctx, "send reminder email", err)
	}
}
