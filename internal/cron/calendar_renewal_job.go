package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/partysnap/partysnap-backend/internal/calendars"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/logger"
)

const (
	defaultRenewalWindow = 48 * time.Hour
	defaultRenewalLimit  = 100
	renewalMaxRetries    = 3
)

// CalendarRenewalJobParams configures the webhook renewal cron job.
type CalendarRenewalJobParams struct {
	Logger   *logger.Logger
	Repo     calendarRepository
	Provider channelRenewer
	Window   time.Duration
	Limit    int
	Now      func() time.Time
}

type calendarRepository interface {
	ListExpiring(ctx context.Context, before time.Time, limit int) ([]models.CalendarWebhook, error)
	MarkRenewed(ctx context.Context, id uuid.UUID, channel calendars.Channel, renewedAt time.Time) error
}

type channelRenewer interface {
	Renew(ctx context.Context, webhook *models.CalendarWebhook) (*calendars.Channel, error)
}

// NewCalendarRenewalJob builds a job that re-registers supplier calendar
// webhook channels before their provider-side expiry.
func NewCalendarRenewalJob(params CalendarRenewalJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("calendar repository required")
	}
	if params.Provider == nil {
		return nil, fmt.Errorf("calendar provider required")
	}
	window := params.Window
	if window <= 0 {
		window = defaultRenewalWindow
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultRenewalLimit
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &calendarRenewalJob{
		logg:     params.Logger,
		repo:     params.Repo,
		provider: params.Provider,
		window:   window,
		limit:    limit,
		now:      now,
	}, nil
}

type calendarRenewalJob struct {
	logg     *logger.Logger
	repo     calendarRepository
	provider channelRenewer
	window   time.Duration
	limit    int
	now      func() time.Time
}

func (j *calendarRenewalJob) Name() string { return "calendar-renewal" }

func (j *calendarRenewalJob) Run(ctx context.Context) error {
	logCtx := j.logg.WithField(ctx, "job", j.Name())
	logCtx = j.logg.WithField(logCtx, "event", "cron.job")
	deadline := j.now().UTC().Add(j.window)
	webhooks, err := j.repo.ListExpiring(logCtx, deadline, j.limit)
	if err != nil {
		return fmt.Errorf("list expiring calendar webhooks: %w", err)
	}
	var errs error
	renewed := 0
	for i := range webhooks {
		if err := j.renew(logCtx, &webhooks[i]); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		renewed++
	}
	reportCtx := j.logg.WithFields(logCtx, map[string]any{
		"candidates": len(webhooks),
		"renewed":    renewed,
	})
	j.logg.Info(reportCtx, "calendar renewal loop complete")
	return errs
}

func (j *calendarRenewalJob) renew(ctx context.Context, webhook *models.CalendarWebhook) error {
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"webhook_id":  webhook.ID,
		"supplier_id": webhook.SupplierID,
		"provider":    webhook.Provider,
	})
	var channel *calendars.Channel
	backoff := retry.WithMaxRetries(renewalMaxRetries, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(logCtx, backoff, func(ctx context.Context) error {
		renewed, err := j.provider.Renew(ctx, webhook)
		if err != nil {
			return retry.RetryableError(err)
		}
		channel = renewed
		return nil
	})
	if err != nil {
		return fmt.Errorf("renew channel %s: %w", webhook.ChannelID, err)
	}
	if channel == nil {
		j.logg.Info(logCtx, "provider returned no channel; skipping")
		return nil
	}
	if err := j.repo.MarkRenewed(logCtx, webhook.ID, *channel, j.now().UTC()); err != nil {
		return fmt.Errorf("persist renewed channel %s: %w", channel.ChannelID, err)
	}
	j.logg.Info(j.logg.WithField(logCtx, "expires_at", channel.ExpiresAt), "calendar webhook renewed")
	return nil
}
