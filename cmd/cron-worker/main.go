package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/partysnap/partysnap-backend/internal/calendars"
	"github.com/partysnap/partysnap-backend/internal/cron"
	"github.com/partysnap/partysnap-backend/internal/enquiries"
	"github.com/partysnap/partysnap-backend/internal/notifications"
	"github.com/partysnap/partysnap-backend/internal/parties"
	"github.com/partysnap/partysnap-backend/internal/suppliers"
	"github.com/partysnap/partysnap-backend/pkg/config"
	"github.com/partysnap/partysnap-backend/pkg/db"
	"github.com/partysnap/partysnap-backend/pkg/instance"
	"github.com/partysnap/partysnap-backend/pkg/logger"
	"github.com/partysnap/partysnap-backend/pkg/metrics"
	"github.com/partysnap/partysnap-backend/pkg/migrate"
	"github.com/partysnap/partysnap-backend/pkg/postmark"
	"github.com/partysnap/partysnap-backend/pkg/redis"
)

const lockKeyFormat = "ps:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := cron.NewRegistry()
	if err := registerJobs(cfg, logg, dbClient, registry); err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func registerJobs(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, registry *cron.Registry) error {
	gdb := dbClient.DB()

	cleanup, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: notifications.NewRepository(gdb),
	})
	if err != nil {
		return fmt.Errorf("notification cleanup job: %w", err)
	}
	registry.Register(cleanup)

	notifier, err := notifications.NewService(notifications.NewRepository(gdb))
	if err != nil {
		return fmt.Errorf("notifications service: %w", err)
	}

	var mailer postmark.Sender
	if cfg.Postmark.ServerToken != "" {
		client, err := postmark.NewClient(cfg.Postmark, logg)
		if err != nil {
			return fmt.Errorf("postmark client: %w", err)
		}
		mailer = client
	} else {
		logg.Warn(context.Background(), "postmark token not configured, reminder emails disabled")
	}

	reminder, err := cron.NewEnquiryReminderJob(cron.EnquiryReminderJobParams{
		Logger:    logg,
		Enquiries: enquiries.NewRepository(gdb),
		Parties:   parties.NewRepository(gdb),
		Suppliers: suppliers.NewRepository(gdb),
		Notifier:  notifier,
		Mailer:    mailer,
		Age:       cfg.Cron.EnquiryReminderAfter,
	})
	if err != nil {
		return fmt.Errorf("enquiry reminder job: %w", err)
	}
	registry.Register(reminder)

	if cfg.Calendar.SyncBaseURL != "" {
		calendarRepo, err := calendars.NewRepository(gdb)
		if err != nil {
			return fmt.Errorf("calendar repository: %w", err)
		}
		provider, err := calendars.NewRenewalClient(cfg.Calendar)
		if err != nil {
			return fmt.Errorf("calendar renewal client: %w", err)
		}
		renewal, err := cron.NewCalendarRenewalJob(cron.CalendarRenewalJobParams{
			Logger:   logg,
			Repo:     calendarRepo,
			Provider: provider,
			Window:   cfg.Calendar.RenewalWindow,
		})
		if err != nil {
			return fmt.Errorf("calendar renewal job: %w", err)
		}
		registry.Register(renewal)
	} else {
		logg.Warn(context.Background(), "calendar sync not configured, channel renewal disabled")
	}

	return nil
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
