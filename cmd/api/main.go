package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/partysnap/partysnap-backend/api/routes"
	"github.com/partysnap/partysnap-backend/internal/auth"
	"github.com/partysnap/partysnap-backend/internal/dashboard"
	"github.com/partysnap/partysnap-backend/internal/einvites"
	"github.com/partysnap/partysnap-backend/internal/enquiries"
	"github.com/partysnap/partysnap-backend/internal/guests"
	"github.com/partysnap/partysnap-backend/internal/invoices"
	"github.com/partysnap/partysnap-backend/internal/notifications"
	"github.com/partysnap/partysnap-backend/internal/parties"
	"github.com/partysnap/partysnap-backend/internal/registry"
	"github.com/partysnap/partysnap-backend/internal/suppliers"
	"github.com/partysnap/partysnap-backend/internal/users"
	"github.com/partysnap/partysnap-backend/pkg/auth/session"
	"github.com/partysnap/partysnap-backend/pkg/config"
	"github.com/partysnap/partysnap-backend/pkg/db"
	"github.com/partysnap/partysnap-backend/pkg/geocode"
	"github.com/partysnap/partysnap-backend/pkg/logger"
	"github.com/partysnap/partysnap-backend/pkg/metrics"
	"github.com/partysnap/partysnap-backend/pkg/migrate"
	"github.com/partysnap/partysnap-backend/pkg/postmark"
	"github.com/partysnap/partysnap-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, logg, dbClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager) (routes.Services, error) {
	gdb := dbClient.DB()

	userRepo := users.NewRepository(gdb)
	supplierRepo := suppliers.NewRepository(gdb)
	partyRepo := parties.NewRepository(gdb)
	enquiryRepo := enquiries.NewRepository(gdb)
	guestRepo := guests.NewRepository(gdb)
	registryRepo := registry.NewRepository(gdb)
	einviteRepo := einvites.NewRepository(gdb)
	invoiceRepo := invoices.NewRepository(gdb)

	geocoder := geocode.NewClient()

	notificationsService, err := notifications.NewService(notifications.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}

	var mailer postmark.Sender
	if cfg.Postmark.ServerToken != "" {
		client, err := postmark.NewClient(cfg.Postmark, logg)
		if err != nil {
			return routes.Services{}, err
		}
		mailer = client
	} else {
		logg.Warn(context.Background(), "postmark token not configured, supplier emails disabled")
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SupplierRepo:   supplierRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registerService, err := auth.NewRegisterServiceWithDB(dbClient, cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}

	enquiriesService, err := enquiries.NewService(enquiries.ServiceParams{
		Repo:      enquiryRepo,
		Parties:   partyRepo,
		Suppliers: supplierRepo,
		Slots:     partyRepo,
		Notifier:  notificationsService,
		Mailer:    mailer,
	})
	if err != nil {
		return routes.Services{}, err
	}

	partiesService, err := parties.NewService(parties.ServiceParams{
		Repo:      partyRepo,
		Suppliers: supplierRepo,
		Enquiries: enquiriesService,
		Geocoder:  geocoder,
	})
	if err != nil {
		return routes.Services{}, err
	}

	suppliersService, err := suppliers.NewService(suppliers.ServiceParams{
		Repo:     supplierRepo,
		Notifier: notificationsService,
	})
	if err != nil {
		return routes.Services{}, err
	}

	guestsService, err := guests.NewService(guests.ServiceParams{
		Repo:     guestRepo,
		Parties:  partyRepo,
		EInvites: einviteRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registryService, err := registry.NewService(registry.ServiceParams{
		Repo:    registryRepo,
		Parties: partyRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	einvitesService, err := einvites.NewService(einvites.ServiceParams{
		Repo:      einviteRepo,
		Parties:   partyRepo,
		Enquiries: enquiryRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	invoicesService, err := invoices.NewService(invoices.ServiceParams{
		Repo:      invoiceRepo,
		Enquiries: enquiryRepo,
		Parties:   partyRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Parties:   partyRepo,
		Enquiries: enquiryRepo,
		Guests:    guestRepo,
		Registry:  registryRepo,
		EInvites:  einviteRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authService,
		Register:      registerService,
		Parties:       partiesService,
		Suppliers:     suppliersService,
		Enquiries:     enquiriesService,
		Guests:        guestsService,
		Registry:      registryService,
		EInvites:      einvitesService,
		Invoices:      invoicesService,
		Dashboard:     dashboardService,
		Notifications: notificationsService,
		Geocode:       geocoder,
	}, nil
}
