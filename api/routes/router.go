package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/partysnap/partysnap-backend/api/controllers"
	"github.com/partysnap/partysnap-backend/api/middleware"
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
	"github.com/partysnap/partysnap-backend/pkg/auth/session"
	"github.com/partysnap/partysnap-backend/pkg/config"
	"github.com/partysnap/partysnap-backend/pkg/db"
	"github.com/partysnap/partysnap-backend/pkg/geocode"
	"github.com/partysnap/partysnap-backend/pkg/logger"
	"github.com/partysnap/partysnap-backend/pkg/metrics"
	"github.com/partysnap/partysnap-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services groups everything the HTTP layer depends on.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Parties       parties.Service
	Suppliers     suppliers.Service
	Enquiries     enquiries.Service
	Guests        guests.Service
	Registry      registry.Service
	EInvites      einvites.Service
	Invoices      invoices.Service
	Dashboard     dashboard.Service
	Notifications notifications.Service
	Geocode       *geocode.Client
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/postcodes/lookup", controllers.PublicPostcodeLookup(svcs.Geocode, logg))
		r.Get("/invites/{slug}", controllers.PublicEInvite(svcs.EInvites, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Post("/payments", controllers.PaymentWebhook(svcs.Enquiries, svcs.Invoices, cfg.Payments.WebhookSecret, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(
				middleware.AuthRateLimit(registerPolicy, redisClient, logg),
				middleware.Idempotency(redisClient, logg),
			)
			r.Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
			r.Post("/register/supplier", controllers.AuthRegisterSupplier(svcs.Register, svcs.Auth, logg))
		})
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(svcs.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/parties", func(r chi.Router) {
			r.Post("/", controllers.CreateParty(svcs.Parties, logg))
			r.Get("/", controllers.ListParties(svcs.Parties, logg))

			r.Route("/{partyID}", func(r chi.Router) {
				r.Get("/", controllers.GetParty(svcs.Parties, logg))
				r.Patch("/", controllers.UpdateParty(svcs.Parties, logg))
				r.Put("/budget", controllers.SetPartyBudget(svcs.Parties, logg))
				r.Put("/slots/{category}", controllers.FillPartySlot(svcs.Parties, logg))
				r.Delete("/slots/{category}", controllers.ClearPartySlot(svcs.Parties, logg))

				r.Get("/enquiries", controllers.ListPartyEnquiries(svcs.Enquiries, logg))
				r.Get("/dashboard", controllers.PartyDashboard(svcs.Dashboard, logg))
				r.Get("/invoices", controllers.ListPartyInvoices(svcs.Invoices, logg))

				r.Route("/guests", func(r chi.Router) {
					r.Post("/", controllers.AddGuest(svcs.Guests, logg))
					r.Get("/", controllers.ListGuests(svcs.Guests, logg))
					r.Post("/invites-sent", controllers.MarkGuestInvitesSent(svcs.Guests, logg))
					r.Patch("/{guestID}", controllers.UpdateGuest(svcs.Guests, logg))
					r.Delete("/{guestID}", controllers.RemoveGuest(svcs.Guests, logg))
					r.Post("/{guestID}/rsvp", controllers.RecordGuestRSVP(svcs.Guests, logg))
				})

				r.Route("/registry", func(r chi.Router) {
					r.Post("/", controllers.CreateGiftRegistry(svcs.Registry, logg))
					r.Get("/", controllers.GetGiftRegistry(svcs.Registry, logg))
					r.Patch("/", controllers.RenameGiftRegistry(svcs.Registry, logg))
					r.Post("/items", controllers.AddRegistryItem(svcs.Registry, logg))
					r.Post("/items/{itemID}/claim", controllers.ClaimRegistryItem(svcs.Registry, logg))
					r.Delete("/items/{itemID}", controllers.RemoveRegistryItem(svcs.Registry, logg))
				})

				r.Route("/einvite", func(r chi.Router) {
					r.Post("/", controllers.CreateEInvite(svcs.EInvites, logg))
					r.Get("/", controllers.GetEInvite(svcs.EInvites, logg))
					r.Patch("/", controllers.UpdateEInvite(svcs.EInvites, logg))
				})
			})
		})

		r.Route("/v1/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierDirectory(svcs.Suppliers, logg))
			r.Get("/{supplierID}", controllers.GetSupplier(svcs.Suppliers, logg))
		})

		r.Route("/v1/enquiries/{enquiryID}", func(r chi.Router) {
			r.Post("/invoice", controllers.GenerateInvoice(svcs.Invoices, logg))
			r.Route("/addons", func(r chi.Router) {
				r.Post("/", controllers.AddEnquiryAddon(svcs.Enquiries, logg))
				r.Delete("/{addonID}", controllers.RemoveEnquiryAddon(svcs.Enquiries, logg))
			})
		})

		r.Get("/v1/invoices/{invoiceID}", controllers.GetInvoice(svcs.Invoices, logg))

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Get("/unread", controllers.UnreadNotificationCount(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/v1/supplier", func(r chi.Router) {
			r.Use(middleware.SupplierContext(logg))
			r.Post("/profile/submit-review", controllers.SubmitSupplierForReview(svcs.Suppliers, logg))
			r.Route("/enquiries", func(r chi.Router) {
				r.Get("/", controllers.SupplierEnquiryInbox(svcs.Enquiries, logg))
				r.Post("/{enquiryID}/respond", controllers.RespondToEnquiry(svcs.Enquiries, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Get("/ping", controllers.AdminPing())
		r.Route("/v1/suppliers", func(r chi.Router) {
			r.Get("/review-queue", controllers.SupplierReviewQueue(svcs.Suppliers, logg))
			r.Post("/{supplierID}/review", controllers.ReviewSupplier(svcs.Suppliers, logg))
		})
	})

	return r
}
