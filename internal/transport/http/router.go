package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/intake-dal/internal/application/event"
	"github.com/intake-dal/internal/application/notification"
	"github.com/intake-dal/internal/application/review"
	"github.com/intake-dal/internal/application/submission"
	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/domain"
	jwtinfra "github.com/intake-dal/internal/infrastructure/jwt"
	"github.com/intake-dal/internal/infrastructure/metrics"
	"github.com/intake-dal/internal/infrastructure/smtp"
	"github.com/intake-dal/internal/infrastructure/sns"
	"github.com/intake-dal/internal/transport/http/handler"
	appmiddleware "github.com/intake-dal/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Docs        DocumentStore
	Blobs       BlobStore
	Mailer      smtp.Mailer   // nil disables status emails
	Publisher   sns.Publisher // nil disables notification publishing
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.RequestLogger)
	r.Use(metrics.InstrumentHandler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = denyAll
	}

	submitRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	eventSvc := event.NewService(deps.Docs)
	submitSvc := submission.NewService(submission.ServiceDeps{
		Blobs: deps.Blobs,
		Docs:  deps.Docs,
	})
	reviewSvc := review.NewService(review.ServiceDeps{
		Docs:      deps.Docs,
		Signer:    deps.Blobs,
		Mailer:    deps.Mailer,
		SignedTTL: cfg.SignedURLTTL,
	})
	notifSvc := notification.NewService(notification.ServiceDeps{
		Docs:        deps.Docs,
		Events:      eventSvc,
		Publisher:   deps.Publisher,
		Concurrency: cfg.FanOutConcurrency,
	})

	healthH := handler.NewHealthHandler(func(ctx context.Context) error {
		_, err := deps.Docs.Query(ctx, domain.CollectionNotifications, nil, 1)
		return err
	})
	appH := handler.NewApplicationHandler(submitSvc, reviewSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	eventH := handler.NewEventHandler(notifSvc)

	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Check)
		r.With(submitRL.Limit).Post("/applications", appH.Submit)
		r.With(submitRL.Limit).Post("/volunteer-applications", appH.SubmitVolunteer)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/notifications", notifH.List)
			r.Get("/notifications/unread-count", notifH.UnreadCount)
			r.Put("/notifications/read-all", notifH.MarkAllRead)
			r.Put("/notifications/{id}/read", notifH.MarkRead)

			// Staff-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleStaff))

				r.Get("/applications", appH.List)
				r.Get("/applications/by-email", appH.GetByEmail)
				r.Put("/applications/{id}/status", appH.UpdateStatus)

				r.Get("/volunteer-applications", appH.ListVolunteers)
				r.Get("/volunteer-applications/{id}", appH.GetVolunteer)
				r.Put("/volunteer-applications/{id}/status", appH.UpdateVolunteerStatus)

				r.Post("/notifications", notifH.Create)
				r.Post("/events/{id}/comments", eventH.Comment)
			})
		})
	})

	return r
}

// denyAll stands in for auth when no JWT keys are configured.
func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"authentication unavailable","error_code":503}`))
	})
}
