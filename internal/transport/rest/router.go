package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/campus-complaints/api"
	"github.com/frahmantamala/campus-complaints/internal/auth"
	"github.com/frahmantamala/campus-complaints/internal/category"
	"github.com/frahmantamala/campus-complaints/internal/complaint"
	"github.com/frahmantamala/campus-complaints/internal/notification"
	"github.com/frahmantamala/campus-complaints/internal/profile"
	"github.com/frahmantamala/campus-complaints/internal/transport"
	"github.com/frahmantamala/campus-complaints/internal/transport/middleware"
	"github.com/frahmantamala/campus-complaints/internal/transport/swagger"
	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Auth         *auth.Handler
	Profile      *profile.Handler
	Complaint    *complaint.Handler
	Category     *category.Handler
	Notification *notification.Handler
}

type Options struct {
	AllowedOrigins string
	OpenAPIPath    string // overrides the embedded document when set
	Redis          *redis.Client
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, opts.Redis)
	base := transport.NewBaseHandler(logger)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		if opts.OpenAPIPath != "" {
			http.ServeFile(w, r, opts.OpenAPIPath)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(api.Document)
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	// The notification endpoint answers its own preflight with open CORS headers
	if h.Notification != nil {
		router.Options(notification.EndpointPath, h.Notification.Preflight)
		router.Post(notification.EndpointPath, h.Notification.Send)
	}

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(opts.AllowedOrigins))

		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public categories route (no auth required)
		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
			r.Get("/categories/{name}", h.Category.GetCategory)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Any signed-in user
			pr.Group(func(mr chi.Router) {
				mr.Use(auth.Gate(base, auth.CapabilityAuthenticated))

				mr.Get("/auth/session", h.Auth.Session)

				if h.Profile != nil {
					mr.Get("/profiles/me", h.Profile.GetMe)
				}

				if h.Complaint != nil {
					mr.Get("/dashboard", h.Complaint.GetDashboard)
					mr.Get("/stats", h.Complaint.GetStats)
					mr.Route("/complaints", func(cr chi.Router) {
						cr.Get("/", h.Complaint.ListOwnComplaints)
						cr.Post("/", h.Complaint.CreateComplaint)
						cr.Get("/{id}", h.Complaint.GetComplaint)
						cr.Delete("/{id}", h.Complaint.DeleteComplaint)
					})
				}
			})

			// Administrators only
			if h.Complaint != nil {
				pr.Route("/admin", func(ar chi.Router) {
					ar.Use(auth.Gate(base, auth.CapabilityAdmin))

					ar.Get("/complaints", h.Complaint.ListAllComplaints)
					ar.Get("/complaints/{id}", h.Complaint.GetComplaint)
					ar.Patch("/complaints/{id}", h.Complaint.UpdateComplaint)
					ar.Delete("/complaints/{id}", h.Complaint.DeleteComplaint)
				})
			}
		})
	})
}
