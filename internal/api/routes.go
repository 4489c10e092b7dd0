package api

import (
	"net/http"
	"os"

	"github.com/ignite/phishdrill/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the operator API routes. authManager may be nil,
// in which case /api is left unguarded (local development).
func SetupRoutes(h *Handlers, authManager *auth.AuthManager) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - allow credentials for auth cookies (explicit origins)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Tenant-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth required)
	r.Get("/health", h.HealthCheck)

	// Auth routes (no auth required)
	if authManager != nil {
		r.Get("/auth/login", authManager.HandleLogin)
		r.Get("/auth/callback", authManager.HandleCallback)
		r.Get("/auth/logout", authManager.HandleLogout)
		r.Get("/auth/user", authManager.HandleUserInfo)
	}

	// API routes (protected by auth middleware)
	devMode := os.Getenv("DEV_MODE") == "true" || os.Getenv("ENVIRONMENT") == "development"

	r.Route("/api", func(r chi.Router) {
		// Apply auth middleware to all API routes (skip in dev mode)
		if authManager != nil && !devMode {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					// Participant-facing tracking endpoints stay public.
					if isPublicTrackingPath(req.URL.Path) {
						next.ServeHTTP(w, req)
						return
					}
					if !authManager.IsAuthenticated(req) {
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusUnauthorized)
						w.Write([]byte(`{"error":"unauthorized"}`))
						return
					}
					next.ServeHTTP(w, req)
				})
			})
		}

		// Public tracking endpoints (single-binary deployments)
		if h.trk != nil {
			r.Get("/interact", h.trk.HandleInteract)
			r.Post("/submit-data", h.trk.HandleSubmitData)
		}

		// Dashboard - aggregated counters for the tenant
		r.Get("/dashboard", h.GetDashboard)

		// Campaign lifecycle
		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.CreateCampaign)
			r.Get("/", h.ListCampaigns)
			r.Get("/{campaignID}", h.GetCampaign)
			r.Get("/{campaignID}/emails", h.GetCampaignEmails)
			r.Get("/{campaignID}/links", h.GetCampaignLinks)
			r.Post("/{campaignID}/archive", h.ArchiveCampaign)
		})

		// Lure template catalog
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Get("/{templateID}/preview", h.PreviewTemplate)
		})
	})

	return r
}

func isPublicTrackingPath(path string) bool {
	return path == "/api/interact" || path == "/api/submit-data"
}
