/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/leaves/*      Request lifecycle (submit, action, cancel)
  /api/employees/*   Employee history and balances
  /api/officers/*    Officer worklists
  /api/admin/*       Maternity end dates, entitlement adjustment, repair

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Leave request lifecycle
		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.SubmitLeave)
			r.Get("/{id}", h.GetLeave)
			r.Post("/{id}/action", h.ActOnLeave)
			r.Post("/{id}/cancel", h.CancelLeave)
		})

		// Employee views
		r.Route("/employees/{email}", func(r chi.Router) {
			r.Get("/leaves", h.ListEmployeeLeaves)
			r.Get("/leaves/cancellable", h.ListCancellableLeaves)
			r.Get("/balances", h.GetBalances)
			r.Get("/quotas", h.GetQuotas)
		})

		// Officer worklists
		r.Route("/officers/{email}", func(r chi.Router) {
			r.Get("/pending", h.ListPendingForOfficer)
			r.Get("/pending/count", h.GetPendingCount)
		})

		// Admin operations
		r.Route("/admin", func(r chi.Router) {
			r.Get("/maternity/pending", h.ListMaternityPending)
			r.Post("/maternity/{id}/end-date", h.SetMaternityEndDate)
			r.Post("/entitlements", h.AdjustEntitlement)
			r.Post("/recalculate", h.Recalculate)
			r.Post("/employees", h.UpsertEmployee)
		})
	})

	return r
}
