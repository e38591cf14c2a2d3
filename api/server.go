/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/health               Liveness
  /api/positions            Position instances
  /api/absences             Absences
  /api/requests             Resource allocation requests
  /api/persons/{id}/*       Person reports
  /api/projects/{id}/*      Project reports
  /api/scenarios            Demo data (development only)

SECURITY NOTE:
  No authentication middleware. Authorization is handled upstream.

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
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/positions", h.CreatePosition)
		r.Post("/absences", h.CreateAbsence)
		r.Post("/requests", h.CreateRequest)

		r.Route("/persons/{id}", func(r chi.Router) {
			r.Get("/timeline", h.GetPersonTimeline)
		})

		r.Route("/projects/{id}", func(r chi.Router) {
			r.Get("/requests/timeline", h.GetProjectRequestTimeline)
		})

		r.Get("/scenarios", h.ListScenarios)
		r.Post("/scenarios/load", h.LoadScenario)
	})

	return r
}
