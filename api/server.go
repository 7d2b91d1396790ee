/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

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
  4. CORS:       Cross-origin requests for the admin frontend

ROUTE GROUPS:
  /api/clients/*        Client registry, schedules, ledger, loans
  /api/plans/*          Savings plan catalog
  /api/transfers        Inter-client transfers
  /api/transactions/*   Reversals
  /api/tontines/*       Rotation groups
  /api/backup/*         Encrypted export/import
  /api/profile          Admin profile
  /api/notifications/*  Operator notifications

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public; put
  this behind a gateway in production.

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
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Client routes
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
			r.Get("/{id}/balance", h.GetClientBalance)
			r.Post("/{id}/renew", h.RenewClient)
			r.Post("/{id}/payments/{day}", h.TogglePayment)
			r.Post("/{id}/deposits", h.CreateDeposit)
			r.Post("/{id}/withdrawals", h.CreateWithdrawal)

			r.Route("/{id}/loans", func(r chi.Router) {
				r.Post("/", h.CreateLoan)
				r.Delete("/{loanID}", h.DeleteLoan)
				r.Post("/{loanID}/status", h.UpdateLoanStatus)
				r.Post("/{loanID}/payments", h.CreateLoanPayment)
				r.Get("/{loanID}/summary", h.GetLoanSummary)
			})
		})

		// Plan routes
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.ListPlans)
			r.Post("/", h.CreatePlan)
			r.Put("/{id}", h.UpdatePlan)
			r.Delete("/{id}", h.DeletePlan)
		})

		// Transfer and reversal routes
		r.Route("/transfers", func(r chi.Router) {
			r.Get("/", h.ListTransfers)
			r.Post("/", h.CreateTransfer)
		})
		r.Post("/transactions/reverse", h.ReverseTransaction)

		// Tontine routes
		r.Route("/tontines", func(r chi.Router) {
			r.Get("/", h.ListTontines)
			r.Post("/", h.CreateTontine)
			r.Get("/{id}", h.GetTontine)
			r.Put("/{id}", h.UpdateTontine)
			r.Delete("/{id}", h.DeleteTontine)
			r.Post("/{id}/members", h.AddTontineMember)
			r.Post("/{id}/members/{memberID}/contributions/{contributionID}", h.UpdateContribution)
			r.Get("/{id}/members/{memberID}/eligibility", h.GetEligibility)
		})

		// Backup routes
		r.Route("/backup", func(r chi.Router) {
			r.Post("/export", h.ExportBackup)
			r.Post("/import", h.ImportBackup)
		})

		// Profile and notification routes
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Post("/", h.CreateNotification)
			r.Post("/{id}/read", h.MarkNotificationRead)
			r.Delete("/", h.ClearNotifications)
		})
	})

	return r
}
