package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/avzakharova/studio-bot/internal/auth"
	"github.com/avzakharova/studio-bot/internal/ledger"
	"github.com/avzakharova/studio-bot/internal/schedule"
	"github.com/avzakharova/studio-bot/internal/transport/middleware"
)

// RegisterAllRoutes wires the admin API. Everything except login and the
// health probes sits behind the bearer-token middleware.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, driver string, authHandler *auth.Handler, ledgerHandler *ledger.Handler, scheduleHandler *schedule.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, driver)

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/payments", func(lr chi.Router) {
				lr.Get("/pending", ledgerHandler.ListPending)
				lr.Post("/pending/{id}/confirm", ledgerHandler.ConfirmPending)
				lr.Post("/pending/{id}/reject", ledgerHandler.RejectPending)
				lr.Post("/pending/sweep", ledgerHandler.Sweep)
				lr.Get("/confirmed", ledgerHandler.ListConfirmed)
				lr.Post("/confirmed", ledgerHandler.CreateConfirmedDirect)
			})

			pr.Get("/users/{userID}/payments", ledgerHandler.ListForUser)

			pr.Route("/schedule", func(sr chi.Router) {
				sr.Get("/", scheduleHandler.GetSchedule)
				sr.Put("/", scheduleHandler.UpdateSchedule)
			})
		})
	})
}
