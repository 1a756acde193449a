package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shredworks/pickup-scheduling/internal/auth"
	"github.com/shredworks/pickup-scheduling/internal/scheduling"
)

type RouterConfig struct {
	Auth          *auth.Service
	Scheduling    *scheduling.Service
	LoginLimiter  *RateLimiter
	Env           string
	Version       string
	SecureCookies bool
	Log           zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints, rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(cfg.LoginLimiter.Middleware)
			r.Post("/auth/register", registerHandler(cfg.Auth))
			r.Post("/auth/login", loginHandler(cfg.Auth, cfg.SecureCookies))
		})
		r.Post("/auth/logout", logoutHandler(cfg.Auth, cfg.SecureCookies))

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(cfg.Auth))

			r.Get("/auth/me", meHandler())

			r.Post("/appointments", createAppointmentHandler(cfg.Scheduling))
			r.Get("/appointments", listAppointmentsHandler(cfg.Scheduling))
			r.Get("/appointments/{id}", getAppointmentHandler(cfg.Scheduling))
			r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Scheduling))

			// Admin-only endpoints
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Post("/appointments/{id}/assign", assignAppointmentHandler(cfg.Scheduling, cfg.Log))
				r.Post("/appointments/{id}/complete", completeAppointmentHandler(cfg.Scheduling, cfg.Log))

				r.Get("/staff", listStaffHandler(cfg.Scheduling))
				r.Post("/staff", createStaffHandler(cfg.Scheduling))
				r.Get("/staff/{id}", getStaffHandler(cfg.Scheduling))
				r.Put("/staff/{id}", updateStaffHandler(cfg.Scheduling))
				r.Delete("/staff/{id}", deleteStaffHandler(cfg.Scheduling))

				r.Get("/vehicles", listVehiclesHandler(cfg.Scheduling))
				r.Post("/vehicles", createVehicleHandler(cfg.Scheduling))
				r.Get("/vehicles/{id}", getVehicleHandler(cfg.Scheduling))
				r.Put("/vehicles/{id}", updateVehicleHandler(cfg.Scheduling))
				r.Delete("/vehicles/{id}", deleteVehicleHandler(cfg.Scheduling))

				r.Get("/export", exportHandler(cfg.Scheduling))
			})
		})
	})

	return r
}
