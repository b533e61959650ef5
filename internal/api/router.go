package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
	"github.com/Mathuja991/Mathavam-sub001/internal/booking"
)

type RouterConfig struct {
	Availability *availability.Service
	Bookings     *booking.Service
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Logger       zerolog.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	if cfg.PgPool != nil && cfg.Redis != nil {
		health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
		r.Get("/health/live", health.Liveness)
		r.Get("/health/ready", health.Readiness)
	}

	// Availability
	r.Get("/availability", listAvailabilityHandler(cfg.Availability))
	r.Put("/availability/slots/{slotID}", updateSlotHandler(cfg.Availability))
	r.Delete("/availability/slots/{slotID}", deleteSlotHandler(cfg.Availability))
	r.Put("/availability/{practitionerID}", putAvailabilityHandler(cfg.Availability))
	r.Delete("/availability/{practitionerID}", clearAvailabilityHandler(cfg.Availability))
	r.Get("/availability/{practitionerID}/calendar", calendarHandler(cfg.Availability, cfg.Bookings))
	r.Get("/availability/{practitionerID}/slots", daySlotsHandler(cfg.Availability))

	// Appointments
	r.Post("/appointments", createAppointmentHandler(cfg.Bookings))
	r.Get("/appointments", listAppointmentsHandler(cfg.Bookings))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Bookings))
	r.Put("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Bookings))
	r.Put("/appointments/{id}/status", overrideStatusHandler(cfg.Bookings))

	return r
}
