package http

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"youthevents/internal/delivery/http/controllers"
	"youthevents/internal/delivery/http/middleware"
	"youthevents/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Participant *controllers.ParticipantController
	Event       *controllers.EventController
	User        *controllers.UserController
	Health      *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
// Every /api route requires a verified identity.
func NewRouter(c Controllers, verifier domain.IdentityVerifier, logger *slog.Logger) *http.ServeMux {
	auth := middleware.RequireIdentity(verifier, logger)
	mux := http.NewServeMux()

	// Participants
	mux.HandleFunc("POST /api/participants", auth(c.Participant.Register))
	mux.HandleFunc("DELETE /api/participants/{id}", auth(c.Participant.Cancel))
	mux.HandleFunc("GET /api/participants/me", auth(c.Participant.ListMine))
	mux.HandleFunc("GET /api/participants/event/{eventId}", auth(c.Participant.ListForEvent))
	mux.HandleFunc("PATCH /api/participants/{id}/status", auth(c.Participant.SetStatus))

	// Events
	mux.HandleFunc("GET /api/events", auth(c.Event.ListEvents))
	mux.HandleFunc("POST /api/events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /api/events/summary", auth(c.Event.ListSummaries))
	mux.HandleFunc("GET /api/events/{id}", auth(c.Event.GetEvent))
	mux.HandleFunc("PUT /api/events/{id}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", auth(c.Event.DeleteEvent))

	// Users
	mux.HandleFunc("POST /api/users/sync", auth(c.User.Sync))
	mux.HandleFunc("GET /api/users/me", auth(c.User.GetMe))
	mux.HandleFunc("POST /api/users/{id}/roles", auth(c.User.AssignRole))

	mux.HandleFunc("GET /health", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// MiddlewareConfig configures the cross-cutting middleware applied by Wrap.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Alerts         domain.AlertService
	Environment    string
	AllowedOrigins []string
}

// Wrap applies request ids, real client IPs, request logging, fault alerts, panic recovery and
// CORS around h. The request id is assigned first so every later layer can log it.
func Wrap(h http.Handler, cfg MiddlewareConfig) http.Handler {
	h = middleware.CORS(cfg.AllowedOrigins, h)
	h = chimiddleware.Recoverer(h)
	h = middleware.AlertOnFault(cfg.Alerts, cfg.Environment, cfg.Logger, h)
	h = middleware.LoggingMiddleware(cfg.Logger, h)
	h = chimiddleware.RealIP(h)
	h = chimiddleware.RequestID(h)
	return h
}
