package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"youthevents/internal/delivery/http/helpers"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

type HealthController struct {
	Logger *slog.Logger
	DB     Pinger
}

func NewHealthController(logger *slog.Logger, db Pinger) *HealthController {
	return &HealthController{Logger: logger, DB: db}
}

// Health godoc
// @Summary Liveness and database check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		c.Logger.WarnContext(r.Context(), "health check failed", "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, "database unavailable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}
