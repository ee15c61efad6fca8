package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	h "gymbooking/internal/delivery/http/helpers"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	Logger  *slog.Logger
	DB      Pinger
	Timeout time.Duration
}

func NewHealthController(logger *slog.Logger, db Pinger) *HealthController {
	return &HealthController{Logger: logger, DB: db, Timeout: 2 * time.Second}
}

// HealthStatus is the data of GET /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Failure 503 {object} helpers.APIResponse "data.status: degraded"
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		c.Logger.WarnContext(r.Context(), "health check failed", "err", err)
		h.WriteJSONSuccess(w, http.StatusServiceUnavailable, HealthStatus{Status: "degraded", Database: "unreachable"})
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, HealthStatus{Status: "ok", Database: "ok"})
}
