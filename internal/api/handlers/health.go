package handlers

import (
	"net/http"
	"time"

	"tasktrack/internal/api/response"
	"tasktrack/internal/config"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	config  *config.Config
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		config:  cfg,
		started: time.Now(),
	}
}

// HealthStatus represents the health check payload
type HealthStatus struct {
	Status        string `json:"status"`
	Env           string `json:"env"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Handle responds to GET /health
func (h *HealthHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, HealthStatus{
		Status:        "ok",
		Env:           h.config.Env,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}
