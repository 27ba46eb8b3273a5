package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// Version is reported by /health; overridden at build time with -ldflags.
var Version = "dev"

// HealthHandler provides health check endpoint
type HealthHandler struct {
	service string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ServeHTTP handles health check requests.
// It reports liveness only and does not probe the upstream APIs.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   h.service,
		Timestamp: time.Now().UTC(),
		Version:   Version,
	}, h.logger)
}
