package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const readyTimeout = 3 * time.Second

// HealthHandler serves liveness ("ping") and readiness ("ready") checks.
type HealthHandler struct {
	probe func(ctx context.Context) error
}

// NewHealthHandler takes the readiness probe; nil reports ready unconditionally.
func NewHealthHandler(probe func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{probe: probe}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "ready":
		if h.probe != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := h.probe(ctx); err != nil {
				slog.Warn("readiness probe failed", "err", err)
				writeError(w, http.StatusServiceUnavailable, "document store unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ready"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
