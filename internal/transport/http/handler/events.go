package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/intake-dal/internal/application/notification"
	"github.com/intake-dal/internal/pkg/validate"
	"github.com/intake-dal/internal/transport/http/middleware"
)

// EventHandler handles staff activity on events.
type EventHandler struct {
	notifications notification.Service
}

func NewEventHandler(notifications notification.Service) *EventHandler {
	return &EventHandler{notifications: notifications}
}

type commentRequest struct {
	EventName string `json:"eventName" validate:"required"`
	Comment   string `json:"comment" validate:"required"`
}

// Comment notifies everyone registered for the event about a staff comment.
func (h *EventHandler) Comment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var body commentRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	staff := displayName(claims.Name, claims.UserID)
	if !h.notifications.FanOutComment(r.Context(), chi.URLParam(r, "id"), body.EventName, staff, body.Comment) {
		writeError(w, http.StatusInternalServerError, "comment notifications could not be sent")
		return
	}
	writeJSON(w, http.StatusAccepted, MessageEnvelope{Message: "comment notifications sent"})
}
