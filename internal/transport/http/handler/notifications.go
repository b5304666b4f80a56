package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/intake-dal/internal/application/notification"
	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/pkg/validate"
	"github.com/intake-dal/internal/transport/http/middleware"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: h.svc.GetForUser(r.Context(), claims.UserID, limit)})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, CountEnvelope{Count: h.svc.UnreadCount(r.Context(), claims.UserID)})
}

// MarkRead marks one notification read. Users may only touch their own; staff may touch any.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	n := h.svc.Get(r.Context(), id)
	if n == nil {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	if n.UserID != claims.UserID && claims.Role != domain.RoleStaff {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if !h.svc.MarkRead(r.Context(), id) {
		writeError(w, http.StatusInternalServerError, "notification could not be updated")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !h.svc.MarkAllRead(r.Context(), claims.UserID) {
		writeError(w, http.StatusInternalServerError, "notifications could not be updated")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "all notifications marked as read"})
}

// Create stores a notification for any user. CreatedBy defaults to the caller's name.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in domain.NotificationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if in.CreatedBy == "" {
		in.CreatedBy = displayName(claims.Name, claims.UserID)
	}
	if !h.svc.Notify(r.Context(), in) {
		writeError(w, http.StatusInternalServerError, "notification could not be created")
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "notification created"})
}

func displayName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
