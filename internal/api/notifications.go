package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Sandeep2229/push-notification-relay/internal/domain"
	"github.com/Sandeep2229/push-notification-relay/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	store *store.PostgresStore
}

func NewNotificationHandler(s *store.PostgresStore) *NotificationHandler {
	return &NotificationHandler{store: s}
}

// Create appends a row to the notification log. Delivery happens on the
// next dispatch pass, not here.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	n, err := h.store.CreateNotification(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create notification")
		return
	}

	respondJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	onlyPending := r.URL.Query().Get("pending") == "true"

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	notifications, err := h.store.ListNotifications(r.Context(), onlyPending, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	n, err := h.store.GetNotification(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get notification")
		return
	}
	if n == nil {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}

	respondJSON(w, http.StatusOK, n)
}
