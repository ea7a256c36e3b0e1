package api

import (
	"encoding/json"
	"net/http"

	"github.com/Sandeep2229/push-notification-relay/internal/domain"
	"github.com/Sandeep2229/push-notification-relay/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SubscriptionHandler struct {
	store *store.PostgresStore
}

func NewSubscriptionHandler(s *store.PostgresStore) *SubscriptionHandler {
	return &SubscriptionHandler{store: s}
}

// Register stores a browser PushSubscription. Re-registering a known
// endpoint refreshes its keys and re-activates it.
func (h *SubscriptionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Endpoint == "" {
		respondError(w, http.StatusBadRequest, "endpoint is required")
		return
	}
	if req.Keys.P256dh == "" || req.Keys.Auth == "" {
		respondError(w, http.StatusBadRequest, "keys.p256dh and keys.auth are required")
		return
	}

	sub, err := h.store.RegisterSubscription(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to register subscription")
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		subs []domain.Subscription
		err  error
	)
	if r.URL.Query().Get("active") == "true" {
		subs, err = h.store.ListActiveSubscriptions(r.Context())
	} else {
		subs, err = h.store.ListSubscriptions(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}

	respondJSON(w, http.StatusOK, subs)
}

// Deactivate marks a subscription inactive. The row is kept so a returning
// device can re-activate it by re-registering.
func (h *SubscriptionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	sub, err := h.store.GetSubscription(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get subscription")
		return
	}
	if sub == nil {
		respondError(w, http.StatusNotFound, "subscription not found")
		return
	}

	if err := h.store.DeactivateSubscription(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to deactivate subscription")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
