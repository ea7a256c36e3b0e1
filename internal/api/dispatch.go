package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sandeep2229/push-notification-relay/internal/dispatch"
	"github.com/Sandeep2229/push-notification-relay/internal/limiter"
	"github.com/Sandeep2229/push-notification-relay/internal/store"
	"github.com/google/uuid"
)

// DispatchRunner executes one dispatch pass.
type DispatchRunner interface {
	Run(ctx context.Context, req dispatch.Request) (*dispatch.Summary, error)
}

type DispatchHandler struct {
	dispatcher  DispatchRunner
	limiter     *limiter.Limiter
	runs        *store.RedisStore
	logger      *slog.Logger
	triggerRate int
}

func NewDispatchHandler(d DispatchRunner, l *limiter.Limiter, runs *store.RedisStore, logger *slog.Logger, triggerRate int) *DispatchHandler {
	return &DispatchHandler{
		dispatcher:  d,
		limiter:     l,
		runs:        runs,
		logger:      logger,
		triggerRate: triggerRate,
	}
}

type triggerRequest struct {
	NotificationID string `json:"notificationId"`
	SendAll        bool   `json:"sendAll"`
	Type           string `json:"type"`
}

type triggerResponse struct {
	Success       bool `json:"success"`
	Sent          int  `json:"sent"`
	Notifications int  `json:"notifications"`
	Subscribers   int  `json:"subscribers"`
	Failed        int  `json:"failed"`
}

// Trigger is the operator-facing dispatch entrypoint: send one notification
// by id, or drain everything pending.
func (h *DispatchHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(r.Context(), "dispatch", h.triggerRate) {
		respondError(w, http.StatusTooManyRequests, "too many dispatch requests")
		return
	}

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.NotificationID != "" {
		if _, err := uuid.Parse(req.NotificationID); err != nil {
			respondError(w, http.StatusBadRequest, "notificationId must be a UUID")
			return
		}
	}

	runReq := dispatch.Request{
		NotificationID: req.NotificationID,
		SendAll:        req.SendAll || req.Type == "pending",
	}

	start := time.Now()
	summary, err := h.dispatcher.Run(r.Context(), runReq)
	h.recordRun(r.Context(), "api", start, summary, err)

	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrInvalidRequest):
			respondError(w, http.StatusBadRequest, "missing notificationId or sendAll")
		case errors.Is(err, dispatch.ErrNotificationNotFound):
			respondError(w, http.StatusNotFound, "notification not found")
		default:
			h.logger.Error("dispatch pass failed", "error", err)
			respondErrorDetails(w, http.StatusInternalServerError,
				"failed to send notifications", err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, triggerResponse{
		Success:       true,
		Sent:          summary.Sent,
		Notifications: summary.Notifications,
		Subscribers:   summary.Subscribers,
		Failed:        summary.Failed,
	})
}

// recordRun keeps the dashboard's run history. Failures to record are logged
// and otherwise ignored; history is best-effort.
func (h *DispatchHandler) recordRun(ctx context.Context, trigger string, start time.Time, summary *dispatch.Summary, runErr error) {
	if h.runs == nil {
		return
	}

	rec := store.RunRecord{
		Trigger:    trigger,
		StartedAt:  start,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if summary != nil {
		rec.Sent = summary.Sent
		rec.Notifications = summary.Notifications
		rec.Subscribers = summary.Subscribers
		rec.Failed = summary.Failed
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}

	if err := h.runs.RecordRun(ctx, rec); err != nil {
		h.logger.Error("failed to record dispatch run", "error", err)
	}
}
