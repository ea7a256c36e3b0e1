package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Sandeep2229/push-notification-relay/internal/poller"
)

// PendingPoller is the timer entrypoint's delegate.
type PendingPoller interface {
	Check(ctx context.Context) (*poller.Result, error)
}

type CheckHandler struct {
	poller PendingPoller
	logger *slog.Logger
}

func NewCheckHandler(p PendingPoller, logger *slog.Logger) *CheckHandler {
	return &CheckHandler{poller: p, logger: logger}
}

// Check is the timer entrypoint: peek at the log and delegate to dispatch
// when pending rows exist. Exposed over HTTP so an external cron can drive
// the same logic as the in-process ticker.
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	result, err := h.poller.Check(r.Context())
	if err != nil {
		h.logger.Error("pending check failed", "error", err)
		respondErrorDetails(w, http.StatusInternalServerError,
			"failed to check pending notifications", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}
