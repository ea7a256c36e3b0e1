package api

import (
	"net/http"

	"github.com/Sandeep2229/push-notification-relay/internal/store"
	ws "github.com/Sandeep2229/push-notification-relay/internal/websocket"
)

type DashboardHandler struct {
	store *store.PostgresStore
	runs  *store.RedisStore
	hub   *ws.Hub
}

func NewDashboardHandler(s *store.PostgresStore, runs *store.RedisStore, hub *ws.Hub) *DashboardHandler {
	return &DashboardHandler{store: s, runs: runs, hub: hub}
}

// Metrics returns aggregated relay statistics plus the recent run history.
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.store.GetDispatchMetrics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get metrics")
		return
	}

	recentRuns, err := h.runs.RecentRuns(r.Context(), 20)
	if err != nil {
		// Run history is best-effort; the DB aggregates still stand
		recentRuns = []store.RunRecord{}
	}

	type metricsResponse struct {
		store.DispatchMetrics
		RecentRuns       []store.RunRecord `json:"recent_runs"`
		WebSocketClients int               `json:"websocket_clients"`
	}

	respondJSON(w, http.StatusOK, metricsResponse{
		DispatchMetrics:  *metrics,
		RecentRuns:       recentRuns,
		WebSocketClients: h.hub.ClientCount(),
	})
}
