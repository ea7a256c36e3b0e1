package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Sandeep2229/push-notification-relay/internal/store"
	ws "github.com/Sandeep2229/push-notification-relay/internal/websocket"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	Store          *store.PostgresStore
	Runs           *store.RedisStore
	Dispatch       *DispatchHandler
	Check          *CheckHandler
	Hub            *ws.Hub
	VAPIDPublicKey string
	StaticFS       fs.FS
}

// NewRouter creates and configures the HTTP router.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// CORS for the browser client
	r.Use(corsMiddleware)

	subHandler := NewSubscriptionHandler(deps.Store)
	notifHandler := NewNotificationHandler(deps.Store)
	dashHandler := NewDashboardHandler(deps.Store, deps.Runs, deps.Hub)

	// WebSocket endpoint
	r.Get("/ws", deps.Hub.HandleWebSocket)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandler())
		r.Get("/vapid-public-key", vapidKeyHandler(deps.VAPIDPublicKey))

		r.Post("/dispatch", deps.Dispatch.Trigger)
		r.Post("/dispatch/check", deps.Check.Check)

		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", subHandler.Register)
			r.Get("/", subHandler.List)
			r.Delete("/{id}", subHandler.Deactivate)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/", notifHandler.Create)
			r.Get("/", notifHandler.List)
			r.Get("/{id}", notifHandler.Get)
		})

		r.Get("/metrics", dashHandler.Metrics)
	})

	// Serve the browser client (registration page + service worker)
	if deps.StaticFS != nil {
		fileServer := http.FileServer(http.FS(deps.StaticFS))
		r.Handle("/*", fileServer)
	}

	return r
}

// vapidKeyHandler hands the application server key to the browser client,
// which needs it to call pushManager.subscribe.
func vapidKeyHandler(publicKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"key": publicKey})
	}
}

// corsMiddleware adds CORS headers and answers OPTIONS preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
