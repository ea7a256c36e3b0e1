// mock-push-service stands in for a browser push service during local
// testing. Register subscriptions whose endpoints point at these routes to
// exercise the dispatcher's success, terminal-failure, and transient-failure
// paths without real devices.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

var requestCount atomic.Int64

func main() {
	port := "9090"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}

	// Healthy endpoint — accepts every push
	http.HandleFunc("/push/ok", func(w http.ResponseWriter, r *http.Request) {
		count := requestCount.Add(1)
		logRequest(r, count, http.StatusCreated)
		w.WriteHeader(http.StatusCreated)
	})

	// Slow endpoint — accepts after a 3 second delay
	http.HandleFunc("/push/slow", func(w http.ResponseWriter, r *http.Request) {
		count := requestCount.Add(1)
		time.Sleep(3 * time.Second)
		logRequest(r, count, http.StatusCreated)
		w.WriteHeader(http.StatusCreated)
	})

	// Expired endpoint — terminal failure, should deactivate the subscription
	http.HandleFunc("/push/gone", func(w http.ResponseWriter, r *http.Request) {
		count := requestCount.Add(1)
		logRequest(r, count, http.StatusGone)
		w.WriteHeader(http.StatusGone)
	})

	// Broken endpoint — transient failure, should be logged and skipped
	http.HandleFunc("/push/fail", func(w http.ResponseWriter, r *http.Request) {
		count := requestCount.Add(1)
		logRequest(r, count, http.StatusInternalServerError)
		w.WriteHeader(http.StatusInternalServerError)
	})

	// Stats endpoint — shows request count
	http.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total_requests":%d}`, requestCount.Load())
	})

	log.Printf("Mock push service starting on :%s", port)
	log.Printf("  POST /push/ok    -> 201 Created")
	log.Printf("  POST /push/slow  -> 201 Created (3s delay)")
	log.Printf("  POST /push/gone  -> 410 Gone")
	log.Printf("  POST /push/fail  -> 500 Error")
	log.Printf("  GET  /stats      -> request count")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func logRequest(r *http.Request, count int64, status int) {
	fmt.Printf("[#%d] %s %s -> %d | ttl=%s enc=%s len=%d\n",
		count,
		r.Method,
		r.URL.Path,
		status,
		r.Header.Get("TTL"),
		r.Header.Get("Content-Encoding"),
		r.ContentLength,
	)
}
