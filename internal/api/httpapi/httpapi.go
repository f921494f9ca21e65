// Package httpapi exposes the game service as a JSON HTTP API.
package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openplay/jockeys/internal/platform/metrics"
	"github.com/openplay/jockeys/internal/registry"
)

// Server is the HTTP layer. It delegates to the session registry and the
// turn orchestrator and keeps transport concerns out of the core.
type Server struct {
	registry *registry.Registry
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// NewServer builds the HTTP layer. metrics and gatherer may be nil.
func NewServer(reg *registry.Registry, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	return &Server{registry: reg, metrics: m, gatherer: gatherer}
}

// Router wires all routes behind a permissive CORS policy; the frontend is
// served from a different origin.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/game/create", s.handleCreate)
	mux.HandleFunc("POST /api/game/turn", s.handleTurn)
	mux.HandleFunc("POST /api/game/human-move", s.handleHumanMove)
	mux.HandleFunc("GET /api/game/{id}/state", s.handleState)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return cors(mux)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
