package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricsRoute = "/metrics"
	HealthRoute  = "/healthz"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewHTTPHandler serves the Prometheus metrics of reg and a health check
// backed by db.
func NewHTTPHandler(reg prometheus.Gatherer, db Pinger, logger log.Logger) http.Handler {
	router := mux.NewRouter()
	router.Handle(MetricsRoute, promhttp.HandlerFor(
		reg,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics e.g. to support exemplars.
			EnableOpenMetrics: true,
		},
	)).Methods(http.MethodGet)
	router.HandleFunc(HealthRoute, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(ctx); err != nil {
			level.Error(logger).Log("msg", "database unreachable", "err", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
	}).Methods(http.MethodGet)
	return router
}
