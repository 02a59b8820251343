package server

import (
	"encoding/json"
	"net/http"

	"github.com/davseby/adgateway/internal/broker"
	"golang.org/x/exp/slog"
)

// StateSource should report the broker connection state.
type StateSource interface {
	// State should return the current broker state.
	State() broker.State
}

// NewStatusHandler creates a handler serving only the status endpoints.
func NewStatusHandler(log *slog.Logger, state StateSource, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	registerStatus(mux, log.With("job", "status"), state, metrics)

	return requestID(mux)
}

// registerStatus registers the health and metrics endpoints.
func registerStatus(mux *http.ServeMux, log *slog.Logger, state StateSource, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		current := state.State()

		status := http.StatusOK
		if current != broker.StateConnected {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		err := json.NewEncoder(w).Encode(struct {
			Broker string `json:"broker"`
		}{
			Broker: current.String(),
		})
		if err != nil {
			log.Debug("writing health status", slog.String("error", err.Error()))
		}
	})

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}
