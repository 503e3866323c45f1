package rest

import (
	"context"
	"net/http"
	"time"
)

type PingHandler interface {
	PingHandler(w http.ResponseWriter, r *http.Request)
}

// HealthCheck reports whether a backing store is reachable.
type HealthCheck func(ctx context.Context) error

type pingHandler struct {
	checks []HealthCheck
}

func NewPingHandler(checks ...HealthCheck) PingHandler {
	return &pingHandler{checks: checks}
}

func (that *pingHandler) PingHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, check := range that.checks {
		if err := check(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
