package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	PingDB(ctx context.Context, timeout time.Duration) error
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// Handler exposes liveness and readiness endpoints.
type Handler struct {
	Checker      Checker
	DBTimeout    time.Duration
	RedisTimeout time.Duration
}

// Live reports process liveness; it never touches dependencies.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready probes each dependency and reports per-dependency status. Any
// failing probe turns the whole response into a 503.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	probes := []struct {
		name string
		run  func() error
	}{
		{"db", func() error { return h.Checker.PingDB(ctx, timeoutOr(h.DBTimeout, 500*time.Millisecond)) }},
		{"redis", func() error { return h.Checker.PingRedis(ctx, timeoutOr(h.RedisTimeout, 300*time.Millisecond)) }},
	}

	status := make(map[string]string, len(probes))
	healthy := true
	for _, probe := range probes {
		if err := probe.run(); err != nil {
			status[probe.name] = err.Error()
			healthy = false
			continue
		}
		status[probe.name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func timeoutOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
