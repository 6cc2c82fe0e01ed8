package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	PingStore(ctx context.Context, timeout time.Duration) error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker      Checker
	StoreTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness. A failing persistence probe is reported as
// degraded but keeps the status 200: the in-memory state stays
// authoritative and the service can still take edits.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	storeStatus := "ok"
	if h.Checker != nil {
		if err := h.Checker.PingStore(r.Context(), h.storeTimeout()); err != nil {
			storeStatus = "degraded: " + err.Error()
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"persistence": storeStatus})
}

func (h Handler) storeTimeout() time.Duration {
	if h.StoreTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.StoreTimeout
}
