// Package health provides Kubernetes-style liveness and readiness probes.
// Registered checks run periodically in a single background goroutine;
// the HTTP endpoints report the latest results.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc reports the health of one component; nil means healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Health runs liveness and readiness checks and serves probe endpoints.
type Health struct {
	mu        sync.RWMutex
	liveness  []check
	readiness []check
	failures  map[string]string

	ready  atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an empty Health service. Register checks, then call Start.
func New() *Health {
	return &Health{failures: make(map[string]string)}
}

// AddLivenessCheck registers a check that gates the /livez endpoint.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check that gates the /readyz endpoint.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, check{name: name, timeout: timeout, fn: fn})
}

// Start begins running all registered checks every interval until ctx is
// cancelled or Stop is called.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		h.runChecks(runCtx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				h.runChecks(runCtx)
			}
		}
	}()
}

// Stop halts the background check loop.
func (h *Health) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
}

// SetReady flips the readiness gate; used for startup and drain.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the readiness gate state.
func (h *Health) IsReady() bool {
	return h.ready.Load()
}

func (h *Health) runChecks(ctx context.Context) {
	h.mu.RLock()
	checks := make([]check, 0, len(h.liveness)+len(h.readiness))
	checks = append(checks, h.liveness...)
	checks = append(checks, h.readiness...)
	h.mu.RUnlock()

	failures := make(map[string]string)
	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		if err := c.fn(checkCtx); err != nil {
			failures[c.name] = err.Error()
		}
		cancel()
	}

	h.mu.Lock()
	h.failures = failures
	h.mu.Unlock()
}

func (h *Health) collect(checks []check) map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	failures := make(map[string]string)
	for _, c := range checks {
		if msg, ok := h.failures[c.name]; ok {
			failures[c.name] = msg
		}
	}
	return failures
}

// LiveEndpoint serves the liveness probe.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := h.liveness
	h.mu.RUnlock()
	writeResponse(w, h.collect(checks))
}

// ReadyEndpoint serves the readiness probe. It fails when the readiness
// gate is down or any readiness check is failing.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	if !h.ready.Load() {
		writeResponse(w, map[string]string{"ready": "not ready"})
		return
	}
	h.mu.RLock()
	checks := h.readiness
	h.mu.RUnlock()
	writeResponse(w, h.collect(checks))
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func writeResponse(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	if len(failures) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(probeResponse{Status: "unavailable", Checks: failures})
		return
	}
	_ = json.NewEncoder(w).Encode(probeResponse{Status: "ok"})
}
