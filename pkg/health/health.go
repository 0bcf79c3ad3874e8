// Package health serves liveness and readiness endpoints. Checks run on
// demand with a per-check timeout.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Check probes one dependency. A nil return means healthy.
type Check func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      Check
}

// Service tracks liveness and readiness checks plus a manual ready gate
// used during graceful shutdown.
type Service struct {
	mu        sync.Mutex
	liveness  []check
	readiness []check
	ready     atomic.Bool
}

// New returns an empty health service. It reports not ready until
// SetReady(true) is called.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a check for the liveness endpoint.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check for the readiness endpoint.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the manual readiness gate. Shutdown sets it to false so
// load balancers drain before the listener closes.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// LiveEndpoint serves the liveness probe.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	checks := s.liveness
	s.mu.Unlock()
	s.serve(w, r, checks, true)
}

// ReadyEndpoint serves the readiness probe.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	checks := s.readiness
	s.mu.Unlock()
	s.serve(w, r, checks, s.ready.Load())
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request, checks []check, gate bool) {
	status := http.StatusOK
	results := make(map[string]string, len(checks))

	if !gate {
		status = http.StatusServiceUnavailable
	}
	for _, c := range checks {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		err := c.fn(ctx)
		cancel()
		if err != nil {
			status = http.StatusServiceUnavailable
			results[c.name] = err.Error()
			continue
		}
		results[c.name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": http.StatusText(status),
		"checks": results,
	})
}
