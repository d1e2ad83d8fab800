package metrics

import (
	"encoding/json"
	"maps"
	"net/http"
	"sync"
	"time"
)

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// DegradedFailureRate is the negotiation failure rate above which a healthy
// instance reports itself degraded. Peers with no suite in common are
// expected occasionally; a high rate usually means a misconfigured suite list.
const DegradedFailureRate = 0.5

// CheckFunc performs one health check. A nil error means healthy.
type CheckFunc func() error

// HealthCheck aggregates named checks and negotiation totals.
type HealthCheck struct {
	mu        sync.RWMutex
	checks    map[string]CheckFunc
	collector *Collector
	started   time.Time
	version   string
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Version   string                 `json:"version,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Metrics   *HealthMetrics         `json:"metrics,omitempty"`
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthMetrics summarizes negotiation activity.
type HealthMetrics struct {
	Negotiations uint64  `json:"negotiations"`
	Failures     uint64  `json:"failures"`
	FailureRate  float64 `json:"failure_rate"`
}

// NewHealthCheck creates a health check. collector may be nil.
func NewHealthCheck(collector *Collector, version string) *HealthCheck {
	return &HealthCheck{
		checks:    make(map[string]CheckFunc),
		collector: collector,
		started:   time.Now(),
		version:   version,
	}
}

// AddCheck registers a named check, replacing any check of the same name.
func (h *HealthCheck) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// RemoveCheck unregisters a named check.
func (h *HealthCheck) RemoveCheck(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.checks, name)
}

// Check runs every registered check and derives the overall status.
func (h *HealthCheck) Check() HealthResponse {
	h.mu.RLock()
	checks := maps.Clone(h.checks)
	h.mu.RUnlock()

	resp := HealthResponse{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
		Checks:    make(map[string]CheckResult, len(checks)),
	}

	for name, check := range checks {
		start := time.Now()
		err := check()
		result := CheckResult{Status: HealthStatusHealthy, Latency: time.Since(start).String()}
		if err != nil {
			result.Status = HealthStatusUnhealthy
			result.Message = err.Error()
			resp.Status = HealthStatusUnhealthy
		}
		resp.Checks[name] = result
	}

	if h.collector != nil {
		snap := h.collector.Snapshot()
		resp.Metrics = &HealthMetrics{
			Negotiations: snap.Negotiations,
			Failures:     snap.Failures,
			FailureRate:  snap.FailureRate(),
		}
		if resp.Status == HealthStatusHealthy && snap.FailureRate() > DegradedFailureRate {
			resp.Status = HealthStatusDegraded
		}
	}

	return resp
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Handler serves the full health report. Unhealthy maps to 503.
func (h *HealthCheck) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := h.Check()
		code := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

// LivenessHandler always answers 200 while the process runs.
func (h *HealthCheck) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})
}

// ReadinessHandler answers 200 unless a check fails.
func (h *HealthCheck) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := h.Check()
		ready := resp.Status != HealthStatusUnhealthy
		code := http.StatusOK
		if !ready {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]any{"status": resp.Status, "ready": ready})
	})
}
