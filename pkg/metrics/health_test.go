package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthCheckHealthy(t *testing.T) {
	h := NewHealthCheck(nil, "1.2.3")
	h.AddCheck("post", func() error { return nil })

	resp := h.Check()
	if resp.Status != HealthStatusHealthy {
		t.Errorf("status = %s, want healthy", resp.Status)
	}
	if resp.Version != "1.2.3" || resp.Checks["post"].Status != HealthStatusHealthy {
		t.Errorf("response = %+v", resp)
	}
	if resp.Metrics != nil {
		t.Error("no collector means no metrics section")
	}
}

func TestHealthCheckUnhealthy(t *testing.T) {
	h := NewHealthCheck(nil, "")
	h.AddCheck("catalog", func() error { return errors.New("duplicate suite id") })

	resp := h.Check()
	if resp.Status != HealthStatusUnhealthy {
		t.Errorf("status = %s, want unhealthy", resp.Status)
	}
	if resp.Checks["catalog"].Message != "duplicate suite id" {
		t.Errorf("message = %q", resp.Checks["catalog"].Message)
	}

	h.RemoveCheck("catalog")
	if h.Check().Status != HealthStatusHealthy {
		t.Error("removing the failing check should restore health")
	}
}

func TestHealthCheckDegraded(t *testing.T) {
	c := NewCollector("", nil)
	c.RecordNegotiation("server", OutcomeNoShared, "", time.Microsecond)
	c.RecordNegotiation("server", OutcomeNoShared, "", time.Microsecond)
	c.RecordNegotiation("server", OutcomeSelected, "TLS13_AES_128_GCM_SHA256", time.Microsecond)

	resp := NewHealthCheck(c, "").Check()
	if resp.Status != HealthStatusDegraded {
		t.Errorf("status = %s, want degraded", resp.Status)
	}
	if resp.Metrics == nil || resp.Metrics.Negotiations != 3 || resp.Metrics.Failures != 2 {
		t.Errorf("metrics = %+v", resp.Metrics)
	}
}

func TestHealthHandlers(t *testing.T) {
	h := NewHealthCheck(nil, "")
	failing := false
	h.AddCheck("toggle", func() error {
		if failing {
			return errors.New("down")
		}
		return nil
	})

	tests := []struct {
		name    string
		handler http.Handler
		failing bool
		code    int
	}{
		{"health ok", h.Handler(), false, http.StatusOK},
		{"health down", h.Handler(), true, http.StatusServiceUnavailable},
		{"ready ok", h.ReadinessHandler(), false, http.StatusOK},
		{"ready down", h.ReadinessHandler(), true, http.StatusServiceUnavailable},
		{"live while down", h.LivenessHandler(), true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failing = tt.failing
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Errorf("body is not JSON: %v", err)
			}
		})
	}
}

func TestServerRoutes(t *testing.T) {
	c := NewCollector("", nil)
	srv := NewServer(ServerConfig{Collector: c, Logger: NullLogger()})
	srv.Handle("GET /extra", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		path string
		code int
	}{
		{"/metrics", http.StatusOK},
		{"/health", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/extra", http.StatusTeapot},
		{"/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.code)
		}
	}
}

func TestObserverRecordsNegotiation(t *testing.T) {
	c := NewCollector("obs", nil)
	tracer := NewSimpleTracer()
	o := NewNegotiationObserver(ObserverConfig{Collector: c, Tracer: tracer, Logger: NullLogger()})

	_, done := o.OnNegotiationStart(t.Context(), NegotiationAttributes{Policy: "client", Offered: 2})
	done(NegotiationResult{Outcome: OutcomeSelected, Suite: "TLS13_AES_128_GCM_SHA256", Group: "X25519"})

	_, done = o.OnNegotiationStart(t.Context(), NegotiationAttributes{Policy: "client"})
	done(NegotiationResult{Outcome: OutcomeNoShared, Err: errors.New("no shared cipher suite")})

	o.OnResumption(t.Context(), "a", "b", true)

	if snap := c.Snapshot(); snap.Negotiations != 2 || snap.Failures != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if got := metricValue(t, c, "obs_group_selected_total", map[string]string{"group": "X25519"}); got != 1 {
		t.Errorf("group counter = %v", got)
	}
	if got := metricValue(t, c, "obs_resumptions_total", map[string]string{"outcome": OutcomeResumed}); got != 1 {
		t.Errorf("resumption counter = %v", got)
	}
	spans := tracer.SpansNamed(SpanNegotiate)
	if len(spans) != 2 || spans[0].Failed() || !spans[1].Failed() {
		t.Errorf("negotiate spans = %+v", spans)
	}
	if len(tracer.SpansNamed(SpanResume)) != 1 {
		t.Error("resumption span missing")
	}
}
