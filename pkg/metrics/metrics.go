package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Negotiation outcomes used as the "outcome" label.
const (
	OutcomeSelected     = "selected"
	OutcomeNoShared     = "no_shared_suite"
	OutcomeNoCandidates = "no_candidates"
	OutcomeNoScheme     = "no_signature_scheme"
	OutcomeNoGroup      = "no_shared_group"
	OutcomeError        = "error"

	OutcomeResumed  = "resumed"
	OutcomeRejected = "rejected"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "suitekit"

// NegotiationLatencyBuckets are histogram bounds in seconds. Negotiation is
// a pure computation, so the interesting range is microseconds.
var NegotiationLatencyBuckets = []float64{
	0.000005, 0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.005,
}

// Collector records negotiation metrics into a Prometheus registry and keeps
// a few running totals for health reporting.
type Collector struct {
	registry *prometheus.Registry

	negotiations *prometheus.CounterVec
	suites       *prometheus.CounterVec
	groups       *prometheus.CounterVec
	resumptions  *prometheus.CounterVec
	duration     *prometheus.HistogramVec

	total    atomic.Uint64
	failures atomic.Uint64
	created  time.Time
}

// Labels are constant labels attached to every metric of a collector.
type Labels map[string]string

// NewCollector creates a collector with its own registry. Go runtime and
// process collectors are registered alongside the negotiation metrics.
func NewCollector(namespace string, labels Labels) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	constLabels := prometheus.Labels(labels)

	return &Collector{
		registry: reg,
		negotiations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "negotiations_total",
			Help:        "Cipher suite negotiations by policy and outcome",
			ConstLabels: constLabels,
		}, []string{"policy", "outcome"}),
		suites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "suite_selected_total",
			Help:        "Negotiations that selected each cipher suite",
			ConstLabels: constLabels,
		}, []string{"suite"}),
		groups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "group_selected_total",
			Help:        "Negotiations that selected each key exchange group",
			ConstLabels: constLabels,
		}, []string{"group"}),
		resumptions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "resumptions_total",
			Help:        "Session resumption decisions by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "negotiation_duration_seconds",
			Help:        "Time spent negotiating a cipher suite",
			Buckets:     NegotiationLatencyBuckets,
			ConstLabels: constLabels,
		}, []string{"policy"}),
		created: time.Now(),
	}
}

// RecordNegotiation counts one negotiation and observes its duration.
// suite is ignored unless outcome is OutcomeSelected.
func (c *Collector) RecordNegotiation(policy, outcome, suite string, d time.Duration) {
	c.total.Add(1)
	if outcome != OutcomeSelected {
		c.failures.Add(1)
	}
	c.negotiations.WithLabelValues(policy, outcome).Inc()
	c.duration.WithLabelValues(policy).Observe(d.Seconds())
	if outcome == OutcomeSelected && suite != "" {
		c.suites.WithLabelValues(suite).Inc()
	}
}

// RecordGroup counts a selected key exchange group.
func (c *Collector) RecordGroup(group string) {
	c.groups.WithLabelValues(group).Inc()
}

// RecordResumption counts a resumption decision.
func (c *Collector) RecordResumption(resumed bool) {
	outcome := OutcomeRejected
	if resumed {
		outcome = OutcomeResumed
	}
	c.resumptions.WithLabelValues(outcome).Inc()
}

// Snapshot is a point-in-time view of the collector's totals.
type Snapshot struct {
	Negotiations uint64        `json:"negotiations"`
	Failures     uint64        `json:"failures"`
	Uptime       time.Duration `json:"uptime"`
}

// FailureRate returns failures/negotiations, or 0 before the first one.
func (s Snapshot) FailureRate() float64 {
	if s.Negotiations == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Negotiations)
}

// Snapshot returns the running totals.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Negotiations: c.total.Load(),
		Failures:     c.failures.Load(),
		Uptime:       time.Since(c.created),
	}
}

// Registry exposes the underlying registry, for tests and custom exporters.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// --- Global Collector ---

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
	globalCollectorMu   sync.RWMutex
)

// Global returns the process-wide collector, creating it on first use.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollectorMu.Lock()
		if globalCollector == nil {
			globalCollector = NewCollector(DefaultNamespace, nil)
		}
		globalCollectorMu.Unlock()
	})
	globalCollectorMu.RLock()
	defer globalCollectorMu.RUnlock()
	return globalCollector
}

// SetGlobal replaces the process-wide collector.
func SetGlobal(c *Collector) {
	globalCollectorOnce.Do(func() {})
	globalCollectorMu.Lock()
	defer globalCollectorMu.Unlock()
	globalCollector = c
}
