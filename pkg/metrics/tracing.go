package metrics

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracer starts spans around negotiation steps. NoOpTracer, SimpleTracer
// and OTelTracer implement it.
type Tracer interface {
	// StartSpan returns a context carrying the new span and the function
	// that ends it.
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder)
}

// SpanEnder ends a span. A non-nil error marks the span failed.
type SpanEnder func(err error)

// SpanOption configures span behavior.
type SpanOption func(*spanConfig)

type spanConfig struct {
	kind       SpanKind
	attributes map[string]any
}

func newSpanConfig(opts []SpanOption) *spanConfig {
	cfg := &spanConfig{kind: SpanKindInternal, attributes: map[string]any{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// SpanKind identifies the type of span.
type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindServer
	SpanKindClient
)

// WithSpanKind sets the span kind.
func WithSpanKind(kind SpanKind) SpanOption {
	return func(c *spanConfig) { c.kind = kind }
}

// WithAttributes adds span attributes. Later options override earlier keys.
func WithAttributes(attrs map[string]any) SpanOption {
	return func(c *spanConfig) { maps.Copy(c.attributes, attrs) }
}

// NoOpTracer does nothing. It is the global tracer until SetTracer is called.
type NoOpTracer struct{}

// StartSpan returns ctx unchanged.
func (NoOpTracer) StartSpan(ctx context.Context, _ string, _ ...SpanOption) (context.Context, SpanEnder) {
	return ctx, func(error) {}
}

// SimpleTracer records finished spans in memory. Tests use it to assert on
// what a negotiation traced.
type SimpleTracer struct {
	mu    sync.Mutex
	spans []RecordedSpan
}

// RecordedSpan is a finished span held by SimpleTracer.
type RecordedSpan struct {
	Name       string
	Kind       SpanKind
	Attributes map[string]any
	Start      time.Time
	Duration   time.Duration
	Err        error
	TraceID    string
	SpanID     string
	ParentID   string
}

// Failed reports whether the span ended with an error.
func (s RecordedSpan) Failed() bool { return s.Err != nil }

// NewSimpleTracer creates an empty SimpleTracer.
func NewSimpleTracer() *SimpleTracer {
	return &SimpleTracer{}
}

// StartSpan starts a span, nested under any SimpleTracer span in ctx.
func (t *SimpleTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder) {
	cfg := newSpanConfig(opts)
	span := &RecordedSpan{
		Name:       name,
		Kind:       cfg.kind,
		Attributes: cfg.attributes,
		Start:      time.Now(),
		SpanID:     uuid.NewString(),
	}
	if parent, ok := ctx.Value(spanContextKey{}).(*RecordedSpan); ok {
		span.TraceID = parent.TraceID
		span.ParentID = parent.SpanID
	} else {
		span.TraceID = uuid.NewString()
	}

	var once sync.Once
	return context.WithValue(ctx, spanContextKey{}, span), func(err error) {
		once.Do(func() {
			span.Duration = time.Since(span.Start)
			span.Err = err
			t.mu.Lock()
			t.spans = append(t.spans, *span)
			t.mu.Unlock()
		})
	}
}

// Spans returns a copy of the finished spans in completion order.
func (t *SimpleTracer) Spans() []RecordedSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]RecordedSpan(nil), t.spans...)
}

// SpansNamed returns the finished spans with the given name.
func (t *SimpleTracer) SpansNamed(name string) []RecordedSpan {
	var out []RecordedSpan
	for _, s := range t.Spans() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// Reset discards all recorded spans.
func (t *SimpleTracer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = nil
}

type spanContextKey struct{}

// --- Global Tracer ---

var (
	globalTracer   Tracer = NoOpTracer{}
	globalTracerMu sync.RWMutex
)

// SetTracer replaces the global tracer. A nil tracer restores NoOpTracer.
func SetTracer(t Tracer) {
	if t == nil {
		t = NoOpTracer{}
	}
	globalTracerMu.Lock()
	defer globalTracerMu.Unlock()
	globalTracer = t
}

// GetTracer returns the global tracer.
func GetTracer() Tracer {
	globalTracerMu.RLock()
	defer globalTracerMu.RUnlock()
	return globalTracer
}

// StartSpan starts a span using the global tracer.
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder) {
	return GetTracer().StartSpan(ctx, name, opts...)
}

// Span names for suitekit operations.
const (
	SpanNegotiate      = "suitekit.negotiate"
	SpanChooseSuite    = "suitekit.negotiate.suite"
	SpanResolveSchemes = "suitekit.negotiate.sigschemes"
	SpanChooseGroup    = "suitekit.negotiate.group"
	SpanResume         = "suitekit.resume"
	SpanProbe          = "suitekit.probe"
)

// NegotiationAttributes describes one negotiation for span attributes.
type NegotiationAttributes struct {
	NegotiationID string
	Version       string
	Policy        string
	Offered       int
	Suite         string
	Group         string
}

// ToMap converts the attributes to a generic map, omitting empty values.
func (a NegotiationAttributes) ToMap() map[string]any {
	m := make(map[string]any, 6)
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("negotiation.id", a.NegotiationID)
	set("tls.protocol.version", a.Version)
	set("tls.negotiation.policy", a.Policy)
	set("tls.cipher_suite", a.Suite)
	set("tls.named_group", a.Group)
	if a.Offered > 0 {
		m["tls.offered_suites"] = a.Offered
	}
	return m
}
