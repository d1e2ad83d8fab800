package metrics

import (
	"context"
	"time"
)

// NegotiationObserver bundles the collector, tracer and logger a negotiation
// engine reports to.
type NegotiationObserver struct {
	collector *Collector
	tracer    Tracer
	logger    *Logger
}

// ObserverConfig configures a NegotiationObserver. Nil fields fall back to
// the global collector, tracer and logger.
type ObserverConfig struct {
	Collector *Collector
	Tracer    Tracer
	Logger    *Logger
}

// NewNegotiationObserver creates an observer.
func NewNegotiationObserver(cfg ObserverConfig) *NegotiationObserver {
	if cfg.Collector == nil {
		cfg.Collector = Global()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = GetTracer()
	}
	if cfg.Logger == nil {
		cfg.Logger = GetLogger()
	}
	return &NegotiationObserver{
		collector: cfg.Collector,
		tracer:    cfg.Tracer,
		logger:    cfg.Logger.Named("negotiate"),
	}
}

// Logger returns the observer's logger.
func (o *NegotiationObserver) Logger() *Logger { return o.logger }

// Tracer returns the observer's tracer.
func (o *NegotiationObserver) Tracer() Tracer { return o.tracer }

// NegotiationResult is what OnNegotiationStart's completion function reports.
type NegotiationResult struct {
	Outcome string
	Suite   string
	Group   string
	Err     error
}

// OnNegotiationStart opens the negotiation span and returns the completion
// function that records metrics and logs the result.
func (o *NegotiationObserver) OnNegotiationStart(ctx context.Context, attrs NegotiationAttributes) (context.Context, func(NegotiationResult)) {
	start := time.Now()
	ctx, end := o.tracer.StartSpan(ctx, SpanNegotiate,
		WithSpanKind(SpanKindServer),
		WithAttributes(attrs.ToMap()))
	log := o.logger.With(Fields{
		"negotiation_id": attrs.NegotiationID,
		"version":        attrs.Version,
		"policy":         attrs.Policy,
		"offered":        attrs.Offered,
	})
	log.Debug("negotiation started")

	return ctx, func(r NegotiationResult) {
		d := time.Since(start)
		o.collector.RecordNegotiation(attrs.Policy, r.Outcome, r.Suite, d)
		if r.Group != "" {
			o.collector.RecordGroup(r.Group)
		}
		if r.Err != nil {
			log.Warn("negotiation failed", Fields{
				"outcome":  r.Outcome,
				"error":    r.Err,
				"duration": d.String(),
			})
		} else {
			log.Debug("negotiation completed", Fields{
				"suite":    r.Suite,
				"group":    r.Group,
				"duration": d.String(),
			})
		}
		end(r.Err)
	}
}

// OnResumption records a resumption decision.
func (o *NegotiationObserver) OnResumption(ctx context.Context, from, to string, resumed bool) {
	_, end := o.tracer.StartSpan(ctx, SpanResume, WithAttributes(map[string]any{
		"tls.resume.from": from,
		"tls.resume.to":   to,
		"tls.resumed":     resumed,
	}))
	o.collector.RecordResumption(resumed)
	o.logger.Debug("resumption decided", Fields{"from": from, "to": to, "resumed": resumed})
	end(nil)
}
