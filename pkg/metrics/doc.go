// Package metrics provides the observability layer of suitekit: a structured
// logger, a Prometheus collector, a tracer abstraction with an OpenTelemetry
// adapter, health checks, and the observer a negotiation engine reports to.
//
// # Logging
//
//	logger := metrics.NewLogger(
//		metrics.WithLevel(metrics.LevelDebug),
//		metrics.WithFormat(metrics.FormatJSON),
//	)
//	logger.Named("negotiate").Info("suite selected", metrics.Fields{
//		"suite": "TLS13_AES_256_GCM_SHA384",
//	})
//
// # Metrics
//
// A Collector owns a Prometheus registry:
//
//	c := metrics.NewCollector("suitekit", metrics.Labels{"instance": "edge-1"})
//	c.RecordNegotiation("server", metrics.OutcomeSelected, "TLS13_AES_128_GCM_SHA256", d)
//	http.Handle("/metrics", c.Handler())
//
// Exported series:
//   - suitekit_negotiations_total{policy,outcome}
//   - suitekit_suite_selected_total{suite}
//   - suitekit_group_selected_total{group}
//   - suitekit_resumptions_total{outcome}
//   - suitekit_negotiation_duration_seconds{policy}
//
// # Tracing
//
//	metrics.SetTracer(metrics.NewOTelTracer(""))
//	ctx, end := metrics.StartSpan(ctx, metrics.SpanNegotiate)
//	defer end(nil)
//
// # Health
//
//	health := metrics.NewHealthCheck(c, version.String())
//	health.AddCheck("post", func() error { ... })
//	srv := metrics.NewServer(metrics.ServerConfig{Collector: c, Health: health})
//	srv.ListenAndServe(ctx, ":9090")
package metrics
