package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sara-star-quant/suitekit/pkg/metrics"
	"github.com/sara-star-quant/suitekit/pkg/negotiate"
)

// commonFlags are shared by the commands that build an Engine.
type commonFlags struct {
	config    string
	policy    string
	logLevel  string
	logFormat string
	tracing   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "YAML negotiation config (default: built-in defaults)")
	fs.StringVar(&c.policy, "policy", "", "Override the config policy: server or client")
	fs.StringVar(&c.logLevel, "log-level", "", "Override the config log level: debug, info, warn, error, silent")
	fs.StringVar(&c.logFormat, "log-format", "", "Override the config log format: text or json")
	fs.StringVar(&c.tracing, "tracing", "none", "Tracing mode: none, simple, otel")
}

// load reads the config file, if any, and applies flag overrides.
func (c *commonFlags) load() (negotiate.Config, error) {
	cfg := negotiate.DefaultConfig()
	cfg.LogLevel = "warn"
	if c.config != "" {
		var err error
		if cfg, err = negotiate.LoadConfig(c.config); err != nil {
			return negotiate.Config{}, err
		}
	}
	if c.policy != "" {
		cfg.Policy = c.policy
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.logFormat != "" {
		cfg.LogFormat = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return negotiate.Config{}, err
	}
	return cfg, nil
}

// engine builds an Engine wired to freshly installed global observability.
func (c *commonFlags) engine(logOut io.Writer) (*negotiate.Engine, *metrics.Collector, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, nil, err
	}
	collector, logger, err := setupObservability(cfg, c.tracing, logOut)
	if err != nil {
		return nil, nil, err
	}
	e, err := negotiate.New(cfg,
		negotiate.WithCollector(collector),
		negotiate.WithLogger(logger),
		negotiate.WithTracer(metrics.GetTracer()))
	if err != nil {
		return nil, nil, err
	}
	return e, collector, nil
}

func setupObservability(cfg negotiate.Config, tracing string, logOut io.Writer) (*metrics.Collector, *metrics.Logger, error) {
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := cfg.Logger(logOut).With(metrics.Fields{"app": "suitectl"})
	metrics.SetLogger(logger)

	switch strings.ToLower(tracing) {
	case "", "none":
		metrics.SetTracer(metrics.NoOpTracer{})
	case "simple":
		metrics.SetTracer(metrics.NewSimpleTracer())
	case "otel":
		metrics.SetTracer(metrics.NewOTelTracer("suitectl"))
	default:
		return nil, nil, usageError{fmt.Sprintf("invalid tracing mode: %s (use none, simple, or otel)", tracing)}
	}

	collector := metrics.NewCollector(metrics.DefaultNamespace, metrics.Labels{
		"service": "suitectl",
	})
	metrics.SetGlobal(collector)

	return collector, logger, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
