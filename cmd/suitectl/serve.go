package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sara-star-quant/suitekit/pkg/crypto"
	"github.com/sara-star-quant/suitekit/pkg/metrics"
	"github.com/sara-star-quant/suitekit/pkg/negotiate"
	"github.com/sara-star-quant/suitekit/pkg/suites"
)

func serveCommand(args []string, stdout io.Writer) error {
	fs := newFlagSet("serve", "serve [options]", stdout)
	var common commonFlags
	common.register(fs)
	addr := fs.String("addr", ":8080", "Listen address for the API, /metrics and health endpoints")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}

	engine, collector, err := common.engine(nil)
	if err != nil {
		return err
	}
	srv := newAPIServer(engine, collector, metrics.GetLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(stdout, "%s on %s (api: /v1/negotiate, /v1/resume; metrics: /metrics; health: /health, /healthz, /readyz)\n",
		successStyle.Render("Serving"), *addr)
	return srv.ListenAndServe(ctx, *addr)
}

// newAPIServer mounts the engine's API on an observability server whose
// health report includes the power-on and catalog self-tests.
func newAPIServer(engine *negotiate.Engine, collector *metrics.Collector, logger *metrics.Logger) *metrics.Server {
	health := metrics.NewHealthCheck(collector, getVersion())
	health.AddCheck("post", func() error {
		if !crypto.POSTPassed() {
			return fmt.Errorf("power-on self-test failed: %s", strings.Join(crypto.RunPOST().Errors, "; "))
		}
		return nil
	})
	health.AddCheck("catalog", suites.SelfTest)

	srv := metrics.NewServer(metrics.ServerConfig{
		Collector: collector,
		Health:    health,
		Logger:    logger,
	})
	srv.Handle("POST /v1/", engine.Handler())
	return srv
}
