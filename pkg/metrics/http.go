package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	serverReadHeaderTimeout = 5 * time.Second
	serverReadTimeout       = 10 * time.Second
	serverWriteTimeout      = 10 * time.Second
	serverIdleTimeout       = 120 * time.Second
	serverShutdownTimeout   = 5 * time.Second
)

// ServerConfig configures the observability server.
type ServerConfig struct {
	Collector *Collector
	Health    *HealthCheck
	Logger    *Logger
}

// Server exposes /metrics, /health, /healthz and /readyz. Callers may mount
// further handlers with Handle before serving.
type Server struct {
	mux    *http.ServeMux
	logger *Logger
}

// NewServer creates an observability server. A nil Collector uses Global();
// a nil Health gets a health check with no registered checks.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Collector == nil {
		cfg.Collector = Global()
	}
	if cfg.Health == nil {
		cfg.Health = NewHealthCheck(cfg.Collector, "")
	}
	if cfg.Logger == nil {
		cfg.Logger = GetLogger()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", cfg.Collector.Handler())
	mux.Handle("GET /health", cfg.Health.Handler())
	mux.Handle("GET /healthz", cfg.Health.LivenessHandler())
	mux.Handle("GET /readyz", cfg.Health.ReadinessHandler())

	return &Server{mux: mux, logger: cfg.Logger.Named("http")}
}

// Handle registers an additional route, using net/http pattern syntax.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Handler returns the server's mux.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: serverReadHeaderTimeout,
		ReadTimeout:       serverReadTimeout,
		WriteTimeout:      serverWriteTimeout,
		IdleTimeout:       serverIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
