// Package server serves registry snapshots, reports and metrics over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smykla-skalski/timemap/internal/metrics"
	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/logger"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a registry over HTTP.
type Server struct {
	registry *timemap.Registry
	defaults config.ReportConfig
	cfg      config.ServerConfig
	logger   logger.Logger
	router   *mux.Router
}

// New creates a Server. Report settings act as defaults that query
// parameters override per request.
func New(
	reg *timemap.Registry,
	cfg *config.ServerConfig,
	reportCfg *config.ReportConfig,
	log logger.Logger,
) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Server{
		registry: reg,
		logger:   log,
		router:   mux.NewRouter(),
	}

	if cfg != nil {
		s.cfg = *cfg
	}

	if reportCfg != nil {
		s.defaults = *reportCfg
	}

	s.router.Use(s.logRequests)
	s.RegisterRoutes(s.router)

	return s
}

// RegisterRoutes registers the API routes on r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/profiles", s.listProfiles).Methods(http.MethodGet)
	r.HandleFunc("/report", s.renderReport).Methods(http.MethodGet)
	r.HandleFunc("/reset", s.reset).Methods(http.MethodPost)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(
		metrics.NewRegistry(s.registry),
		promhttp.HandlerOpts{},
	)).Methods(http.MethodGet)
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// The bound address is sent on ready when it is non-nil.
func (s *Server) ListenAndServe(ctx context.Context, ready chan<- string) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.cfg.Listen)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadTimeout.ToDuration(),
	}

	s.logger.Info("serving", "addr", ln.Addr().String())

	if ready != nil {
		ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return errors.Wrap(err, "serving HTTP")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down HTTP server")
	}

	s.logger.Info("server stopped")

	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}
