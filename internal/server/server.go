package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/warden/internal/models"
	"github.com/UnknownOlympus/warden/internal/search"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Searcher answers property search queries.
type Searcher interface {
	Search(ctx context.Context, query search.Query) (*models.PageResult, error)
}

// Pinger checks database reachability for health reporting.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the property search API together with health and metrics
// endpoints.
type Server struct {
	log      *slog.Logger
	searcher Searcher
	db       Pinger
	router   *mux.Router
}

// New creates a Server and registers its routes.
func New(log *slog.Logger, searcher Searcher, db Pinger, reg *prometheus.Registry) *Server {
	srv := &Server{
		log:      log,
		searcher: searcher,
		db:       db,
	}

	router := mux.NewRouter()
	router.HandleFunc("/properties", srv.handleProperties).Methods(http.MethodGet)
	router.HandleFunc("/weather-codes", srv.handleWeatherCodes).Methods(http.MethodGet)
	router.HandleFunc("/healthz", srv.handleHealthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	srv.router = router

	return srv
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API on the given port until the context is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	const (
		readTimeout     = 5 * time.Second
		writeTimeout    = 30 * time.Second
		shutdownTimeout = 10 * time.Second
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.log.InfoContext(ctx, "API server started", "port", port)

	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}

	s.log.Info("API server stopped gracefully")

	return nil
}
