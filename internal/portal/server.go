// Package portal exposes the extraction pipeline over HTTP: trigger an
// extraction, scan without writing files, re-export an edited list, and
// download the rendered import files.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/engine"
	"github.com/arrowtools/arrowcat/internal/export"
	"github.com/arrowtools/arrowcat/internal/observability"
)

// Server wires the engine and exporters into an HTTP surface.
type Server struct {
	cfg        *config.Config
	engine     *engine.Engine
	csv        *export.CSVExporter
	store      export.Store
	metrics    *observability.Metrics
	exportsDir string
	logger     *slog.Logger
	httpSrv    *http.Server
}

// NewServer creates the portal server. store may be nil.
func NewServer(cfg *config.Config, eng *engine.Engine, store export.Store, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		engine:     eng,
		csv:        export.NewCSVExporter(&cfg.Export, logger),
		store:      store,
		metrics:    metrics,
		exportsDir: cfg.Export.OutputDir,
		logger:     logger.With("component", "portal"),
	}

	s.httpSrv = &http.Server{
		Addr:              cfg.Portal.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Portal.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Post("/scan", s.handleScan)
		r.Post("/export", s.handleExport)
		r.Get("/download/{filename}", s.handleDownload)
		r.Get("/health", s.handleHealth)
	})

	if s.cfg.Metrics.Enabled && s.metrics != nil {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, s.metrics)
	}

	return r
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("portal listening", "addr", s.cfg.Portal.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
