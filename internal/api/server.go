// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	apihandler "github.com/quantlens/quantlens/internal/api/handler/api"
	"github.com/quantlens/quantlens/internal/api/handler/web"
	"github.com/quantlens/quantlens/internal/api/response"
	"github.com/quantlens/quantlens/internal/config"
	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/metrics"
	"github.com/quantlens/quantlens/internal/view"
	"go.uber.org/zap"
)

// Deps holds the collaborators the server routes to. Archiver and Summarizer
// may be nil when the corresponding feature is disabled.
type Deps struct {
	Engine     apihandler.Runner
	WebEngine  web.Engine
	Viewer     *view.Viewer
	Archiver   apihandler.Archiver
	Summarizer apihandler.Summarizer
	Metrics    *metrics.Registry
}

// Server is the HTTP front for the presentation layer.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(cfg config.Config, deps Deps, logger *zap.Logger) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      metrics.HTTPMiddleware(deps.Metrics)(mux),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	if err := s.setupRoutes(cfg, deps); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg config.Config, deps Deps) error {
	webHandler, err := web.NewHandler(deps.WebEngine, deps.Viewer, s.logger)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	s.mux.HandleFunc("GET /{$}", webHandler.Dashboard)
	s.mux.HandleFunc("POST /run", webHandler.SubmitRun)
	s.mux.HandleFunc("GET /backtests/{id}", withID(webHandler.Results))

	backtests := apihandler.NewBacktestHandler(deps.Engine, deps.Archiver, deps.Metrics, s.logger)
	s.mux.HandleFunc("POST /api/backtests/run", backtests.Run)
	s.mux.HandleFunc("GET /api/backtests", backtests.List)
	s.mux.HandleFunc("GET /api/backtests/{id}/report", withAPIID(backtests.Report))
	s.mux.HandleFunc("GET /api/backtests/{id}/chart", withAPIID(backtests.Chart))
	s.mux.HandleFunc("DELETE /api/backtests/{id}", withAPIID(backtests.Delete))
	s.mux.HandleFunc("GET /api/archive/{id}", withAPIID(backtests.Archived))

	insights := apihandler.NewInsightHandler(deps.Engine, deps.Summarizer, deps.Metrics, s.logger)
	s.mux.HandleFunc("GET /api/backtests/{id}/insight", withAPIID(insights.Get))

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if cfg.Metrics.Enabled {
		s.mux.Handle("GET "+cfg.Metrics.Path, promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	return nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// withID parses the {id} path segment for web pages.
func withID(next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		next(w, r, id)
	}
}

// withAPIID parses the {id} path segment for JSON endpoints.
func withAPIID(next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, http.StatusNotFound, core.ErrBacktestNotFound)
			return
		}
		next(w, r, id)
	}
}
