package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/haskel/calburn/internal/config"
	"github.com/haskel/calburn/internal/monitor"
	"github.com/haskel/calburn/internal/predictor"
	"github.com/haskel/calburn/internal/report"
	"github.com/haskel/calburn/internal/server/middleware"
	"github.com/haskel/calburn/internal/storage"
)

// protectedPaths require Basic Auth when it is enabled.
var protectedPaths = []string{"/api/*", "/status"}

type Server struct {
	httpServer *http.Server
	predictor  *predictor.Predictor
	store      *storage.ArtifactStore
	aggregator *monitor.Aggregator
	config     *config.Config
	chart      report.ChartOptions
	logger     *slog.Logger
	version    string
	started    time.Time
}

// New wires the handlers around a loaded predictor. aggregator may be nil,
// in which case /status omits runtime statistics.
func New(cfg *config.Config, pred *predictor.Predictor, store *storage.ArtifactStore, agg *monitor.Aggregator, logger *slog.Logger, version string) *Server {
	s := &Server{
		predictor:  pred,
		store:      store,
		aggregator: agg,
		config:     cfg,
		chart:      cfg.ChartOptions(),
		logger:     logger,
		version:    version,
		started:    time.Now(),
	}

	mux := s.setupRoutes()

	handler := middleware.Chain(
		mux,
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.SecurityHeaders(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           cfg.Server.RateLimit.Enabled,
			RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
			TrustProxy:        cfg.Server.RateLimit.TrustProxy,
		}),
		middleware.Auth(middleware.AuthConfig{
			Enabled:  cfg.Auth.Enabled,
			User:     cfg.Auth.User,
			Password: cfg.Auth.Password,
		}, protectedPaths...),
		middleware.MaxBody(cfg.Server.MaxBodyBytes),
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("server starting",
		"addr", s.httpServer.Addr,
		"model", s.predictor.ModelName(),
		"include_bmi", s.predictor.IncludesBMI(),
	)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
