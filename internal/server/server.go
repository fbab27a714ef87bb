package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/matchday-service/internal/app/bets"
	"github.com/preston-bernstein/matchday-service/internal/config"
	httpserver "github.com/preston-bernstein/matchday-service/internal/http"
	"github.com/preston-bernstein/matchday-service/internal/http/handlers"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/poller"
	"github.com/preston-bernstein/matchday-service/internal/providers"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	service       *bets.Service
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	syncer        syncRunner
	closers       []func() error
	metricsStop   func(context.Context) error
}

type syncRunner interface {
	Run(ctx context.Context)
}

// New constructs a server with the configured source, store and notifiers.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithSource(ctx, cfg, logger, nil, nil)
}

// newServerWithSource wires every component. A non-nil source replaces the configured
// one and is only wrapped with retries; a non-nil recorder skips telemetry setup.
func newServerWithSource(ctx context.Context, cfg config.Config, logger *slog.Logger, source providers.FixtureSource, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newSourceFactory(logger, recorder)
	if source == nil {
		source = factory.build(cfg)
	} else {
		source = factory.withRetry(cfg, source, normalizeSourceName(cfg.Source.Name, source))
	}

	userStore, closeStore, err := buildStore(ctx, cfg.Store)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(ctx)
		}
		return nil, fmt.Errorf("build store: %w", err)
	}

	caches := buildCaches(cfg, source, logger, recorder)
	notifiers := buildNotifiers(cfg, logger)

	svc := bets.NewService(bets.Config{
		Store:            userStore,
		Source:           source,
		Dates:            caches.dates,
		Results:          caches.results,
		Notifier:         notifiers.notifier,
		Metrics:          recorder,
		Logger:           logger,
		MaxRetries:       cfg.Store.MaxRetries,
		SweepConcurrency: cfg.Sweep.Concurrency,
	})

	var plr Poller
	if cfg.Sweep.Enabled {
		plr = poller.New(svc, logger, cfg.Sweep.Interval)
	}

	var wsHandler http.Handler
	if notifiers.hub != nil {
		wsHandler = notifiers.hub
	}
	httpSrv := buildHTTPServer(cfg, svc, wsHandler, logger, recorder, plr)

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		service:       svc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		closers:       append(notifiers.closers, closeStore),
		metricsStop:   metricsShutdown,
	}
	if caches.syncer != nil {
		srv.syncer = caches.syncer
	}
	return srv, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, svc *bets.Service, ws http.Handler, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	routerCfg := httpserver.RouterConfig{
		Handler:     handlers.NewHandler(svc, logger, statusFn),
		WebSocket:   ws,
		Logger:      logger,
		Metrics:     recorder,
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.AdminToken != "" {
		routerCfg.Admin = handlers.NewAdminHandler(svc, cfg.AdminToken, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpserver.NewRouter(routerCfg),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the sweeper, snapshot sync and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.poller != nil {
		s.poller.Start(ctx)
	}
	if s.syncer != nil {
		go s.syncer.Run(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.poller != nil {
		if err := s.poller.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop poller", "error", err)
		}
	}

	// Notifiers and the store close only once nothing can settle anymore.
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && s.logger != nil {
			s.logger.Warn("close failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Service exposes the bets service (useful for tests).
func (s *Server) Service() *bets.Service {
	return s.service
}
