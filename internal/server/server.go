package server

import (
	"context"
	"log/slog"
	"net/http"

	"rinkcast/internal/archive"
	"rinkcast/internal/commentary"
	"rinkcast/internal/config"
	"rinkcast/internal/feed"
	httpserver "rinkcast/internal/http"
	"rinkcast/internal/http/handlers"
	"rinkcast/internal/logging"
	"rinkcast/internal/metrics"
	"rinkcast/internal/namer"
	"rinkcast/internal/pipeline"
	"rinkcast/internal/poller"
	"rinkcast/internal/session"
	"rinkcast/internal/store"
)

var metricsSetup = metrics.Setup

// Server wires the pipeline, poller, and HTTP surface together.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	archive       *archive.Store
	supervisor    *pipeline.Supervisor
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
}

// New constructs a server with default feed and pipeline wiring.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithProvider(cfg, logger, nil)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider feed.DataProvider) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	if provider == nil {
		provider = newFeedFactory(logger, recorder).build(cfg)
	}

	archiveStore, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		return nil, err
	}

	memoryStore := store.NewMemoryStore()
	allocator := namer.New(cfg.AudioDir, namer.WithMetrics(recorder))

	sup := pipeline.NewSupervisor(pipeline.SupervisorDeps{
		Provider: provider,
		Backend:  commentary.NewScriptedBackend(),
		SessionCfg: session.Config{
			Tracks:          cfg.Tracks,
			RefreshInterval: cfg.RefreshInterval,
			RotationTimeout: cfg.RotationTimeout,
			RecapLimit:      cfg.RecapLimit,
		},
		Commentator: commentary.NewScriptedCommentator(),
		Synthesizer: commentary.NewScriptedSynthesizer(),
		Allocator:   allocator,
		Store:       memoryStore,
		Archive:     archiveStore,
		Logger:      logger,
		Recorder:    recorder,
	})

	plr := poller.New(sup, cfg.GameIDs, logger, recorder, cfg.PollInterval)
	httpSrv := buildHTTPServer(cfg, memoryStore, sup, logger, recorder, plr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		archive:       archiveStore,
		supervisor:    sup,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
	}, nil
}

func buildHTTPServer(cfg config.Config, memoryStore *store.MemoryStore, sup *pipeline.Supervisor, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(memoryStore, sup, logger, statusFn)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	router := httpserver.NewRouter(handler, logger, recorder)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return wrapServer(srv)
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
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
		metricsSrv = wrapServer(&http.Server{
			Addr:    ":" + recCfg.Port,
			Handler: handler,
		})
	}

	return rec, metricsSrv, shutdown
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
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
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.poller.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop poller", "error", err)
	}

	// Archive whatever the pipeline has before the process exits.
	if s.supervisor != nil {
		if err := s.supervisor.FinishAll(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("final archive incomplete", "error", err)
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

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.archive != nil {
		if err := s.archive.Close(); err != nil && s.logger != nil {
			s.logger.Warn("archive close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
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
