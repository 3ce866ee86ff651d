package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/favtube/internal/config"
	"github.com/MrSnakeDoc/favtube/internal/httpserver"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/scheduler"
	"github.com/MrSnakeDoc/favtube/internal/seed"
	"github.com/MrSnakeDoc/favtube/internal/store"
	"github.com/MrSnakeDoc/favtube/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
	store  store.Store                 // nil when the store could not be reached
	gc     *scheduler.GarbageCollector // nil unless the store compacts itself
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	loggerClient.Info("connecting to store", logger.String("driver", cfg.StoreDriver))
	st, err := openStore(context.Background(), cfg, loggerClient)
	if err != nil {
		// Keep serving: every request gets the connection error.
		loggerClient.Error("failed to connect to store, serving fallback responses",
			logger.String("driver", cfg.StoreDriver),
			logger.Error(err))

		return &App{
			cfg:    cfg,
			logger: loggerClient,
			server: newServer(cfg, httpserver.NewFallbackRouter(err, loggerClient), loggerClient),
		}
	}
	loggerClient.Info("store initialized successfully", logger.String("driver", cfg.StoreDriver))

	if cfg.SeedFile != "" {
		if _, err := seed.NewLoader(cfg.SeedFile).Seed(context.Background(), st, loggerClient); err != nil {
			loggerClient.Warn("failed to seed store", logger.String("file", cfg.SeedFile), logger.Error(err))
		}
	}

	var gc *scheduler.GarbageCollector
	if c, ok := st.(scheduler.Collector); ok && cfg.BadgerGCInterval > 0 {
		gc = scheduler.NewGarbageCollector(c, loggerClient, cfg.BadgerGCInterval, scheduler.DefaultDiscardRatio)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:      loggerClient,
		StartTime:   time.Now(),
		Version:     version.Version,
		Commit:      version.Commit,
		BuildDate:   version.BuildDate,
		GoVersion:   version.GoVersion,
		Store:       st,
		StoreDriver: cfg.StoreDriver,
		StreamDelay: cfg.StreamDelay,
	}

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		server: newServer(cfg, httpserver.NewRouter(d), loggerClient),
		store:  st,
		gc:     gc,
	}
}

func newServer(cfg *config.Config, h http.Handler, log logger.Logger) *httpserver.Server {
	return httpserver.New(httpserver.Options{
		Addr:         cfg.ListenPort,
		WriteTimeout: cfg.WriteTimeout,
	}, h, log)
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting favtube v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("favtube %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.gc != nil {
		if err := a.gc.Start(ctx); err != nil {
			return fmt.Errorf("failed to start garbage collector: %w", err)
		}
		a.logger.Info("garbage collector started",
			logger.Duration("interval", a.cfg.BadgerGCInterval))
	}

	if err := serve(ctx, a.server, a.cfg.ShutdownTimeout, a.logger); err != nil {
		return err
	}

	if a.gc != nil {
		a.gc.Stop()
	}

	if a.store != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.store.Close(closeCtx); err != nil {
			a.logger.Warnf("failed to close store: %v", err)
		} else {
			a.logger.Info("✅ Store closed cleanly")
		}
	}

	a.logger.Info("✅ favtube stopped cleanly")
	return nil
}

// serve runs s until ctx is done, then drains it within timeout.
func serve(ctx context.Context, s *httpserver.Server, timeout time.Duration, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}
