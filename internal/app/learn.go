package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrSnakeDoc/favtube/internal/config"
	"github.com/MrSnakeDoc/favtube/internal/httpserver"
	"github.com/MrSnakeDoc/favtube/internal/learn"
	"github.com/MrSnakeDoc/favtube/internal/logger"
)

// Learn is the in-memory demo service.
type Learn struct {
	cfg    *config.LearnConfig
	logger logger.Logger
	server *httpserver.Server
}

func NewLearn() *Learn {
	cfg := config.LoadLearn()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	h := learn.NewRouter(learn.NewCatalog(), loggerClient, cfg.StreamDelay)

	return &Learn{
		cfg:    cfg,
		logger: loggerClient,
		server: httpserver.New(httpserver.Options{Addr: cfg.ListenPort}, h, loggerClient),
	}
}

func (l *Learn) Run() error {
	l.logger.Infof("🚀 Starting favtube-learn on %s", l.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, l.server, l.cfg.ShutdownTimeout, l.logger); err != nil {
		return err
	}
	l.logger.Info("✅ favtube-learn stopped cleanly")
	return nil
}
