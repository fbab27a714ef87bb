package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/matchday-service/internal/config"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	os.Exit(run())
}

func run() int {
	dotenvErr := config.LoadDotEnv()
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
	})
	if dotenvErr != nil {
		logger.Warn("failed to load .env", slog.Any("err", dotenvErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		return 1
	}
	srv.Run(ctx, stop)
	return 0
}
