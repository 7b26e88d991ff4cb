// Command httpd runs the urlrisk HTTP scanning service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deceptoguard/urlrisk/internal/api"
	"github.com/deceptoguard/urlrisk/internal/config"
	"github.com/deceptoguard/urlrisk/internal/heuristic"
	"github.com/deceptoguard/urlrisk/internal/logging"
	"github.com/deceptoguard/urlrisk/internal/predictclient"
	"github.com/deceptoguard/urlrisk/internal/scanner"
	"github.com/deceptoguard/urlrisk/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "urlrisk: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path("config.yml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting urlrisk",
		logging.String("service", cfg.Service.Name),
		logging.String("version", cfg.Service.Version),
		logging.Int("port", cfg.Service.Port),
		logging.String("backend", cfg.Backend.BaseURL),
		logging.Bool("debug", cfg.Service.Debug),
	)

	tp := telemetry.NewProvider()

	engine := heuristic.NewEngine(logger, tp)
	client := predictclient.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	scans := scanner.New(engine, client, logger, tp)

	handler := api.NewHandler(scans, client, cfg.Service.Name, cfg.Service.Version, logger)
	server := api.NewServer(cfg, handler, tp.Handler(), logger)

	serverErrors := server.StartAsync()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
	}
	return nil
}
