package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"calc-engine/internal/calculator"
	"calc-engine/internal/config"
	"calc-engine/internal/engine"
	"calc-engine/internal/observability"
	"calc-engine/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Before flag parsing so .env can supply CALC_CONFIG.
	if err := loadDotEnv(); err != nil {
		return err
	}

	configPath := flag.String("config", os.Getenv("CALC_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Logger
	if err := observability.InitLogger(cfg.Log.Level, cfg.Log.Development); err != nil {
		return err
	}
	defer observability.SyncLogger()

	ctx := context.Background()

	// Tracing, metrics and log export
	shutdownTelemetry, err := initTelemetry(ctx, cfg.OTel)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			observability.Logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	eng := engine.New(cfg.EngineOptions()...)

	// Router
	router := server.NewRouter(calculator.NewHandler(eng))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.HTTP.Addr),
			zap.Int("precision", eng.Precision()),
			zap.Stringer("rate_unit", eng.RateUnit()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	return waitForShutdown(srv, cfg.HTTP.ShutdownTimeout, serveErr)
}

func waitForShutdown(srv *http.Server, timeout time.Duration, serveErr <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-stop:
		observability.Logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return srv.Shutdown(ctx)
}
