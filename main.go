package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	database "github.com/FACorreiaa/go-trip-route-planner/app/db"
	appLogger "github.com/FACorreiaa/go-trip-route-planner/app/logger"
	appMiddleware "github.com/FACorreiaa/go-trip-route-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-route-planner/app/tracer"
	"github.com/FACorreiaa/go-trip-route-planner/config"
	"github.com/FACorreiaa/go-trip-route-planner/internal/container"
	"github.com/FACorreiaa/go-trip-route-planner/internal/router"
)

// @title        Trip Route Planner API
// @version      1.0
// @description  Route-aware itinerary generation with catalog stops, activities, meals and images.
// @BasePath     /api/v1
func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(os.Getenv("APP_ENV"))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, &cfg, logger); err != nil {
		logger.Error("Application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	serviceName := cfg.Observability.ServiceName
	if serviceName == "" {
		serviceName = "trip-route-planner"
	}
	shutdownTelemetry, err := tracer.InitTracingAndMetrics(serviceName, cfg.Handlers.Prometheus.Port, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return err
	}

	c, err := container.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if !c.WaitForDB(ctx) {
		return errors.New("database not ready after waiting")
	}

	routerCfg := &router.Config{
		ItineraryHandler: c.ItineraryHandler,
		ImageHandler:     c.ImageHandler,
		Timeout:          cfg.Server.Timeout,
		Logger:           logger,
	}
	if cfg.Auth.Enabled {
		routerCfg.AuthenticateMiddleware = appMiddleware.Authenticate([]byte(cfg.Auth.JWTSecret), cfg.Auth.Audience, logger)
	}

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router.SetupRouter(routerCfg),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server graceful shutdown: %w", err)
	}
	logger.Info("HTTP server gracefully stopped")
	return nil
}
