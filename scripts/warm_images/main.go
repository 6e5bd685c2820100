package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	appLogger "github.com/FACorreiaa/go-trip-route-planner/app/logger"
	"github.com/FACorreiaa/go-trip-route-planner/config"
	"github.com/FACorreiaa/go-trip-route-planner/internal/api/images"
	"github.com/FACorreiaa/go-trip-route-planner/internal/container"
)

func main() {
	delay := flag.Duration("delay", 2*time.Second, "pause between image lookups")
	maxLocations := flag.Int("locations", 1000, "maximum number of catalog locations to walk")
	perLocation := flag.Int("activities", 20, "activities to warm per location")
	flag.Parse()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := appLogger.New(os.Getenv("APP_ENV"))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	if !c.WaitForDB(ctx) {
		logger.Error("Database not ready")
		os.Exit(1)
	}

	start := time.Now()
	stats, err := images.NewWarmer(c.Catalog, c.ImageResolver, *delay, logger).Run(ctx, *maxLocations, *perLocation)
	logger.Info("Image warm-up finished",
		slog.Int("locations", stats.Locations),
		slog.Int("activities", stats.Activities),
		slog.Int("found", stats.Found),
		slog.Int("placeholders", stats.Placeholders),
		slog.Duration("duration", time.Since(start)),
		slog.Any("error", err))
	if err != nil {
		os.Exit(1)
	}
}
