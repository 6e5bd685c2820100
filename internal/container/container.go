package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	database "github.com/FACorreiaa/go-trip-route-planner/app/db"
	"github.com/FACorreiaa/go-trip-route-planner/config"
	"github.com/FACorreiaa/go-trip-route-planner/internal/api/catalog"
	generativeAI "github.com/FACorreiaa/go-trip-route-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-route-planner/internal/api/images"
	"github.com/FACorreiaa/go-trip-route-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-route-planner/internal/api/orchestrator"
	"github.com/FACorreiaa/go-trip-route-planner/internal/api/routing"
	"github.com/FACorreiaa/go-trip-route-planner/internal/cache"
)

// Container holds all application dependencies.
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	Redis            *redis.Client
	Cache            *cache.Cache
	Catalog          *catalog.RepositoryImpl
	ImageResolver    *images.Resolver
	ItineraryService *itinerary.ServiceImpl
	ItineraryHandler *itinerary.HandlerImpl
	ImageHandler     *images.HandlerImpl
}

// NewContainer connects to Postgres (and Redis when configured) and builds
// every service and handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	pool, err := database.Init(ctx, dbConfig, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, Pool: pool}

	store, err := c.newStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Cache = cache.New(store, logger)
	c.Catalog = catalog.NewRepository(pool, logger)

	ai, err := generativeAI.NewAIClient(ctx, generativeAI.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	router := routing.NewClient(routing.Config{
		BaseURL:    cfg.Routing.BaseURL,
		APIKey:     cfg.Routing.APIKey,
		Timeout:    cfg.Routing.Timeout,
		MaxRetries: cfg.Routing.MaxRetries,
	}, c.Cache, logger)

	orch := orchestrator.New(ai, c.Cache, OrchestrationConfig(cfg), logger)
	c.ImageResolver = NewImageResolver(cfg, c.Cache, logger)

	itineraryCfg := ItineraryConfig(cfg)
	c.ItineraryService = itinerary.NewService(c.Catalog, router, orch, c.ImageResolver, itineraryCfg, logger)
	c.ItineraryHandler = itinerary.NewHandler(c.ItineraryService, itineraryCfg.MaxTripDays, logger)
	c.ImageHandler = images.NewHandler(c.ImageResolver, logger)
	return c, nil
}

func (c *Container) newStore(ctx context.Context) (cache.Store, error) {
	cc := c.Config.Cache
	if cc.Backend != "redis" {
		c.Logger.Info("Using in-memory cache")
		return cache.NewMemoryStore(cc.DefaultTTL, cc.CleanupInterval), nil
	}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     cc.Redis.Addr,
		Password: cc.Redis.Password,
		DB:       cc.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Redis.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cc.Redis.Addr, err)
	}
	c.Logger.Info("Using redis cache", slog.String("addr", cc.Redis.Addr))
	return cache.NewRedisStore(c.Redis, "planner:"), nil
}

// OrchestrationConfig maps the orchestration section onto the pipeline
// config.
func OrchestrationConfig(cfg *config.Config) orchestrator.OrchestrationConfig {
	oc := cfg.Orchestration
	out := orchestrator.DefaultConfig()
	out.Enabled = oc.Enabled
	out.Strategy = orchestrator.StageConfig{Enabled: oc.Strategy.Enabled, TTL: oc.Strategy.TTL}
	out.Validation = orchestrator.StageConfig{Enabled: oc.Validation.Enabled, TTL: oc.Validation.TTL}
	out.GapDetection = orchestrator.StageConfig{Enabled: oc.GapDetection.Enabled, TTL: oc.GapDetection.TTL}
	out.GapFill = orchestrator.StageConfig{Enabled: oc.GapFill.Enabled, TTL: oc.GapFill.TTL}
	if oc.MinRelevance > 0 {
		out.MinRelevance = oc.MinRelevance
	}
	if cfg.AI.Temperature > 0 {
		out.Temperature = cfg.AI.Temperature
	}
	return out
}

// ItineraryConfig maps the itinerary section, keeping defaults for unset
// values.
func ItineraryConfig(cfg *config.Config) itinerary.Config {
	ic := cfg.Itinerary
	out := itinerary.DefaultConfig()
	if ic.KmPerTravelDay > 0 {
		out.Allocator.KmPerTravelDay = ic.KmPerTravelDay
	}
	if ic.StartDayShare > 0 {
		out.Allocator.StartDayShare = ic.StartDayShare
	}
	if ic.MaxDetourKm > 0 {
		out.Stops.MaxDetourKm = ic.MaxDetourKm
	}
	if ic.BBoxPaddingDeg > 0 {
		out.Stops.BBoxPaddingDeg = ic.BBoxPaddingDeg
	}
	if ic.ReservedAnchorDays > 0 {
		out.Stops.ReservedAnchorDays = ic.ReservedAnchorDays
	}
	if ic.ActivityPoolSize > 0 {
		out.ActivityPoolSize = ic.ActivityPoolSize
	}
	if ic.Concurrency > 0 {
		out.Concurrency = ic.Concurrency
	}
	if ic.MaxTripDays > 0 {
		out.MaxTripDays = ic.MaxTripDays
	}
	return out
}

// NewImageResolver registers the enabled image providers in priority order.
func NewImageResolver(cfg *config.Config, c *cache.Cache, logger *slog.Logger) *images.Resolver {
	ic := cfg.Images
	var chain []images.Registration
	register := func(pc config.ImageProvider, build func(images.ProviderConfig) images.Provider) {
		if !pc.Enabled {
			return
		}
		chain = append(chain, images.Registration{
			Provider: build(providerConfig(pc)),
			Priority:    pc.Priority,
			Timeout:     pc.Timeout,
			MinInterval: pc.MinInterval,
		})
	}
	register(ic.Reddit, func(pc images.ProviderConfig) images.Provider { return images.NewRedditProvider(pc, logger) })
	register(ic.Pinterest, func(pc images.ProviderConfig) images.Provider { return images.NewPinterestProvider(pc, logger) })
	register(ic.Flickr, func(pc images.ProviderConfig) images.Provider { return images.NewFlickrProvider(pc, logger) })

	logger.Info("Image providers registered", slog.Int("count", len(chain)))
	return images.NewResolver(chain, images.NewQualityFilter(ic.RejectWords...), c, ic.PlaceholderURL, logger)
}

func providerConfig(pc config.ImageProvider) images.ProviderConfig {
	return images.ProviderConfig{
		Enabled:    pc.Enabled,
		Priority:   pc.Priority,
		Timeout:    pc.Timeout,
		BaseURL:    pc.BaseURL,
		MaxResults: pc.MaxResults,
	}
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Error closing redis client", slog.Any("error", err))
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready.
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
