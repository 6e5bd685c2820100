package images

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

// WarmCatalog is the read side of the catalog the warmer walks.
type WarmCatalog interface {
	ListPublishedLocations(ctx context.Context, limit int) ([]types.Location, error)
	FindActivities(ctx context.Context, locationID uuid.UUID, filter types.ActivityFilter) ([]types.Activity, error)
}

type Resolving interface {
	Resolve(ctx context.Context, subject, locationContext string) types.ImageResponse
}

// WarmStats counts what a warm-up run did.
type WarmStats struct {
	Locations    int
	Activities   int
	Found        int
	Placeholders int
}

// Warmer resolves images for catalog locations and their activities ahead
// of time, one lookup per tick of the limiter.
type Warmer struct {
	catalog  WarmCatalog
	resolver Resolving
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewWarmer spaces lookups by delay; zero disables spacing.
func NewWarmer(catalog WarmCatalog, resolver Resolving, delay time.Duration, logger *slog.Logger) *Warmer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Warmer{catalog: catalog, resolver: resolver, limiter: rate.NewLimiter(limit, 1), logger: logger}
}

// Run walks up to maxLocations published locations. It stops early only
// when ctx is done; lookup failures are logged and skipped.
func (w *Warmer) Run(ctx context.Context, maxLocations, activitiesPerLocation int) (WarmStats, error) {
	var stats WarmStats
	locations, err := w.catalog.ListPublishedLocations(ctx, maxLocations)
	if err != nil {
		return stats, err
	}

	for _, loc := range locations {
		if err := w.resolve(ctx, loc.Name, loc.Country, &stats); err != nil {
			return stats, err
		}
		stats.Locations++

		acts, err := w.catalog.FindActivities(ctx, loc.ID, types.ActivityFilter{Limit: activitiesPerLocation})
		if err != nil {
			w.logger.WarnContext(ctx, "Activity lookup failed", slog.String("location", loc.Name), slog.Any("error", err))
			continue
		}
		for _, a := range acts {
			if a.ImageURL != "" {
				continue
			}
			if err := w.resolve(ctx, a.Name, loc.Name, &stats); err != nil {
				return stats, err
			}
			stats.Activities++
		}
	}
	return stats, nil
}

func (w *Warmer) resolve(ctx context.Context, subject, locationContext string, stats *WarmStats) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	img := w.resolver.Resolve(ctx, subject, locationContext)
	if img.IsPlaceholder {
		stats.Placeholders++
		w.logger.DebugContext(ctx, "No image found", slog.String("subject", subject))
		return nil
	}
	stats.Found++
	return nil
}
