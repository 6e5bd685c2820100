package itinerary

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-route-planner/internal/geo"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

type StopFinderConfig struct {
	MaxDetourKm    float64
	BBoxPaddingDeg float64
	// ReservedAnchorDays are kept back for the start and end anchors.
	ReservedAnchorDays int
}

func DefaultStopFinderConfig() StopFinderConfig {
	return StopFinderConfig{MaxDetourKm: 100, BBoxPaddingDeg: 1, ReservedAnchorDays: 4}
}

// RouteStopFinder picks intermediate stops between two anchors.
type RouteStopFinder struct {
	catalog Catalog
	cfg     StopFinderConfig
	logger  *slog.Logger
}

func NewRouteStopFinder(catalog Catalog, cfg StopFinderConfig, logger *slog.Logger) *RouteStopFinder {
	return &RouteStopFinder{catalog: catalog, cfg: cfg, logger: logger}
}

// MaxStops is the number of stops a trip of tripDays can hold.
func (f *RouteStopFinder) MaxStops(tripDays int) int {
	return max(0, tripDays-f.cfg.ReservedAnchorDays)
}

// FindStops returns published catalog locations near the route, best rated
// first, each with a detour below the configured limit. A catalog failure
// is logged and yields no stops.
func (f *RouteStopFinder) FindStops(ctx context.Context, start, end types.RouteAnchor, tripDays int) []types.RouteStop {
	ctx, span := otel.Tracer("RouteStopFinder").Start(ctx, "FindStops", trace.WithAttributes(
		attribute.String("route.start", start.Name),
		attribute.String("route.end", end.Name),
		attribute.Int("trip.days", tripDays),
	))
	defer span.End()

	stops := []types.RouteStop{}
	limit := f.MaxStops(tripDays)
	if limit == 0 {
		return stops
	}

	box := geo.BoundingBox(geo.ExpandedBound(start.Coordinates, end.Coordinates, f.cfg.BBoxPaddingDeg))
	filter := types.LocationFilter{
		PublishedOnly: true,
		Corridor: &types.Corridor{
			Start:       start.Coordinates,
			End:         end.Coordinates,
			MaxDetourKm: f.cfg.MaxDetourKm,
		},
	}
	for _, a := range []types.RouteAnchor{start, end} {
		if a.LocationID != nil {
			filter.ExcludeIDs = append(filter.ExcludeIDs, *a.LocationID)
		}
		filter.ExcludeNames = append(filter.ExcludeNames, shortName(a.Name))
	}

	candidates, err := f.catalog.FindLocations(ctx, box, filter)
	if err != nil {
		f.logger.WarnContext(ctx, "Route stop lookup failed, continuing without stops", slog.Any("error", err))
		span.RecordError(err)
		return stops
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Rating > candidates[j].Rating })
	for _, loc := range candidates {
		if len(stops) == limit {
			break
		}
		if isAnchor(loc, start, end) {
			continue
		}
		detour := geo.DetourCostKm(start.Coordinates, end.Coordinates, loc.Coordinates())
		if detour >= f.cfg.MaxDetourKm {
			continue
		}
		stops = append(stops, types.RouteStop{Location: loc, DetourCostKm: detour})
	}

	span.SetAttributes(
		attribute.Int("candidates.count", len(candidates)),
		attribute.Int("stops.count", len(stops)),
	)
	return stops
}

func isAnchor(loc types.Location, anchors ...types.RouteAnchor) bool {
	for _, a := range anchors {
		if a.LocationID != nil && *a.LocationID == loc.ID && loc.ID != uuid.Nil {
			return true
		}
		if strings.EqualFold(shortName(a.Name), loc.Name) {
			return true
		}
	}
	return false
}

// shortName is the part of a place name before the first comma.
func shortName(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
