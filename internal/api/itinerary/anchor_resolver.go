package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-route-planner/internal/api/routing"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

// AnchorResolver turns a place name into a route anchor, preferring the
// catalog and falling back to the geocoder.
type AnchorResolver struct {
	catalog  Catalog
	geocoder routing.Service
	logger   *slog.Logger
}

func NewAnchorResolver(catalog Catalog, geocoder routing.Service, logger *slog.Logger) *AnchorResolver {
	return &AnchorResolver{catalog: catalog, geocoder: geocoder, logger: logger}
}

// Resolve fails with a *types.ResolutionError when neither source knows
// the place.
func (r *AnchorResolver) Resolve(ctx context.Context, name string) (types.RouteAnchor, error) {
	ctx, span := otel.Tracer("AnchorResolver").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("anchor.name", name),
	))
	defer span.End()

	loc, err := r.catalog.FindLocationByName(ctx, name)
	if err != nil {
		r.logger.WarnContext(ctx, "Catalog lookup for anchor failed, geocoding instead",
			slog.String("name", name), slog.Any("error", err))
	}
	if loc != nil {
		id := loc.ID
		span.SetAttributes(attribute.String("anchor.source", "catalog"))
		return types.RouteAnchor{
			Name:        loc.Name,
			Coordinates: loc.Coordinates(),
			LocationID:  &id,
			Country:     loc.Country,
		}, nil
	}

	place, err := r.geocoder.Geocode(ctx, name)
	if err != nil {
		span.RecordError(err)
		return types.RouteAnchor{}, &types.ResolutionError{Name: name, Err: err}
	}
	if place.Coordinates.Lat < -90 || place.Coordinates.Lat > 90 || place.Coordinates.Lon < -180 || place.Coordinates.Lon > 180 {
		return types.RouteAnchor{}, &types.ResolutionError{Name: name, Err: fmt.Errorf("geocoder returned out of range coordinates")}
	}

	span.SetAttributes(attribute.String("anchor.source", "geocoder"))
	anchorName := shortName(name)
	if anchorName == "" {
		anchorName = strings.TrimSpace(place.Label)
	}
	return types.RouteAnchor{
		Name:        anchorName,
		Coordinates: place.Coordinates,
		Country:     place.Country,
	}, nil
}
