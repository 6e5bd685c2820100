package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-route-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-route-planner/internal/geo"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

const defaultActivityLimit = 50

var _ Repository = (*RepositoryImpl)(nil)

// DB is the subset of *pgxpool.Pool the catalog needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is a read-only accessor over known locations, activities and
// restaurants. The catalog never writes.
type Repository interface {
	FindLocations(ctx context.Context, box types.BoundingBox, filter types.LocationFilter) ([]types.Location, error)
	FindLocationByName(ctx context.Context, name string) (*types.Location, error)
	FindActivities(ctx context.Context, locationID uuid.UUID, filter types.ActivityFilter) ([]types.Activity, error)
	FindRestaurants(ctx context.Context, locationID uuid.UUID, filter types.RestaurantFilter) ([]types.Restaurant, error)
	ListPublishedLocations(ctx context.Context, limit int) ([]types.Location, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const locationColumns = `id, name, country, COALESCE(region, ''), latitude, longitude,
            COALESCE(rating, 0), COALESCE(interest_tags, '{}'::jsonb), COALESCE(image_url, '')`

func scanLocation(row pgx.Row) (types.Location, error) {
	var (
		loc  types.Location
		tags []byte
	)
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Country, &loc.Region, &loc.Latitude, &loc.Longitude,
		&loc.Rating, &tags, &loc.ImageURL); err != nil {
		return types.Location{}, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &loc.InterestTags); err != nil {
			return types.Location{}, fmt.Errorf("failed to decode interest tags for %s: %w", loc.Name, err)
		}
	}
	return loc, nil
}

func (r *RepositoryImpl) observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("db.operation", op))
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

// corridorClause approximates start -> candidate -> end with equirectangular
// legs. $13 is the leg-sum budget: direct distance plus the allowed detour.
const corridorClause = `
          AND 111.32 * sqrt(power(latitude - $9, 2) + power((longitude - $10) * cos(radians((latitude + $9) / 2)), 2))
            + 111.32 * sqrt(power(latitude - $11, 2) + power((longitude - $12) * cos(radians((latitude + $11) / 2)), 2))
            < $13`

// corridorSlack loosens the SQL bound so the approximation never drops a
// candidate the exact haversine check would keep.
func corridorSlack(c types.Corridor) float64 {
	direct := geo.DistanceKm(c.Start, c.End)
	return direct + c.MaxDetourKm*1.1 + direct*0.02
}

// FindLocations returns published locations inside box, best rated first.
// With a corridor set, the limit applies only to candidates near the route.
func (r *RepositoryImpl) FindLocations(ctx context.Context, box types.BoundingBox, filter types.LocationFilter) (_ []types.Location, err error) {
	ctx, span := otel.Tracer("CatalogRepository").Start(ctx, "FindLocations", trace.WithAttributes(
		attribute.Float64("bbox.min_lat", box.MinLat),
		attribute.Float64("bbox.min_lon", box.MinLon),
		attribute.Float64("bbox.max_lat", box.MaxLat),
		attribute.Float64("bbox.max_lon", box.MaxLon),
	))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, "FindLocations", start, err) }(time.Now())

	excludeIDs := filter.ExcludeIDs
	if excludeIDs == nil {
		excludeIDs = []uuid.UUID{}
	}
	excludeNames := make([]string, 0, len(filter.ExcludeNames))
	for _, n := range filter.ExcludeNames {
		excludeNames = append(excludeNames, strings.ToLower(strings.TrimSpace(n)))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	args := []any{box.MinLat, box.MaxLat, box.MinLon, box.MaxLon,
		filter.PublishedOnly, excludeIDs, excludeNames, limit}
	corridor := ""
	if c := filter.Corridor; c != nil {
		corridor = corridorClause
		args = append(args, c.Start.Lat, c.Start.Lon, c.End.Lat, c.End.Lon, corridorSlack(*c))
	}

	query := `
        SELECT ` + locationColumns + `
        FROM locations
        WHERE latitude BETWEEN $1 AND $2
          AND longitude BETWEEN $3 AND $4
          AND ($5 = false OR is_published = true)
          AND NOT (id = ANY($6))
          AND NOT (lower(name) = ANY($7))` + corridor + `
        ORDER BY rating DESC NULLS LAST
        LIMIT $8
    `
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []types.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, loc)
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating location rows: %w", err)
	}

	span.SetAttributes(attribute.Int("locations.count", len(locations)))
	span.SetStatus(codes.Ok, "Locations retrieved")
	return locations, nil
}

// FindLocationByName does a fuzzy, case-insensitive lookup on the part of name
// before the first comma ("Paris, France" matches "Paris"). An exact match
// wins over a prefix match; ties go to the better rated entry. It returns
// nil, nil when nothing matches.
func (r *RepositoryImpl) FindLocationByName(ctx context.Context, name string) (_ *types.Location, err error) {
	ctx, span := otel.Tracer("CatalogRepository").Start(ctx, "FindLocationByName", trace.WithAttributes(
		attribute.String("location.name", name),
	))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, "FindLocationByName", start, err) }(time.Now())

	term := strings.TrimSpace(name)
	if i := strings.Index(term, ","); i >= 0 {
		term = strings.TrimSpace(term[:i])
	}
	if term == "" {
		return nil, nil
	}

	query := `
        SELECT ` + locationColumns + `
        FROM locations
        WHERE is_published = true
          AND (lower(name) = lower($1) OR name ILIKE $2)
        ORDER BY (lower(name) = lower($1)) DESC, rating DESC NULLS LAST
        LIMIT 1
    `
	loc, err := scanLocation(r.db.QueryRow(ctx, query, term, likePrefix(term)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find location by name: %w", err)
	}

	r.logger.DebugContext(ctx, "Location matched in catalog",
		slog.String("query", name),
		slog.String("match", loc.Name),
		slog.String("id", loc.ID.String()))
	return &loc, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix builds a LIKE prefix pattern that matches term literally.
func likePrefix(term string) string {
	return likeEscaper.Replace(term) + "%"
}

// FindActivities returns the top rated activities at a location.
func (r *RepositoryImpl) FindActivities(ctx context.Context, locationID uuid.UUID, filter types.ActivityFilter) (_ []types.Activity, err error) {
	ctx, span := otel.Tracer("CatalogRepository").Start(ctx, "FindActivities", trace.WithAttributes(
		attribute.String("location.id", locationID.String()),
	))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, "FindActivities", start, err) }(time.Now())

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	query := `
        SELECT id, location_id, name, COALESCE(category, ''), COALESCE(description, ''),
               COALESCE(rating, 0), COALESCE(price_range, ''), COALESCE(duration_hours, 0),
               COALESCE(image_url, '')
        FROM activities
        WHERE location_id = $1
        ORDER BY rating DESC NULLS LAST
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, locationID, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []types.Activity
	for rows.Next() {
		var a types.Activity
		if err := rows.Scan(&a.ID, &a.LocationID, &a.Name, &a.Category, &a.Description,
			&a.Rating, &a.PriceRange, &a.DurationHrs, &a.ImageURL); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	span.SetAttributes(attribute.Int("activities.count", len(activities)))
	return activities, nil
}

// FindRestaurants returns restaurants at a location, optionally restricted to
// a set of price ranges, best rated first.
func (r *RepositoryImpl) FindRestaurants(ctx context.Context, locationID uuid.UUID, filter types.RestaurantFilter) (_ []types.Restaurant, err error) {
	ctx, span := otel.Tracer("CatalogRepository").Start(ctx, "FindRestaurants", trace.WithAttributes(
		attribute.String("location.id", locationID.String()),
		attribute.StringSlice("price_ranges", filter.PriceRanges),
	))
	defer span.End()
	defer func(start time.Time) { r.observe(ctx, "FindRestaurants", start, err) }(time.Now())

	priceRanges := filter.PriceRanges
	if priceRanges == nil {
		priceRanges = []string{}
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	query := `
        SELECT id, location_id, name, COALESCE(cuisine_type, ''), COALESCE(price_range, ''),
               COALESCE(rating, 0), COALESCE(image_url, '')
        FROM restaurants
        WHERE location_id = $1
          AND (cardinality($2::text[]) = 0 OR price_range = ANY($2))
        ORDER BY rating DESC NULLS LAST
        LIMIT $3
    `
	rows, err := r.db.Query(ctx, query, locationID, priceRanges, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []types.Restaurant
	for rows.Next() {
		var rest types.Restaurant
		if err := rows.Scan(&rest.ID, &rest.LocationID, &rest.Name, &rest.CuisineType,
			&rest.PriceRange, &rest.Rating, &rest.ImageURL); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan restaurant row: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}

	span.SetAttributes(attribute.Int("restaurants.count", len(restaurants)))
	return restaurants, nil
}

// ListPublishedLocations is used by maintenance tooling.
func (r *RepositoryImpl) ListPublishedLocations(ctx context.Context, limit int) (_ []types.Location, err error) {
	defer func(start time.Time) { r.observe(ctx, "ListPublishedLocations", start, err) }(time.Now())
	if limit <= 0 {
		limit = 1000
	}

	query := `
        SELECT ` + locationColumns + `
        FROM locations
        WHERE is_published = true
        ORDER BY name
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []types.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
