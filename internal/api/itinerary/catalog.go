package itinerary

import (
	"context"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

// Catalog is the read-only location catalog, satisfied by
// catalog.RepositoryImpl.
type Catalog interface {
	FindLocations(ctx context.Context, box types.BoundingBox, filter types.LocationFilter) ([]types.Location, error)
	FindLocationByName(ctx context.Context, name string) (*types.Location, error)
	FindActivities(ctx context.Context, locationID uuid.UUID, filter types.ActivityFilter) ([]types.Activity, error)
	FindRestaurants(ctx context.Context, locationID uuid.UUID, filter types.RestaurantFilter) ([]types.Restaurant, error)
}
