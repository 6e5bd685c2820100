package itinerary

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-trip-route-planner/internal/api/routing"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FindLocations(ctx context.Context, box types.BoundingBox, filter types.LocationFilter) ([]types.Location, error) {
	args := m.Called(ctx, box, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Location), args.Error(1)
}

func (m *MockCatalog) FindLocationByName(ctx context.Context, name string) (*types.Location, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Location), args.Error(1)
}

func (m *MockCatalog) FindActivities(ctx context.Context, locationID uuid.UUID, filter types.ActivityFilter) ([]types.Activity, error) {
	args := m.Called(ctx, locationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// copy so callers sorting the result do not race on the fixture
	return append([]types.Activity(nil), args.Get(0).([]types.Activity)...), args.Error(1)
}

func (m *MockCatalog) FindRestaurants(ctx context.Context, locationID uuid.UUID, filter types.RestaurantFilter) ([]types.Restaurant, error) {
	args := m.Called(ctx, locationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Restaurant), args.Error(1)
}

type MockRouter struct {
	mock.Mock
}

func (m *MockRouter) Geocode(ctx context.Context, name string) (routing.Place, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(routing.Place), args.Error(1)
}

func (m *MockRouter) Route(ctx context.Context, from, to types.Coordinates, profile string) (routing.Route, error) {
	args := m.Called(ctx, from, to, profile)
	return args.Get(0).(routing.Route), args.Error(1)
}

type fakeOrchestrator struct {
	out        types.StructuredContext
	gotTrip    types.TripContext
	candidates []types.POI
}

func (f *fakeOrchestrator) Run(_ context.Context, tc types.TripContext, candidates []types.POI) types.StructuredContext {
	f.gotTrip = tc
	f.candidates = candidates
	out := f.out
	out.TripContext = tc
	if out.ValidatedPOIs == nil {
		out.ValidatedPOIs = []types.POI{}
	}
	if out.Gaps == nil {
		out.Gaps = []types.POIGap{}
	}
	if out.GapFillPOIs == nil {
		out.GapFillPOIs = []types.POI{}
	}
	return out
}

type fakeImages struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakeImages) Resolve(_ context.Context, subject, locationContext string) types.ImageResponse {
	f.mu.Lock()
	f.subjects = append(f.subjects, subject)
	f.mu.Unlock()
	return types.ImageResponse{Subject: subject, Context: locationContext, URL: "https://img.example.com/" + subject + ".jpg"}
}

func newLocation(name string, lat, lon, rating float64) types.Location {
	return types.Location{ID: uuid.New(), Name: name, Country: "France", Latitude: lat, Longitude: lon, Rating: rating}
}

var (
	paris    = newLocation("Paris", 48.8566, 2.3522, 4.8)
	lyon     = newLocation("Lyon", 45.7640, 4.8357, 4.6)
	dijon    = newLocation("Dijon", 47.3220, 5.0415, 4.4)
	auxerre  = newLocation("Auxerre", 47.7982, 3.5673, 4.1)
	beaune   = newLocation("Beaune", 47.0260, 4.8400, 4.5)
	bordeaux = newLocation("Bordeaux", 44.8378, -0.5792, 4.9)
	istanbul = newLocation("Istanbul", 41.0082, 28.9784, 4.9)
)

func anchorOf(l types.Location) types.RouteAnchor {
	id := l.ID
	return types.RouteAnchor{Name: l.Name, Coordinates: l.Coordinates(), LocationID: &id, Country: l.Country}
}
