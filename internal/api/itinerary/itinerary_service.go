package itinerary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-route-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-route-planner/internal/api/routing"
	"github.com/FACorreiaa/go-trip-route-planner/internal/geo"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

// POIOrchestrator is satisfied by orchestrator.Orchestrator.
type POIOrchestrator interface {
	Run(ctx context.Context, tc types.TripContext, candidates []types.POI) types.StructuredContext
}

// ImageResolver is satisfied by images.Resolver.
type ImageResolver interface {
	Resolve(ctx context.Context, subject, locationContext string) types.ImageResponse
}

type Service interface {
	GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryResponse, error)
	PreviewRouteStops(ctx context.Context, from, to string, days int) (*types.RouteStopsResponse, error)
}

type Config struct {
	Allocator        AllocatorConfig
	Stops            StopFinderConfig
	ActivityPoolSize int
	// Concurrency bounds the per-stay and image fan-outs.
	Concurrency int
	MaxTripDays int
}

func DefaultConfig() Config {
	return Config{
		Allocator:        DefaultAllocatorConfig(),
		Stops:            DefaultStopFinderConfig(),
		ActivityPoolSize: 50,
		Concurrency:      8,
		MaxTripDays:      60,
	}
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	anchors      *AnchorResolver
	router       routing.Service
	stops        *RouteStopFinder
	allocator    *DayAllocator
	selector     *ActivityMealSelector
	orchestrator POIOrchestrator
	images       ImageResolver
	cfg          Config
	logger       *slog.Logger
}

func NewService(catalog Catalog, router routing.Service, orchestrator POIOrchestrator, images ImageResolver, cfg Config, logger *slog.Logger) *ServiceImpl {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	return &ServiceImpl{
		anchors:      NewAnchorResolver(catalog, router, logger),
		router:       router,
		stops:        NewRouteStopFinder(catalog, cfg.Stops, logger),
		allocator:    NewDayAllocator(cfg.Allocator),
		selector:     NewActivityMealSelector(catalog, cfg.ActivityPoolSize, logger),
		orchestrator: orchestrator,
		images:       images,
		cfg:          cfg,
		logger:       logger,
	}
}

// stayPlan is the selection for one stay allocation.
type stayPlan struct {
	activities []types.Activity
	meals      []types.Meal
}

// GenerateItinerary validates req, resolves both anchors and builds the day
// plans. Only validation and anchor resolution fail the request; every other
// upstream failure degrades the result.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (_ *types.ItineraryResponse, err error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("request.from", req.From),
		attribute.String("request.to", req.To),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		attrs := metric.WithAttributes(attribute.String("outcome", outcome))
		metrics.Get().ItineraryRequestsTotal.Add(ctx, 1, attrs)
		metrics.Get().ItineraryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	trip, err := parseRequest(req, s.cfg.MaxTripDays)
	if err != nil {
		return nil, err
	}
	l := s.logger.With(slog.String("from", trip.From), slog.String("to", trip.To), slog.Int("trip_days", trip.TripDays))

	from, to, err := s.resolveAnchors(ctx, trip.From, trip.To)
	if err != nil {
		l.WarnContext(ctx, "Anchor resolution failed", slog.Any("error", err))
		return nil, err
	}

	distanceKm := s.routeDistance(ctx, from, to, trip.Mode)
	stops := s.stops.FindStops(ctx, from, to, trip.TripDays)
	allocations := s.allocator.Allocate(from.AsLocation(), to.AsLocation(), stops, trip.TripDays, distanceKm, trip.Mode)

	plans := s.selectForStays(ctx, allocations, trip)

	structured := s.orchestrator.Run(ctx, tripContext(trip, from, to, allocations), candidatePOIs(allocations, plans))

	days := buildDayPlans(allocations, plans, trip)
	placeGapFill(days, structured.GapFillPOIs)
	s.enrichImages(ctx, days)

	resp := &types.ItineraryResponse{
		Days:              days,
		StructuredContext: structured,
		Stats:             stats(days, distanceKm),
	}
	l.InfoContext(ctx, "Itinerary generated",
		slog.Int("stops", len(stops)),
		slog.Float64("route_distance_km", distanceKm),
		slog.Duration("duration", time.Since(start)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	return resp, nil
}

// PreviewRouteStops resolves the anchors and returns the stops a trip of
// days would visit.
func (s *ServiceImpl) PreviewRouteStops(ctx context.Context, from, to string, days int) (*types.RouteStopsResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "PreviewRouteStops")
	defer span.End()

	if days <= 0 || (s.cfg.MaxTripDays > 0 && days > s.cfg.MaxTripDays) {
		return nil, &types.ValidationError{Field: "days", Message: "out of range"}
	}
	start, end, err := s.resolveAnchors(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &types.RouteStopsResponse{
		From:  start,
		To:    end,
		Stops: s.stops.FindStops(ctx, start, end, days),
	}, nil
}

func (s *ServiceImpl) resolveAnchors(ctx context.Context, from, to string) (types.RouteAnchor, types.RouteAnchor, error) {
	var start, end types.RouteAnchor
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		start, err = s.anchors.Resolve(gctx, from)
		return err
	})
	g.Go(func() (err error) {
		end, err = s.anchors.Resolve(gctx, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.RouteAnchor{}, types.RouteAnchor{}, err
	}
	return start, end, nil
}

// routeDistance asks the routing service and falls back to great-circle
// distance. Flights always use great-circle distance.
func (s *ServiceImpl) routeDistance(ctx context.Context, from, to types.RouteAnchor, mode types.TransportMode) float64 {
	direct := geo.DistanceKm(from.Coordinates, to.Coordinates)
	if mode == types.TransportModeFlight {
		return direct
	}
	route, err := s.router.Route(ctx, from.Coordinates, to.Coordinates, mode.RoutingProfile())
	if err != nil || route.DistanceKm <= 0 {
		s.logger.WarnContext(ctx, "Routing failed, using great-circle distance",
			slog.Float64("distance_km", direct), slog.Any("error", err))
		return direct
	}
	return route.DistanceKm
}

// selectForStays fans out one selection per stay allocation. Tasks never
// fail; a failed lookup leaves that stay sparse.
func (s *ServiceImpl) selectForStays(ctx context.Context, allocations []types.DayAllocation, trip tripRequest) []stayPlan {
	plans := make([]stayPlan, len(allocations))
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, a := range allocations {
		if a.Type != types.AllocationStay {
			continue
		}
		g.Go(func() error {
			plans[i] = stayPlan{
				activities: s.selector.SelectActivities(ctx, a.LocationID, trip.Interests, trip.Pace, a.DayCount),
				meals:      s.selector.SelectMeals(ctx, a.LocationID, trip.Budget, a.DayCount),
			}
			return nil
		})
	}
	_ = g.Wait()
	return plans
}

func tripContext(trip tripRequest, from, to types.RouteAnchor, allocations []types.DayAllocation) types.TripContext {
	tc := types.TripContext{
		Origin:      from.Name,
		Destination: to.Name,
		TravelMode:  trip.Mode,
		Budget:      trip.Budget,
		DayCount:    trip.TripDays,
		Interests:   trip.Interests,
	}
	for _, a := range allocations {
		if a.Type == types.AllocationStay && a.Location != nil && a.Location.Name != from.Name && a.Location.Name != to.Name {
			tc.Stops = append(tc.Stops, a.Location.Name)
		}
	}
	return tc
}

func candidatePOIs(allocations []types.DayAllocation, plans []stayPlan) []types.POI {
	var out []types.POI
	for i, a := range allocations {
		if a.Type != types.AllocationStay || a.Location == nil {
			continue
		}
		for _, act := range plans[i].activities {
			out = append(out, types.POI{
				Name:        act.Name,
				Category:    act.Category,
				Location:    a.Location.Name,
				Latitude:    a.Location.Latitude,
				Longitude:   a.Location.Longitude,
				Description: act.Description,
				Rating:      act.Rating,
				Source:      "catalog",
			})
		}
		seen := make(map[string]bool)
		for _, m := range plans[i].meals {
			if seen[m.Restaurant.Name] {
				continue
			}
			seen[m.Restaurant.Name] = true
			out = append(out, types.POI{
				Name:      m.Restaurant.Name,
				Category:  "restaurant",
				Location:  a.Location.Name,
				Latitude:  a.Location.Latitude,
				Longitude: a.Location.Longitude,
				Rating:    m.Restaurant.Rating,
				Source:    "catalog",
			})
		}
	}
	return out
}

// buildDayPlans expands allocations into calendar days. A stay's activities
// and meals are split evenly across its days.
func buildDayPlans(allocations []types.DayAllocation, plans []stayPlan, trip tripRequest) []types.DayPlan {
	perDay := trip.Pace.ActivitiesPerDay()
	days := make([]types.DayPlan, 0, trip.TripDays)
	date := trip.StartDate

	next := func(t types.AllocationType, loc types.Location) *types.DayPlan {
		days = append(days, types.DayPlan{
			Date:       date.Format(dateLayout),
			DayNumber:  len(days) + 1,
			Type:       t,
			Location:   loc,
			Activities: []types.Activity{},
			Meals:      []types.Meal{},
		})
		date = date.AddDate(0, 0, 1)
		return &days[len(days)-1]
	}

	for i, a := range allocations {
		switch a.Type {
		case types.AllocationTravel:
			day := next(types.AllocationTravel, *a.To)
			day.Travel = &types.TravelInfo{
				From:                 a.From.Name,
				To:                   a.To.Name,
				DistanceKm:           a.DistanceKm,
				EstimatedDurationHrs: a.EstimatedDurationHrs,
				Mode:                 string(trip.Mode),
			}
		case types.AllocationStay:
			for d := 0; d < a.DayCount; d++ {
				day := next(types.AllocationStay, *a.Location)
				day.Activities = append(day.Activities, window(plans[i].activities, d*perDay, perDay)...)
				day.Meals = append(day.Meals, window(plans[i].meals, d*mealsPerDay, mealsPerDay)...)
			}
		}
	}
	return days
}

func window[T any](items []T, from, n int) []T {
	if from >= len(items) {
		return nil
	}
	return items[from:min(len(items), from+n)]
}

var mealCategories = []string{"restaurant", "cafe", "café", "food", "meal", "bakery", "bistro", "brasserie", "bar"}

func isMealCategory(category string) bool {
	c := strings.ToLower(category)
	for _, m := range mealCategories {
		if strings.Contains(c, m) {
			return true
		}
	}
	return false
}

// placeGapFill attaches gap-fill POIs that name a valid day to that day,
// as a meal when the category is food related and as an activity otherwise.
func placeGapFill(days []types.DayPlan, pois []types.POI) {
	for _, p := range pois {
		if p.Day < 1 || p.Day > len(days) {
			continue
		}
		day := &days[p.Day-1]
		if isMealCategory(p.Category) {
			day.Meals = append(day.Meals, types.Meal{
				Type:       missingMeal(day.Meals),
				Restaurant: types.Restaurant{Name: p.Name, CuisineType: p.Category, Rating: p.Rating},
			})
			continue
		}
		day.Activities = append(day.Activities, types.Activity{
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			Rating:      p.Rating,
		})
	}
}

func missingMeal(meals []types.Meal) types.MealType {
	have := make(map[types.MealType]bool, len(meals))
	for _, m := range meals {
		have[m.Type] = true
	}
	for _, t := range []types.MealType{types.MealLunch, types.MealDinner, types.MealBreakfast} {
		if !have[t] {
			return t
		}
	}
	return types.MealLunch
}

// enrichImages fills missing day and activity images concurrently. Each
// distinct location is resolved once.
func (s *ServiceImpl) enrichImages(ctx context.Context, days []types.DayPlan) {
	locationImages := make(map[string]string)
	for _, d := range days {
		if d.Location.ImageURL != "" {
			locationImages[d.Location.Name] = d.Location.ImageURL
		} else if _, found := locationImages[d.Location.Name]; !found {
			locationImages[d.Location.Name] = ""
		}
	}

	type locationResult struct {
		name string
		url  string
	}
	names := make([]string, 0, len(locationImages))
	for name, url := range locationImages {
		if url == "" {
			names = append(names, name)
		}
	}
	resolved := make([]locationResult, len(names))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, name := range names {
		country := ""
		for _, d := range days {
			if d.Location.Name == name {
				country = d.Location.Country
				break
			}
		}
		g.Go(func() error {
			resolved[i] = locationResult{name: name, url: s.images.Resolve(ctx, name, country).URL}
			return nil
		})
	}
	for di := range days {
		for ai := range days[di].Activities {
			if days[di].Activities[ai].ImageURL != "" {
				continue
			}
			act := &days[di].Activities[ai]
			where := days[di].Location.Name
			g.Go(func() error {
				act.ImageURL = s.images.Resolve(ctx, act.Name, where).URL
				return nil
			})
		}
	}
	_ = g.Wait()

	for _, r := range resolved {
		locationImages[r.name] = r.url
	}
	for i := range days {
		days[i].ImageURL = locationImages[days[i].Location.Name]
	}
}

// stats counts stops as travel legs minus one, so only stops that made it
// into the plan are reported.
func stats(days []types.DayPlan, distanceKm float64) types.ItineraryStats {
	st := types.ItineraryStats{
		TotalDays:       len(days),
		RouteDistanceKm: distanceKm,
	}
	for _, d := range days {
		if d.Type == types.AllocationTravel {
			st.TravelDays++
		} else {
			st.StayDays++
		}
	}
	st.Stops = max(0, st.TravelDays-1)
	return st
}
