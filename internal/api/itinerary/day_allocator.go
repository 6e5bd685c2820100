package itinerary

import (
	"math"

	"github.com/FACorreiaa/go-trip-route-planner/internal/geo"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

type AllocatorConfig struct {
	// KmPerTravelDay converts route distance into travel days.
	KmPerTravelDay float64
	// StartDayShare is the share of stay days given to the start anchor.
	StartDayShare float64
}

func DefaultAllocatorConfig() AllocatorConfig {
	return AllocatorConfig{KmPerTravelDay: 300, StartDayShare: 0.4}
}

// DayAllocator spreads a trip's days over the start anchor, the stops and the
// end anchor. It is a heuristic, not an optimizer.
//
// The plan is: stay at start, then for each stop a travel entry and one stay
// day, then a travel entry to the end and a stay there. Stops that do not fit
// are dropped. The end stay absorbs the remainder, so the total always equals
// tripDays. Windows shorter than three days are compressed: two days give a
// start stay and a travel day, one day gives only the travel day.
type DayAllocator struct {
	cfg AllocatorConfig
}

func NewDayAllocator(cfg AllocatorConfig) *DayAllocator {
	if cfg.KmPerTravelDay <= 0 {
		cfg.KmPerTravelDay = DefaultAllocatorConfig().KmPerTravelDay
	}
	if cfg.StartDayShare < 0 || cfg.StartDayShare > 1 {
		cfg.StartDayShare = DefaultAllocatorConfig().StartDayShare
	}
	return &DayAllocator{cfg: cfg}
}

// Split returns the travel days the route needs, the stay days left over
// (floored at zero) and the start anchor's share.
func (a *DayAllocator) Split(tripDays int, routeDistanceKm float64) (travelDays, stayDays, startDays int) {
	travelDays = int(math.Ceil(routeDistanceKm / a.cfg.KmPerTravelDay))
	stayDays = max(0, tripDays-travelDays)
	startDays = max(1, int(math.Floor(float64(stayDays)*a.cfg.StartDayShare)))
	return travelDays, stayDays, startDays
}

// Allocate builds the plan skeleton. routeDistanceKm is used for the direct
// start to end leg; legs through stops use great-circle distance.
func (a *DayAllocator) Allocate(start, end types.Location, stops []types.RouteStop, tripDays int, routeDistanceKm float64, mode types.TransportMode) []types.DayAllocation {
	switch {
	case tripDays <= 0:
		return nil
	case tripDays == 1:
		return []types.DayAllocation{a.travel(start, end, routeDistanceKm, mode)}
	case tripDays == 2:
		return []types.DayAllocation{stay(start, 1), a.travel(start, end, routeDistanceKm, mode)}
	}

	_, stayDays, startDays := a.Split(tripDays, routeDistanceKm)
	// leave one travel day and one end day
	startDays = min(startDays, tripDays-2)

	k := min(len(stops), stayDays-startDays, (tripDays-startDays-2)/2)
	k = max(0, k)
	endDays := tripDays - startDays - 2*k - 1

	plan := make([]types.DayAllocation, 0, 2*k+3)
	plan = append(plan, stay(start, startDays))

	prev := start
	for _, s := range stops[:k] {
		loc := s.Location
		plan = append(plan, a.travel(prev, loc, geo.DistanceKm(prev.Coordinates(), loc.Coordinates()), mode))
		plan = append(plan, stay(loc, 1))
		prev = loc
	}

	lastLeg := routeDistanceKm
	if k > 0 || lastLeg <= 0 {
		lastLeg = geo.DistanceKm(prev.Coordinates(), end.Coordinates())
	}
	plan = append(plan, a.travel(prev, end, lastLeg, mode))
	plan = append(plan, stay(end, endDays))
	return plan
}

func stay(loc types.Location, days int) types.DayAllocation {
	l := loc
	return types.DayAllocation{
		Type:       types.AllocationStay,
		LocationID: loc.ID,
		Location:   &l,
		DayCount:   days,
	}
}

func (a *DayAllocator) travel(from, to types.Location, distanceKm float64, mode types.TransportMode) types.DayAllocation {
	f, t := from, to
	if distanceKm <= 0 {
		distanceKm = geo.DistanceKm(from.Coordinates(), to.Coordinates())
	}
	return types.DayAllocation{
		Type:                 types.AllocationTravel,
		FromLocationID:       from.ID,
		ToLocationID:         to.ID,
		From:                 &f,
		To:                   &t,
		DistanceKm:           distanceKm,
		EstimatedDurationHrs: distanceKm / mode.AverageSpeedKmh(),
	}
}
