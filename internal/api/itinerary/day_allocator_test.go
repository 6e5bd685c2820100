package itinerary

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

func stopsOf(locs ...types.Location) []types.RouteStop {
	out := make([]types.RouteStop, len(locs))
	for i, l := range locs {
		out[i] = types.RouteStop{Location: l}
	}
	return out
}

func TestAllocate_ConservesDays(t *testing.T) {
	a := NewDayAllocator(DefaultAllocatorConfig())
	allStops := stopsOf(dijon, auxerre, beaune, newLocation("Mâcon", 46.3, 4.83, 4), newLocation("Chalon", 46.78, 4.85, 3.9))

	for tripDays := 1; tripDays <= 45; tripDays++ {
		for _, dist := range []float64{0, 120, 392, 1000, 2500, 9000} {
			for n := 0; n <= len(allStops); n++ {
				plan := a.Allocate(paris, lyon, allStops[:n], tripDays, dist, types.TransportModeCar)
				name := fmt.Sprintf("days=%d dist=%.0f stops=%d", tripDays, dist, n)
				require.Equal(t, tripDays, types.TotalDays(plan), name)
				for _, alloc := range plan {
					if alloc.Type == types.AllocationStay {
						require.GreaterOrEqual(t, alloc.DayCount, 1, name)
					}
				}
			}
		}
	}
}

func TestAllocate_ScenarioParisLyon(t *testing.T) {
	a := NewDayAllocator(DefaultAllocatorConfig())
	plan := a.Allocate(paris, lyon, nil, 3, 392, types.TransportModeCar)

	require.Len(t, plan, 3)
	assert.Equal(t, types.AllocationStay, plan[0].Type)
	assert.Equal(t, "Paris", plan[0].Location.Name)
	assert.Equal(t, 1, plan[0].DayCount)
	assert.Equal(t, types.AllocationTravel, plan[1].Type)
	assert.Equal(t, "Paris", plan[1].From.Name)
	assert.Equal(t, "Lyon", plan[1].To.Name)
	assert.InDelta(t, 392, plan[1].DistanceKm, 0.001)
	assert.InDelta(t, 4.9, plan[1].EstimatedDurationHrs, 0.001)
	assert.Equal(t, types.AllocationStay, plan[2].Type)
	assert.Equal(t, "Lyon", plan[2].Location.Name)
	assert.Equal(t, 1, plan[2].DayCount)
}

func TestAllocate_ScenarioLongRoute(t *testing.T) {
	a := NewDayAllocator(DefaultAllocatorConfig())

	travelDays, stayDays, startDays := a.Split(10, 2500)
	assert.Equal(t, 9, travelDays)
	assert.Equal(t, 1, stayDays)
	assert.Equal(t, 1, startDays)

	plan := a.Allocate(paris, istanbul, stopsOf(dijon, beaune), 10, 2500, types.TransportModeCar)
	require.Len(t, plan, 3, "no room for intermediate stops")
	assert.Equal(t, 1, plan[0].DayCount)
	assert.Equal(t, types.AllocationTravel, plan[1].Type)
	assert.Equal(t, "Istanbul", plan[2].Location.Name)
	assert.Equal(t, 8, plan[2].DayCount, "end anchor tops up the remaining days")
	assert.Equal(t, 10, types.TotalDays(plan))
}

func TestAllocate_WithStops(t *testing.T) {
	a := NewDayAllocator(DefaultAllocatorConfig())
	plan := a.Allocate(paris, lyon, stopsOf(auxerre, dijon), 10, 392, types.TransportModeCar)

	// travel 2, stay 8, start floor(8*0.4)=3, two stops, end 10-3-4-1=2
	require.Len(t, plan, 7)
	assert.Equal(t, "Paris", plan[0].Location.Name)
	assert.Equal(t, 3, plan[0].DayCount)
	assert.Equal(t, "Auxerre", plan[1].To.Name)
	assert.Equal(t, "Auxerre", plan[2].Location.Name)
	assert.Equal(t, 1, plan[2].DayCount)
	assert.Equal(t, "Auxerre", plan[3].From.Name)
	assert.Equal(t, "Dijon", plan[4].Location.Name)
	assert.Equal(t, "Dijon", plan[5].From.Name)
	assert.Equal(t, "Lyon", plan[5].To.Name)
	assert.Equal(t, 2, plan[6].DayCount)
	assert.Greater(t, plan[1].DistanceKm, 0.0)
}

func TestAllocate_TinyWindows(t *testing.T) {
	a := NewDayAllocator(DefaultAllocatorConfig())

	one := a.Allocate(paris, lyon, nil, 1, 392, types.TransportModeCar)
	require.Len(t, one, 1)
	assert.Equal(t, types.AllocationTravel, one[0].Type)

	two := a.Allocate(paris, lyon, nil, 2, 392, types.TransportModeCar)
	require.Len(t, two, 2)
	assert.Equal(t, types.AllocationStay, two[0].Type)
	assert.Equal(t, types.AllocationTravel, two[1].Type)

	assert.Nil(t, a.Allocate(paris, lyon, nil, 0, 392, types.TransportModeCar))
}

func TestAllocate_ConfigIsTunable(t *testing.T) {
	a := NewDayAllocator(AllocatorConfig{KmPerTravelDay: 1000, StartDayShare: 0.5})
	travelDays, stayDays, startDays := a.Split(10, 2500)
	assert.Equal(t, 3, travelDays)
	assert.Equal(t, 7, stayDays)
	assert.Equal(t, 3, startDays)
}

func TestAllocate_ZeroDistanceFallsBackToGreatCircle(t *testing.T) {
	a := NewDayAllocator(DefaultAllocatorConfig())
	plan := a.Allocate(paris, lyon, nil, 3, 0, types.TransportModeTrain)
	require.Len(t, plan, 3)
	assert.InDelta(t, 392, plan[1].DistanceKm, 5)
}
