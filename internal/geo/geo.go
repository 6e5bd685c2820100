// Package geo holds the pure distance and detour geometry used to place
// route stops. Nothing here performs I/O.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

func toPoint(c types.Coordinates) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// DistanceKm is the great-circle (haversine) distance between a and b.
func DistanceKm(a, b types.Coordinates) float64 {
	return orbgeo.DistanceHaversine(toPoint(a), toPoint(b)) / 1000
}

// DetourCostKm is the extra distance incurred by routing start -> candidate -> end
// instead of start -> end. Floating point noise is clamped so the result is
// never negative.
func DetourCostKm(start, end, candidate types.Coordinates) float64 {
	detour := DistanceKm(start, candidate) + DistanceKm(candidate, end) - DistanceKm(start, end)
	return math.Max(0, detour)
}

// ExpandedBound returns the smallest box containing both anchors, padded by
// paddingDeg degrees on every side.
func ExpandedBound(start, end types.Coordinates, paddingDeg float64) orb.Bound {
	return orb.Bound{Min: toPoint(start), Max: toPoint(start)}.
		Extend(toPoint(end)).
		Pad(paddingDeg)
}

// BoundingBox converts an orb bound into the catalog's query shape.
func BoundingBox(b orb.Bound) types.BoundingBox {
	return types.BoundingBox{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}
}

// Contains reports whether c lies inside the box.
func Contains(box types.BoundingBox, c types.Coordinates) bool {
	b := orb.Bound{
		Min: orb.Point{box.MinLon, box.MinLat},
		Max: orb.Point{box.MaxLon, box.MaxLat},
	}
	return b.Contains(toPoint(c))
}
