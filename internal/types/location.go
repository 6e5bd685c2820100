package types

import (
	"github.com/google/uuid"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox is an axis-aligned lat/lon rectangle.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Location is a catalog entry. Immutable once fetched.
type Location struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Country      string         `json:"country"`
	Region       string         `json:"region,omitempty"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Rating       float64        `json:"rating"`
	InterestTags map[string]any `json:"interest_tags,omitempty"`
	ImageURL     string         `json:"image_url,omitempty"`
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Latitude, Lon: l.Longitude}
}

// RouteAnchor is the resolved start or end of a trip.
type RouteAnchor struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	// LocationID is set when the anchor was matched against the catalog.
	LocationID *uuid.UUID `json:"location_id,omitempty"`
	Country    string     `json:"country,omitempty"`
}

// AsLocation returns the anchor as a catalog-shaped location so plans can
// reference start, stops and end uniformly.
func (a RouteAnchor) AsLocation() Location {
	loc := Location{
		Name:      a.Name,
		Country:   a.Country,
		Latitude:  a.Coordinates.Lat,
		Longitude: a.Coordinates.Lon,
	}
	if a.LocationID != nil {
		loc.ID = *a.LocationID
	}
	return loc
}

// RouteStop is an intermediate stop with its detour relative to the anchors.
type RouteStop struct {
	Location
	DetourCostKm float64 `json:"detour_cost_km"`
}

// Activity is a catalog activity at a location.
type Activity struct {
	ID          uuid.UUID `json:"id"`
	LocationID  uuid.UUID `json:"location_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	PriceRange  string    `json:"price_range,omitempty"`
	DurationHrs float64   `json:"duration_hours,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// Restaurant is a catalog restaurant at a location.
type Restaurant struct {
	ID          uuid.UUID `json:"id"`
	LocationID  uuid.UUID `json:"location_id"`
	Name        string    `json:"name"`
	CuisineType string    `json:"cuisine_type,omitempty"`
	PriceRange  string    `json:"price_range"`
	Rating      float64   `json:"rating"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// Corridor keeps a location query to candidates that lie roughly within
// MaxDetourKm of the route from Start to End.
type Corridor struct {
	Start       Coordinates
	End         Coordinates
	MaxDetourKm float64
}

// LocationFilter narrows catalog location queries.
type LocationFilter struct {
	PublishedOnly bool
	ExcludeIDs    []uuid.UUID
	ExcludeNames  []string
	Corridor      *Corridor
	Limit         int
}

// ActivityFilter narrows catalog activity queries.
type ActivityFilter struct {
	Limit int
}

// RestaurantFilter narrows catalog restaurant queries.
type RestaurantFilter struct {
	PriceRanges []string
	Limit       int
}
