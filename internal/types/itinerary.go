package types

import (
	"github.com/google/uuid"
)

type AllocationType string

const (
	AllocationStay   AllocationType = "stay"
	AllocationTravel AllocationType = "travel"
)

// DayAllocation is either a stay or a travel entry. A stay contributes
// DayCount days, a travel entry exactly one.
type DayAllocation struct {
	Type AllocationType `json:"type"`

	// stay
	LocationID uuid.UUID `json:"location_id,omitempty"`
	Location   *Location `json:"location,omitempty"`
	DayCount   int       `json:"day_count,omitempty"`

	// travel
	FromLocationID       uuid.UUID `json:"from_location_id,omitempty"`
	ToLocationID         uuid.UUID `json:"to_location_id,omitempty"`
	From                 *Location `json:"from,omitempty"`
	To                   *Location `json:"to,omitempty"`
	DistanceKm           float64   `json:"distance_km,omitempty"`
	EstimatedDurationHrs float64   `json:"estimated_duration_hrs,omitempty"`
}

// Days is the number of calendar days this entry consumes.
func (a DayAllocation) Days() int {
	if a.Type == AllocationTravel {
		return 1
	}
	return a.DayCount
}

// TotalDays sums a plan skeleton.
func TotalDays(allocations []DayAllocation) int {
	total := 0
	for _, a := range allocations {
		total += a.Days()
	}
	return total
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// Meal is a restaurant booked for a meal slot.
type Meal struct {
	Type       MealType   `json:"type"`
	Restaurant Restaurant `json:"restaurant"`
}

// TravelInfo describes a travel day.
type TravelInfo struct {
	From                 string  `json:"from"`
	To                   string  `json:"to"`
	DistanceKm           float64 `json:"distance_km"`
	EstimatedDurationHrs float64 `json:"estimated_duration_hrs"`
	Mode                 string  `json:"mode"`
}

// DayPlan is one calendar day of the final itinerary.
type DayPlan struct {
	Date       string         `json:"date"`
	DayNumber  int            `json:"dayNumber"`
	Type       AllocationType `json:"type"`
	Location   Location       `json:"location"`
	Activities []Activity     `json:"activities"`
	Meals      []Meal         `json:"meals"`
	Travel     *TravelInfo    `json:"travel"`
	ImageURL   string         `json:"imageUrl"`
}

// ItineraryRequest is the top-level entry contract.
type ItineraryRequest struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Interests     []string `json:"interests,omitempty"`
	Budget        string   `json:"budget,omitempty"`
	Pace          string   `json:"pace,omitempty"`
	TransportMode string   `json:"transportMode,omitempty"`
}

// ItineraryStats summarizes a generated itinerary.
type ItineraryStats struct {
	TotalDays       int     `json:"totalDays"`
	StayDays        int     `json:"stayDays"`
	TravelDays      int     `json:"travelDays"`
	RouteDistanceKm float64 `json:"routeDistanceKm"`
	Stops           int     `json:"stops"`
}

// ItineraryResponse is returned to the web layer.
type ItineraryResponse struct {
	Days              []DayPlan         `json:"days"`
	StructuredContext StructuredContext `json:"structuredContext"`
	Stats             ItineraryStats    `json:"stats"`
}

// RouteStopsResponse is the preview returned by the route-stops endpoint.
type RouteStopsResponse struct {
	From  RouteAnchor `json:"from"`
	To    RouteAnchor `json:"to"`
	Stops []RouteStop `json:"stops"`
}

// ImageResponse is returned by the image resolve endpoint.
type ImageResponse struct {
	Subject       string `json:"subject"`
	Context       string `json:"context"`
	URL           string `json:"url"`
	IsPlaceholder bool   `json:"is_placeholder"`
}
