package types

import (
	"fmt"
	"strings"
)

// Budget is the traveler's spending tier.
type Budget string

const (
	BudgetLow      Budget = "budget"
	BudgetModerate Budget = "moderate"
	BudgetLuxury   Budget = "luxury"
)

// ParseBudget defaults an empty value to moderate.
func ParseBudget(s string) (Budget, error) {
	switch b := Budget(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BudgetModerate, nil
	case BudgetLow, BudgetModerate, BudgetLuxury:
		return b, nil
	default:
		return "", fmt.Errorf("unknown budget value: %s", s)
	}
}

// PriceRanges maps a budget tier onto catalog price ranges.
func (b Budget) PriceRanges() []string {
	switch b {
	case BudgetLow:
		return []string{"$", "$$"}
	case BudgetLuxury:
		return []string{"$$$", "$$$$"}
	default:
		return []string{"$$", "$$$"}
	}
}

// SearchPace controls how many activities are planned per day.
type SearchPace string

const (
	SearchPaceRelaxed  SearchPace = "relaxed"  // Fewer, longer activities
	SearchPaceModerate SearchPace = "moderate" // Standard pace
	SearchPaceFast     SearchPace = "fast"     // Pack in many activities
)

// ParseSearchPace defaults an empty value to moderate.
func ParseSearchPace(s string) (SearchPace, error) {
	switch p := SearchPace(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return SearchPaceModerate, nil
	case SearchPaceRelaxed, SearchPaceModerate, SearchPaceFast:
		return p, nil
	default:
		return "", fmt.Errorf("unknown pace value: %s", s)
	}
}

// ActivitiesPerDay returns 3, 4 or 6.
func (p SearchPace) ActivitiesPerDay() int {
	switch p {
	case SearchPaceRelaxed:
		return 3
	case SearchPaceFast:
		return 6
	default:
		return 4
	}
}

type TransportMode string

const (
	TransportModeCar    TransportMode = "car"
	TransportModeTrain  TransportMode = "train"
	TransportModeBus    TransportMode = "bus"
	TransportModeBike   TransportMode = "bike"
	TransportModeWalk   TransportMode = "walk"
	TransportModeFlight TransportMode = "flight"
)

// ParseTransportMode defaults an empty value to car.
func ParseTransportMode(s string) (TransportMode, error) {
	switch m := TransportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return TransportModeCar, nil
	case TransportModeCar, TransportModeTrain, TransportModeBus, TransportModeBike, TransportModeWalk, TransportModeFlight:
		return m, nil
	default:
		return "", fmt.Errorf("unknown transport mode: %s", s)
	}
}

// RoutingProfile is the routing-service profile used for this mode.
func (m TransportMode) RoutingProfile() string {
	switch m {
	case TransportModeBike:
		return "cycling-regular"
	case TransportModeWalk:
		return "foot-walking"
	default:
		return "driving-car"
	}
}

// AverageSpeedKmh is used to estimate leg durations.
func (m TransportMode) AverageSpeedKmh() float64 {
	switch m {
	case TransportModeTrain:
		return 120
	case TransportModeBus:
		return 60
	case TransportModeBike:
		return 15
	case TransportModeWalk:
		return 5
	case TransportModeFlight:
		return 600
	default:
		return 80
	}
}
