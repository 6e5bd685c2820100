package itinerary

import (
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

const dateLayout = "2006-01-02"

// tripRequest is a validated ItineraryRequest.
type tripRequest struct {
	From      string
	To        string
	StartDate time.Time
	TripDays  int
	Interests []string
	Budget    types.Budget
	Pace      types.SearchPace
	Mode      types.TransportMode
}

// parseRequest validates req without side effects. Every error is a
// *types.ValidationError.
func parseRequest(req types.ItineraryRequest, maxTripDays int) (tripRequest, error) {
	out := tripRequest{
		From: strings.TrimSpace(req.From),
		To:   strings.TrimSpace(req.To),
	}
	if out.From == "" {
		return tripRequest{}, &types.ValidationError{Field: "from", Message: "is required"}
	}
	if out.To == "" {
		return tripRequest{}, &types.ValidationError{Field: "to", Message: "is required"}
	}

	start, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return tripRequest{}, &types.ValidationError{Field: "startDate", Message: "must be a date in YYYY-MM-DD format"}
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		return tripRequest{}, &types.ValidationError{Field: "endDate", Message: "must be a date in YYYY-MM-DD format"}
	}
	if end.Before(start) {
		return tripRequest{}, &types.ValidationError{Field: "endDate", Message: "must not be before startDate"}
	}
	out.StartDate = start
	out.TripDays = int(end.Sub(start).Hours()/24) + 1
	if maxTripDays > 0 && out.TripDays > maxTripDays {
		return tripRequest{}, &types.ValidationError{Field: "endDate", Message: "trip is longer than the supported maximum"}
	}

	if out.Budget, err = types.ParseBudget(req.Budget); err != nil {
		return tripRequest{}, &types.ValidationError{Field: "budget", Message: err.Error()}
	}
	if out.Pace, err = types.ParseSearchPace(req.Pace); err != nil {
		return tripRequest{}, &types.ValidationError{Field: "pace", Message: err.Error()}
	}
	if out.Mode, err = types.ParseTransportMode(req.TransportMode); err != nil {
		return tripRequest{}, &types.ValidationError{Field: "transportMode", Message: err.Error()}
	}

	for _, i := range req.Interests {
		if i = strings.TrimSpace(i); i != "" {
			out.Interests = append(out.Interests, i)
		}
	}
	return out, nil
}
