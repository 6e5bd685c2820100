package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

func describeTrip(tc types.TripContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Origin: %s\n", tc.Origin)
	fmt.Fprintf(&b, "Destination: %s\n", tc.Destination)
	if len(tc.Stops) > 0 {
		fmt.Fprintf(&b, "Stops along the way: %s\n", strings.Join(tc.Stops, ", "))
	}
	fmt.Fprintf(&b, "Travel mode: %s\n", tc.TravelMode)
	fmt.Fprintf(&b, "Budget: %s\n", tc.Budget)
	fmt.Fprintf(&b, "Days: %d\n", tc.DayCount)
	if len(tc.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(tc.Interests, ", "))
	}
	return b.String()
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func strategyPrompt(tc types.TripContext) string {
	return fmt.Sprintf(`
            You are planning points of interest for a road trip.
            %s
            Decide how many accommodations, meals and activities the trip needs and in which priority order.
            Return the response STRICTLY as a JSON object with:
            {
            "categories": [
                {
                "category": "accommodation | meal | activity",
                "count": <int>,
                "priority": <int, 1 is highest>
                }
            ]
            }`, describeTrip(tc))
}

func validationPrompt(tc types.TripContext, candidates []types.POI) string {
	return fmt.Sprintf(`
            You are checking candidate points of interest for a trip.
            %s
            Candidates:
            %s
            Score each candidate's relevance to this trip between 0 and 1. Drop candidates that do not exist
            or are far from the route.
            Return the response STRICTLY as a JSON array of the kept candidates, each with the original
            fields plus "relevance_score": <float>.`, describeTrip(tc), mustJSON(candidates))
}

func gapDetectionPrompt(tc types.TripContext, validated []types.POI) string {
	return fmt.Sprintf(`
            You are reviewing the coverage of a %d day trip plan.
            %s
            Planned points of interest:
            %s
            Identify coverage gaps such as a missing overnight stop or a missing meal break.
            Return the response STRICTLY as a JSON array:
            [
                {
                "type": "accommodation | meal | activity | rest_stop",
                "day": <int, 1-based>,
                "location": "where the gap is",
                "description": "what is missing"
                }
            ]
            Return [] when nothing is missing.`, tc.DayCount, describeTrip(tc), mustJSON(validated))
}

func gapFillPrompt(tc types.TripContext, gaps []types.POIGap) string {
	return fmt.Sprintf(`
            You are filling gaps in a trip plan.
            %s
            Gaps:
            %s
            Suggest one real point of interest for each gap.
            Return the response STRICTLY as a JSON array:
            [
                {
                "name": "Name of the Point of Interest",
                "category": "Primary category (e.g., restaurant, hotel, museum, park)",
                "location": "town or city",
                "latitude": <float>,
                "longitude": <float>,
                "description": "A 1-2 sentence description.",
                "day": <int, the gap's day>
                }
            ]`, describeTrip(tc), mustJSON(gaps))
}
