package types

// TripContext is the orchestration pipeline's view of a trip. It is built
// once per orchestration call and used both as prompt context and as a cache
// key component.
type TripContext struct {
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	TravelMode  TransportMode `json:"travel_mode"`
	Budget      Budget        `json:"budget"`
	DayCount    int           `json:"day_count"`
	Interests   []string      `json:"interests,omitempty"`
	Stops       []string      `json:"stops,omitempty"`
}

// CategoryPlan is one line of a strategy.
type CategoryPlan struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Priority int    `json:"priority"`
}

// POIStrategy is the stage-1 output.
type POIStrategy struct {
	Categories []CategoryPlan `json:"categories"`
}

// POI is a point-of-interest candidate flowing through the pipeline.
type POI struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Location       string  `json:"location,omitempty"`
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
	Description    string  `json:"description,omitempty"`
	Rating         float64 `json:"rating,omitempty"`
	RelevanceScore float64 `json:"relevance_score,omitempty"`
	Day            int     `json:"day,omitempty"`
	Source         string  `json:"source,omitempty"`
}

// POIGap is a detected coverage gap, e.g. no lunch stop on day 3.
type POIGap struct {
	Type        string `json:"type"`
	Day         int    `json:"day,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
}

// StructuredContext carries the pipeline's intermediate artifacts.
type StructuredContext struct {
	TripContext   TripContext  `json:"tripContext"`
	Strategy      *POIStrategy `json:"strategy,omitempty"`
	ValidatedPOIs []POI        `json:"validatedPois"`
	Gaps          []POIGap     `json:"gaps"`
	GapFillPOIs   []POI        `json:"gapFillPois"`
}
