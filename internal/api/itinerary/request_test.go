package itinerary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

func TestParseRequest(t *testing.T) {
	valid := types.ItineraryRequest{From: "Paris, France", To: "Lyon, France", StartDate: "2025-06-01", EndDate: "2025-06-03"}

	t.Run("defaults", func(t *testing.T) {
		got, err := parseRequest(valid, 60)
		require.NoError(t, err)
		assert.Equal(t, 3, got.TripDays)
		assert.Equal(t, types.BudgetModerate, got.Budget)
		assert.Equal(t, types.SearchPaceModerate, got.Pace)
		assert.Equal(t, types.TransportModeCar, got.Mode)
		assert.Equal(t, "2025-06-01", got.StartDate.Format(dateLayout))
	})

	t.Run("single day", func(t *testing.T) {
		req := valid
		req.EndDate = req.StartDate
		got, err := parseRequest(req, 60)
		require.NoError(t, err)
		assert.Equal(t, 1, got.TripDays)
	})

	t.Run("trims interests", func(t *testing.T) {
		req := valid
		req.Interests = []string{" museum ", "", "food"}
		got, err := parseRequest(req, 60)
		require.NoError(t, err)
		assert.Equal(t, []string{"museum", "food"}, got.Interests)
	})

	invalid := []struct {
		name  string
		edit  func(*types.ItineraryRequest)
		field string
	}{
		{"missing from", func(r *types.ItineraryRequest) { r.From = "  " }, "from"},
		{"missing to", func(r *types.ItineraryRequest) { r.To = "" }, "to"},
		{"bad start date", func(r *types.ItineraryRequest) { r.StartDate = "06/01/2025" }, "startDate"},
		{"bad end date", func(r *types.ItineraryRequest) { r.EndDate = "tomorrow" }, "endDate"},
		{"end before start", func(r *types.ItineraryRequest) { r.EndDate = "2025-05-31" }, "endDate"},
		{"too long", func(r *types.ItineraryRequest) { r.EndDate = "2025-09-01" }, "endDate"},
		{"unknown budget", func(r *types.ItineraryRequest) { r.Budget = "cheap" }, "budget"},
		{"unknown pace", func(r *types.ItineraryRequest) { r.Pace = "sprint" }, "pace"},
		{"unknown mode", func(r *types.ItineraryRequest) { r.TransportMode = "teleport" }, "transportMode"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.edit(&req)
			_, err := parseRequest(req, 60)
			var ve *types.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
