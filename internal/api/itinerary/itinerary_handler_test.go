package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ItineraryResponse), args.Error(1)
}

func (m *MockService) PreviewRouteStops(ctx context.Context, from, to string, days int) (*types.RouteStopsResponse, error) {
	args := m.Called(ctx, from, to, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RouteStopsResponse), args.Error(1)
}

func postItinerary(h *HandlerImpl, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.GenerateItinerary(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	msg, _ := body["error"].(string)
	return msg
}

func TestHandlerGenerateItinerary(t *testing.T) {
	const validBody = `{"from":"Paris, France","to":"Lyon, France","startDate":"2025-06-01","endDate":"2025-06-03"}`

	t.Run("ok", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GenerateItinerary", mock.Anything, mock.MatchedBy(func(r types.ItineraryRequest) bool {
			return r.From == "Paris, France" && r.EndDate == "2025-06-03"
		})).Return(&types.ItineraryResponse{
			Days:  []types.DayPlan{{Date: "2025-06-01", DayNumber: 1, Type: types.AllocationStay}},
			Stats: types.ItineraryStats{TotalDays: 1, StayDays: 1},
		}, nil).Once()

		rr := postItinerary(NewHandler(svc, 0, testLogger), validBody)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		var got map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Contains(t, got, "days")
		assert.Contains(t, got, "structuredContext")
		assert.Equal(t, float64(1), got["stats"].(map[string]any)["totalDays"])
		svc.AssertExpectations(t)
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := new(MockService)
		rr := postItinerary(NewHandler(svc, 0, testLogger), `{"from":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		decodeError(t, rr)
		svc.AssertNotCalled(t, "GenerateItinerary", mock.Anything, mock.Anything)
	})

	t.Run("unknown field", func(t *testing.T) {
		svc := new(MockService)
		rr := postItinerary(NewHandler(svc, 0, testLogger), `{"from":"Paris","destination":"Lyon"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "destination")
	})

	t.Run("validation error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return(nil, &types.ValidationError{Field: "endDate", Message: "must not be before startDate"})

		rr := postItinerary(NewHandler(svc, 0, testLogger), validBody)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "endDate: must not be before startDate", decodeError(t, rr))
	})

	t.Run("unresolvable location", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return(nil, &types.ResolutionError{Name: "Atlantis", Err: errors.New("no geocode results")})

		rr := postItinerary(NewHandler(svc, 0, testLogger), validBody)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, decodeError(t, rr), "Atlantis")
	})

	t.Run("internal error is not echoed", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GenerateItinerary", mock.Anything, mock.Anything).
			Return(nil, errors.New("pq: connection refused"))

		rr := postItinerary(NewHandler(svc, 0, testLogger), validBody)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, decodeError(t, rr), "pq")
	})
}

func TestHandlerPreviewRouteStops(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "missing from", query: "to=Lyon&days=5", wantStatus: http.StatusBadRequest},
		{name: "missing to", query: "from=Paris&days=5", wantStatus: http.StatusBadRequest},
		{name: "days not a number", query: "from=Paris&to=Lyon&days=five", wantStatus: http.StatusBadRequest},
		{name: "days zero", query: "from=Paris&to=Lyon&days=0", wantStatus: http.StatusBadRequest},
		{name: "days over max", query: "from=Paris&to=Lyon&days=31", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			h := NewHandler(svc, 30, testLogger)

			rr := httptest.NewRecorder()
			h.PreviewRouteStops(rr, httptest.NewRequest(http.MethodGet, "/api/v1/route-stops?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			svc.AssertNotCalled(t, "PreviewRouteStops", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("ok", func(t *testing.T) {
		svc := new(MockService)
		svc.On("PreviewRouteStops", mock.Anything, "Paris", "Lyon", 6).Return(&types.RouteStopsResponse{
			From:  anchorOf(paris),
			To:    anchorOf(lyon),
			Stops: []types.RouteStop{{Location: beaune, DetourCostKm: 12.5}},
		}, nil).Once()
		h := NewHandler(svc, 30, testLogger)

		rr := httptest.NewRecorder()
		h.PreviewRouteStops(rr, httptest.NewRequest(http.MethodGet, "/api/v1/route-stops?from=Paris&to=Lyon&days=6", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got types.RouteStopsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got.Stops, 1)
		assert.Equal(t, "Beaune", got.Stops[0].Name)
		assert.Equal(t, 12.5, got.Stops[0].DetourCostKm)
		svc.AssertExpectations(t)
	})
}
