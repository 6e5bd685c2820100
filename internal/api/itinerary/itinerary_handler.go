package itinerary

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-route-planner/internal/api"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

type HandlerImpl struct {
	service     Service
	maxTripDays int
	logger      *slog.Logger
}

func NewHandler(service Service, maxTripDays int, logger *slog.Logger) *HandlerImpl {
	if maxTripDays <= 0 {
		maxTripDays = DefaultConfig().MaxTripDays
	}
	return &HandlerImpl{
		service:     service,
		maxTripDays: maxTripDays,
		logger:      logger,
	}
}

// GenerateItinerary godoc
// @Summary      Generate an itinerary
// @Description  Resolves both anchors, picks stops along the route, allocates days and fills each day with activities, meals and images.
// @Tags         itineraries
// @Accept       json
// @Produce      json
// @Param        request  body      types.ItineraryRequest  true  "Trip request"
// @Success      200      {object}  types.ItineraryResponse
// @Failure      400      {object}  map[string]any  "Invalid request"
// @Failure      422      {object}  map[string]any  "A location could not be resolved"
// @Failure      500      {object}  map[string]any
// @Router       /itineraries/generate [post]
func (h *HandlerImpl) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/itineraries/generate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))
	l.DebugContext(ctx, "Generate itinerary handler invoked")

	var req types.ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.WriteError(w, r, err)
		return
	}

	resp, err := h.service.GenerateItinerary(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
		span.RecordError(err)
		api.WriteError(w, r, err)
		return
	}

	l.InfoContext(ctx, "Itinerary generated", slog.Int("days", len(resp.Days)))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// PreviewRouteStops godoc
// @Summary      Preview route stops
// @Description  Lists the intermediate stops a trip between two places would visit.
// @Tags         itineraries
// @Produce      json
// @Param        from  query     string  true  "Start location"
// @Param        to    query     string  true  "End location"
// @Param        days  query     int     true  "Trip length in days"
// @Success      200   {object}  types.RouteStopsResponse
// @Failure      400   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /route-stops [get]
func (h *HandlerImpl) PreviewRouteStops(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "PreviewRouteStops", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/route-stops"),
	))
	defer span.End()

	from, err := api.RequiredQuery(r, "from")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	to, err := api.RequiredQuery(r, "to")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	days, err := api.IntQuery(r, "days", 1, h.maxTripDays)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	resp, err := h.service.PreviewRouteStops(ctx, from, to, days)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to preview route stops", slog.Any("error", err))
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
