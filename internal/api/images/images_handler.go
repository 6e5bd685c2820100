package images

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-route-planner/internal/api"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

// ImageService is the part of the Resolver the handler needs.
type ImageService interface {
	Resolve(ctx context.Context, subject, locationContext string) types.ImageResponse
	Invalidate(ctx context.Context, subject, locationContext string) error
}

var _ ImageService = (*Resolver)(nil)

type HandlerImpl struct {
	service ImageService
	logger  *slog.Logger
}

func NewHandler(service ImageService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// ResolveImage godoc
// @Summary      Resolve an image
// @Description  Returns a quality-filtered image for a subject, or the placeholder when none is found.
// @Tags         images
// @Produce      json
// @Param        subject  query  string  true   "Subject, e.g. Eiffel Tower"
// @Param        context  query  string  false  "Location context, e.g. Paris"
// @Success      200  {object}  types.ImageResponse
// @Failure      400  {object}  map[string]any
// @Router       /images/resolve [get]
func (h *HandlerImpl) ResolveImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImagesHandler").Start(r.Context(), "ResolveImage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/images/resolve"),
	))
	defer span.End()

	subject, err := api.RequiredQuery(r, "subject")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	resp := h.service.Resolve(ctx, subject, r.URL.Query().Get("context"))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// InvalidateImage godoc
// @Summary      Invalidate a cached image
// @Tags         images
// @Param        subject  query  string  true   "Subject"
// @Param        context  query  string  false  "Location context"
// @Success      204
// @Failure      400  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /images/cache [delete]
func (h *HandlerImpl) InvalidateImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImagesHandler").Start(r.Context(), "InvalidateImage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/images/cache"),
	))
	defer span.End()

	subject, err := api.RequiredQuery(r, "subject")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := h.service.Invalidate(ctx, subject, r.URL.Query().Get("context")); err != nil {
		h.logger.ErrorContext(ctx, "Failed to invalidate image", slog.String("subject", subject), slog.Any("error", err))
		api.WriteError(w, r, err)
		return
	}
	h.logger.InfoContext(ctx, "Image cache invalidated", slog.String("subject", subject))
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
