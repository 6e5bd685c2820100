package images

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-trip-route-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-route-planner/internal/cache"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

// Registration places a provider in the fallback chain. MinInterval spaces
// successive searches against the provider; Timeout bounds the search itself
// and does not include the wait for the next slot.
type Registration struct {
	Provider    Provider
	Priority    int
	Timeout     time.Duration
	MinInterval time.Duration
}

type link struct {
	Registration
	limiter *rate.Limiter
}

// Resolver walks the providers in priority order and returns the first
// candidate that passes the quality filter. Found images are cached without
// expiry; the placeholder is never cached, so a later call can still find a
// real image.
type Resolver struct {
	chain       []link
	filter      *QualityFilter
	cache       *cache.Cache
	placeholder string
	logger      *slog.Logger
}

func NewResolver(chain []Registration, filter *QualityFilter, c *cache.Cache, placeholder string, logger *slog.Logger) *Resolver {
	sorted := make([]link, 0, len(chain))
	for _, reg := range chain {
		limit := rate.Inf
		if reg.MinInterval > 0 {
			limit = rate.Every(reg.MinInterval)
		}
		sorted = append(sorted, link{Registration: reg, limiter: rate.NewLimiter(limit, 1)})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	if filter == nil {
		filter = NewQualityFilter()
	}
	return &Resolver{
		chain:       sorted,
		filter:      filter,
		cache:       c,
		placeholder: placeholder,
		logger:      logger,
	}
}

func cacheKey(subject, locationContext string) string {
	return fmt.Sprintf("image:%s:%s",
		strings.ToLower(strings.TrimSpace(subject)),
		strings.ToLower(strings.TrimSpace(locationContext)))
}

func searchQuery(subject, locationContext string) string {
	subject = strings.TrimSpace(subject)
	locationContext = strings.TrimSpace(locationContext)
	if locationContext == "" || strings.Contains(strings.ToLower(subject), strings.ToLower(locationContext)) {
		return subject
	}
	return subject + " " + locationContext
}

// Placeholder is the URL returned when no image is found.
func (r *Resolver) Placeholder() string { return r.placeholder }

// Resolve always returns a URL: a filtered provider image or the placeholder.
func (r *Resolver) Resolve(ctx context.Context, subject, locationContext string) types.ImageResponse {
	ctx, span := otel.Tracer("ImageResolver").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("image.subject", subject),
		attribute.String("image.context", locationContext),
	))
	defer span.End()

	resp := types.ImageResponse{Subject: subject, Context: locationContext}

	url, err := cache.GetOrSet(ctx, r.cache, cacheKey(subject, locationContext), 0, func(ctx context.Context) (string, error) {
		return r.walk(ctx, searchQuery(subject, locationContext))
	})
	if err != nil {
		if !errors.Is(err, types.ErrNoImage) {
			r.logger.WarnContext(ctx, "Image resolution failed", slog.String("subject", subject), slog.Any("error", err))
		}
		metrics.Get().ImagePlaceholdersTotal.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("image.placeholder", true))
		resp.URL = r.placeholder
		resp.IsPlaceholder = true
		return resp
	}

	resp.URL = url
	return resp
}

// Invalidate drops the cached image for a subject so the next Resolve
// searches again.
func (r *Resolver) Invalidate(ctx context.Context, subject, locationContext string) error {
	if err := r.cache.Delete(ctx, cacheKey(subject, locationContext)); err != nil {
		return fmt.Errorf("invalidate image %q: %w", subject, err)
	}
	return nil
}

func (r *Resolver) walk(ctx context.Context, query string) (string, error) {
	for _, l := range r.chain {
		name := l.Provider.Name()
		url, outcome := r.try(ctx, l, query)
		metrics.Get().ImageProviderAttempts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", name),
			attribute.String("outcome", outcome),
		))
		if url != "" {
			r.logger.DebugContext(ctx, "Image resolved",
				slog.String("query", query), slog.String("provider", name))
			return url, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", types.ErrNoImage
}

func (r *Resolver) try(ctx context.Context, reg link, query string) (string, string) {
	// spacing is waited out before the provider timeout starts
	if err := reg.limiter.Wait(ctx); err != nil {
		return "", "error"
	}
	if reg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, reg.Timeout)
		defer cancel()
	}

	candidates, err := reg.Provider.Search(ctx, query)
	if err != nil {
		r.logger.DebugContext(ctx, "Image provider failed",
			slog.String("provider", reg.Provider.Name()), slog.Any("error", err))
		return "", "error"
	}
	if len(candidates) == 0 {
		return "", "empty"
	}
	for _, c := range candidates {
		if r.filter.Accept(c) {
			return c.URL, "hit"
		}
	}
	return "", "filtered"
}
