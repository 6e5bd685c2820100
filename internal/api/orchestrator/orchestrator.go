package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	generativeAI "github.com/FACorreiaa/go-trip-route-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-route-planner/internal/cache"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

var errUnparseable = errors.New("unparseable model output")

// Orchestrator runs the strategy, validation, gap detection and gap fill
// stages in order. Every stage degrades to an empty result on failure; none
// of them returns an error to the caller.
type Orchestrator struct {
	ai     generativeAI.TextGenerator
	cache  *cache.Cache
	cfg    OrchestrationConfig
	logger *slog.Logger
}

func New(ai generativeAI.TextGenerator, c *cache.Cache, cfg OrchestrationConfig, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		ai:     ai,
		cache:  c,
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes the pipeline for a trip and returns its artifacts. candidates
// are the POIs the itinerary already proposes, which the validation stage
// scores.
func (o *Orchestrator) Run(ctx context.Context, tc types.TripContext, candidates []types.POI) types.StructuredContext {
	ctx, span := otel.Tracer("POIOrchestrator").Start(ctx, "Run", trace.WithAttributes(
		attribute.String("trip.origin", tc.Origin),
		attribute.String("trip.destination", tc.Destination),
		attribute.Int("trip.days", tc.DayCount),
		attribute.Int("candidates.count", len(candidates)),
	))
	defer span.End()

	out := types.StructuredContext{TripContext: tc}
	out.Strategy = o.Strategy(ctx, tc)
	out.ValidatedPOIs = o.Validate(ctx, tc, candidates)
	out.Gaps = o.DetectGaps(ctx, tc, out.ValidatedPOIs)
	out.GapFillPOIs = o.FillGaps(ctx, tc, out.Gaps)

	span.SetAttributes(
		attribute.Int("validated.count", len(out.ValidatedPOIs)),
		attribute.Int("gaps.count", len(out.Gaps)),
		attribute.Int("gap_fill.count", len(out.GapFillPOIs)),
	)
	return out
}

// Strategy returns nil when the stage is disabled or the model output is
// unusable.
func (o *Orchestrator) Strategy(ctx context.Context, tc types.TripContext) *types.POIStrategy {
	key := fmt.Sprintf("poi:strategy:%s:%s:%d", tc.TravelMode, tc.Budget, tc.DayCount)
	strategy, done := runStage(ctx, o, StageStrategy, key, func(ctx context.Context) (types.POIStrategy, error) {
		raw, err := o.complete(ctx, StageStrategy, strategyPrompt(tc))
		if err != nil {
			return types.POIStrategy{}, err
		}
		if res := parseObject[types.POIStrategy](raw); res.OK() && len(res.Value.Categories) > 0 {
			return res.Value, nil
		}
		res := parseArray[types.CategoryPlan](raw, "categories")
		if !res.OK() {
			return types.POIStrategy{}, fmt.Errorf("%w: %s", errUnparseable, res.Reason)
		}
		return types.POIStrategy{Categories: res.Value}, nil
	})
	if !done {
		return nil
	}
	return &strategy
}

// Validate scores candidates and keeps those at or above MinRelevance.
func (o *Orchestrator) Validate(ctx context.Context, tc types.TripContext, candidates []types.POI) []types.POI {
	if len(candidates) == 0 {
		return []types.POI{}
	}

	key := fmt.Sprintf("poi:validation:%s:%s:%s:%s",
		keyPart(tc.Origin), keyPart(tc.Destination), tc.TravelMode, hashNames(candidates))
	scored, done := runStage(ctx, o, StageValidation, key, func(ctx context.Context) ([]types.POI, error) {
		raw, err := o.complete(ctx, StageValidation, validationPrompt(tc, candidates))
		if err != nil {
			return nil, err
		}
		res := parseArray[types.POI](raw, "pois")
		if !res.OK() {
			return nil, fmt.Errorf("%w: %s", errUnparseable, res.Reason)
		}
		return mergeCandidates(res.Value, candidates), nil
	})
	if !done {
		return []types.POI{}
	}

	kept := make([]types.POI, 0, len(scored))
	for _, p := range scored {
		if p.RelevanceScore >= o.cfg.MinRelevance {
			kept = append(kept, p)
		}
	}
	return kept
}

func (o *Orchestrator) DetectGaps(ctx context.Context, tc types.TripContext, validated []types.POI) []types.POIGap {
	key := fmt.Sprintf("poi:gaps:%s:%s:%d:%s",
		keyPart(tc.Origin), keyPart(tc.Destination), tc.DayCount, hashNames(validated))
	gaps, done := runStage(ctx, o, StageGapDetection, key, func(ctx context.Context) ([]types.POIGap, error) {
		raw, err := o.complete(ctx, StageGapDetection, gapDetectionPrompt(tc, validated))
		if err != nil {
			return nil, err
		}
		res := parseArray[types.POIGap](raw, "gaps")
		if !res.OK() {
			return nil, fmt.Errorf("%w: %s", errUnparseable, res.Reason)
		}
		return res.Value, nil
	})
	if !done {
		return []types.POIGap{}
	}
	return gaps
}

// FillGaps is skipped without a model call when there are no gaps.
func (o *Orchestrator) FillGaps(ctx context.Context, tc types.TripContext, gaps []types.POIGap) []types.POI {
	if len(gaps) == 0 {
		return []types.POI{}
	}

	key := fmt.Sprintf("poi:gapfill:%s:%s:%s",
		keyPart(tc.Origin), keyPart(tc.Destination), hashGaps(gaps))
	pois, done := runStage(ctx, o, StageGapFill, key, func(ctx context.Context) ([]types.POI, error) {
		raw, err := o.complete(ctx, StageGapFill, gapFillPrompt(tc, gaps))
		if err != nil {
			return nil, err
		}
		res := parseArray[types.POI](raw, "pois")
		if !res.OK() {
			return nil, fmt.Errorf("%w: %s", errUnparseable, res.Reason)
		}
		for i := range res.Value {
			res.Value[i].Source = "gap_fill"
		}
		return res.Value, nil
	})
	if !done {
		return []types.POI{}
	}
	return pois
}

// runStage applies the stage flag and cache. Failures are logged and
// reported as not done; they are never cached.
func runStage[T any](ctx context.Context, o *Orchestrator, stage, key string, compute func(context.Context) (T, error)) (T, bool) {
	var zero T
	sc := o.cfg.stage(stage)
	if !sc.Enabled {
		return zero, false
	}

	v, err := cache.GetOrSet(ctx, o.cache, key, sc.TTL, compute)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, generativeAI.ErrDisabled) {
			level = slog.LevelDebug
		}
		o.logger.Log(ctx, level, "POI orchestration stage degraded",
			slog.String("stage", stage), slog.Any("error", err))
		return zero, false
	}
	return v, true
}

func (o *Orchestrator) complete(ctx context.Context, stage, prompt string) (string, error) {
	return o.ai.Complete(ctx, prompt, generativeAI.CompletionOptions{
		Temperature: o.cfg.Temperature,
		JSON:        true,
		Stage:       stage,
	})
}

// mergeCandidates fills fields the model dropped from the matching
// candidate. Names the model invented are kept as returned.
func mergeCandidates(scored, candidates []types.POI) []types.POI {
	byName := make(map[string]types.POI, len(candidates))
	for _, c := range candidates {
		byName[keyPart(c.Name)] = c
	}
	out := make([]types.POI, 0, len(scored))
	for _, s := range scored {
		if c, found := byName[keyPart(s.Name)]; found {
			score := s.RelevanceScore
			desc := s.Description
			s = c
			s.RelevanceScore = score
			if s.Description == "" {
				s.Description = desc
			}
		}
		out = append(out, s)
	}
	return out
}

func keyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func hashNames(pois []types.POI) string {
	names := make([]string, 0, len(pois))
	for _, p := range pois {
		names = append(names, keyPart(p.Name))
	}
	sort.Strings(names)
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(names, "\n")))
}

func hashGaps(gaps []types.POIGap) string {
	parts := make([]string, 0, len(gaps))
	for _, g := range gaps {
		parts = append(parts, fmt.Sprintf("%s|%d|%s", keyPart(g.Type), g.Day, keyPart(g.Location)))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "\n")))
}
