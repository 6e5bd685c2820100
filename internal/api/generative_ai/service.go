package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-route-planner/app/observability/metrics"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("generative AI not configured")

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// CompletionOptions tunes a single completion.
type CompletionOptions struct {
	Temperature float32
	// JSON asks the model for an application/json response.
	JSON bool
	// Stage labels metrics and spans, e.g. "strategy".
	Stage string
}

// TextGenerator is what callers depend on, so tests can swap the model out.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

var _ TextGenerator = (*AIClient)(nil)

type AIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewAIClient returns a client that reports ErrDisabled on every call when
// cfg.APIKey is empty, so the server can run without AI enrichment.
func NewAIClient(ctx context.Context, cfg Config, logger *slog.Logger) (*AIClient, error) {
	ai := &AIClient{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if ai.model == "" {
		ai.model = "gemini-2.0-flash"
	}
	if ai.timeout <= 0 {
		ai.timeout = 30 * time.Second
	}
	if cfg.APIKey == "" {
		logger.Warn("Generative AI API key not set, POI orchestration will be skipped")
		return ai, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	ai.client = client
	return ai, nil
}

// Complete sends prompt as a single-turn request and returns the text reply.
func (ai *AIClient) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Complete", trace.WithAttributes(
		attribute.String("ai.model", ai.model),
		attribute.String("ai.stage", opts.Stage),
		attribute.Int("ai.prompt_length", len(prompt)),
	))
	defer span.End()

	if ai.client == nil {
		return "", ErrDisabled
	}

	attrs := metric.WithAttributes(attribute.String("ai.stage", opts.Stage))
	metrics.Get().AIRequestsTotal.Add(ctx, 1, attrs)

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(opts.Temperature),
	}
	if opts.JSON {
		config.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		metrics.Get().AIFailuresTotal.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	ai.logger.DebugContext(ctx, "AI completion finished",
		slog.String("stage", opts.Stage),
		slog.Duration("duration", time.Since(start)),
		slog.Int("response_length", len(text)))
	span.SetAttributes(attribute.Int("ai.response_length", len(text)))

	if text == "" {
		metrics.Get().AIFailuresTotal.Add(ctx, 1, attrs)
		return "", fmt.Errorf("empty response from model %s", ai.model)
	}
	return text, nil
}
