package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ItineraryRequestsTotal   metric.Int64Counter
	ItineraryDurationSeconds metric.Float64Histogram
	CacheHitsTotal           metric.Int64Counter
	CacheMissesTotal         metric.Int64Counter
	AIRequestsTotal          metric.Int64Counter
	AIFailuresTotal          metric.Int64Counter
	ImageProviderAttempts    metric.Int64Counter
	ImagePlaceholdersTotal   metric.Int64Counter
	DbQueryDurationSeconds   metric.Float64Histogram
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the instruments once, from the globally
// configured MeterProvider. Call it after the provider is installed so the
// instruments are exported; calling Get first binds them to whatever provider
// is global at that moment (the no-op provider in tests).
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("RoutePlanner")
		m := &AppMetrics{}

		m.ItineraryRequestsTotal = mustCounter(meter, "itinerary_requests_total",
			"Total number of itinerary generation requests", "{request}")
		m.ItineraryDurationSeconds = mustHistogram(meter, "itinerary_duration_seconds",
			"Duration of itinerary generation in seconds")
		m.CacheHitsTotal = mustCounter(meter, "cache_hits_total",
			"Total number of cache hits", "{hit}")
		m.CacheMissesTotal = mustCounter(meter, "cache_misses_total",
			"Total number of cache misses", "{miss}")
		m.AIRequestsTotal = mustCounter(meter, "ai_requests_total",
			"Total number of AI text generation calls", "{request}")
		m.AIFailuresTotal = mustCounter(meter, "ai_failures_total",
			"AI calls that failed or returned unparsable output", "{error}")
		m.ImageProviderAttempts = mustCounter(meter, "image_provider_attempts_total",
			"Image provider searches, by provider and outcome", "{request}")
		m.ImagePlaceholdersTotal = mustCounter(meter, "image_placeholders_total",
			"Image resolutions that fell back to the placeholder", "{image}")
		m.DbQueryDurationSeconds = mustHistogram(meter, "db_query_duration_seconds",
			"Duration of database queries in seconds")
		m.DbQueryErrorsTotal = mustCounter(meter, "db_query_errors_total",
			"Total number of database query errors", "{error}")

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

func mustCounter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return c
}

func mustHistogram(meter metric.Meter, name, desc string) metric.Float64Histogram {
	h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return h
}

// Get returns the instruments, initializing them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
