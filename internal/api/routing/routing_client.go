package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-route-planner/internal/cache"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

// ErrDisabled is returned by every call when no API key is configured.
var ErrDisabled = errors.New("routing service not configured")

const (
	geocodeTTL = 30 * 24 * time.Hour
	routeTTL   = 7 * 24 * time.Hour
)

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// Place is a geocoded name.
type Place struct {
	Label       string            `json:"label"`
	Country     string            `json:"country,omitempty"`
	Coordinates types.Coordinates `json:"coordinates"`
}

// Route is the road distance and duration between two points.
type Route struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationHrs float64 `json:"duration_hours"`
}

// Service resolves place names and road distances. Implementations must be
// safe for concurrent use.
type Service interface {
	Geocode(ctx context.Context, name string) (Place, error)
	Route(ctx context.Context, from, to types.Coordinates, profile string) (Route, error)
}

var _ Service = (*Client)(nil)

// Client talks to OpenRouteService. Results are cached so repeated
// itineraries over the same corridor do not hit the API.
type Client struct {
	session    *http.Client
	apiKey     string
	baseURL    string
	maxRetries int
	cache      *cache.Cache
	logger     *slog.Logger
}

func NewClient(cfg Config, c *cache.Cache, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &Client{
		session:    &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries: retries,
		cache:      c,
		logger:     logger,
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label   string `json:"label"`
			Country string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a free-text place name to its best match.
func (c *Client) Geocode(ctx context.Context, name string) (Place, error) {
	ctx, span := otel.Tracer("RoutingClient").Start(ctx, "Geocode", trace.WithAttributes(
		attribute.String("place.name", name),
	))
	defer span.End()

	if c.apiKey == "" {
		return Place{}, ErrDisabled
	}
	norm := normalize(name)
	if norm == "" {
		return Place{}, fmt.Errorf("empty place name")
	}

	place, err := cache.GetOrSet(ctx, c.cache, "geocode:"+norm, geocodeTTL, func(ctx context.Context) (Place, error) {
		return c.geocode(ctx, norm)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocode failed")
		return Place{}, err
	}
	return place, nil
}

func (c *Client) geocode(ctx context.Context, text string) (Place, error) {
	endpoint := c.baseURL + "/geocode/search"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return Place{}, fmt.Errorf("geocode %q: %w", text, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Place{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return Place{}, fmt.Errorf("no geocode results for %q", text)
	}
	f := decoded.Features[0]
	if len(f.Geometry.Coordinates) != 2 {
		return Place{}, fmt.Errorf("invalid coordinate format for %q", text)
	}

	return Place{
		Label:   f.Properties.Label,
		Country: f.Properties.Country,
		Coordinates: types.Coordinates{
			Lon: f.Geometry.Coordinates[0],
			Lat: f.Geometry.Coordinates[1],
		},
	}, nil
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

// Route returns the road distance between two points for a routing profile
// such as "driving-car".
func (c *Client) Route(ctx context.Context, from, to types.Coordinates, profile string) (Route, error) {
	ctx, span := otel.Tracer("RoutingClient").Start(ctx, "Route", trace.WithAttributes(
		attribute.String("route.profile", profile),
	))
	defer span.End()

	if c.apiKey == "" {
		return Route{}, ErrDisabled
	}
	if profile == "" {
		profile = "driving-car"
	}

	key := fmt.Sprintf("route:%s:%.4f,%.4f:%.4f,%.4f", profile, from.Lat, from.Lon, to.Lat, to.Lon)
	route, err := cache.GetOrSet(ctx, c.cache, key, routeTTL, func(ctx context.Context) (Route, error) {
		return c.route(ctx, from, to, profile)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "route failed")
		return Route{}, err
	}
	span.SetAttributes(attribute.Float64("route.distance_km", route.DistanceKm))
	return route, nil
}

func (c *Client) route(ctx context.Context, from, to types.Coordinates, profile string) (Route, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, profile)
	body, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{{from.Lon, from.Lat}, {to.Lon, to.Lat}},
	})
	if err != nil {
		return Route{}, fmt.Errorf("encode directions request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	})
	if err != nil {
		return Route{}, fmt.Errorf("directions: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Route{}, fmt.Errorf("read directions response: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return Route{}, fmt.Errorf("decode directions response: %w", err)
	}
	if len(fc.Features) == 0 {
		return Route{}, fmt.Errorf("no route between points")
	}
	return routeFromFeature(fc.Features[0]), nil
}

// routeFromFeature reads the ORS summary, falling back to the geometry
// length when the summary is absent.
func routeFromFeature(f *geojson.Feature) Route {
	var r Route
	if summary, ok := f.Properties["summary"].(map[string]any); ok {
		if d, ok := summary["distance"].(float64); ok {
			r.DistanceKm = d / 1000
		}
		if d, ok := summary["duration"].(float64); ok {
			r.DurationHrs = d / 3600
		}
	}
	if r.DistanceKm == 0 {
		if ls, ok := f.Geometry.(orb.LineString); ok {
			r.DistanceKm = orbgeo.Length(ls) / 1000
		}
	}
	return r
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries network errors, 429 and 5xx responses with exponential
// backoff.
func (c *Client) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	backoff := 200 * time.Millisecond
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
				http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}
		if !retry || attempt == c.maxRetries {
			return nil, lastErr
		}

		c.logger.DebugContext(ctx, "Retrying routing request",
			slog.Int("attempt", attempt), slog.Any("error", err))

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}
