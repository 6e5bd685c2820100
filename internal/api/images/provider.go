package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const userAgent = "Mozilla/5.0 (compatible; RoutePlanner/1.0)"

// Candidate is one image returned by a provider.
type Candidate struct {
	URL    string  `json:"url"`
	Title  string  `json:"title"`
	Author string  `json:"author,omitempty"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// Provider searches one image source. Candidates come back best first.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// ProviderConfig is the per-provider section of the images config.
type ProviderConfig struct {
	Enabled    bool
	Priority   int
	Timeout    time.Duration
	BaseURL    string
	MaxResults int
}

// httpSource is the transport shared by the public-endpoint providers.
type httpSource struct {
	client     *http.Client
	baseURL    string
	maxResults int
}

func newHTTPSource(cfg ProviderConfig, defaultBaseURL string) httpSource {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	return httpSource{
		client:     &http.Client{},
		baseURL:    base,
		maxResults: maxResults,
	}
}

func (s httpSource) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
