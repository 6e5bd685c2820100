package images

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sort"
)

type pinterestImage struct {
	URL string `json:"url"`
}

type pinterestResponse struct {
	ResourceResponse struct {
		Data struct {
			Results []struct {
				Title     string                    `json:"title"`
				GridTitle string                    `json:"grid_title"`
				Images    map[string]pinterestImage `json:"images"`
				Pinner    struct {
					Username string `json:"username"`
				} `json:"pinner"`
				AggregatedPinData struct {
					AggregatedStats struct {
						Saves float64 `json:"saves"`
					} `json:"aggregated_stats"`
				} `json:"aggregated_pin_data"`
			} `json:"results"`
		} `json:"data"`
	} `json:"resource_response"`
}

// PinterestProvider queries the public search resource.
type PinterestProvider struct {
	src    httpSource
	logger *slog.Logger
}

func NewPinterestProvider(cfg ProviderConfig, logger *slog.Logger) *PinterestProvider {
	return &PinterestProvider{src: newHTTPSource(cfg, "https://www.pinterest.com"), logger: logger}
}

func (p *PinterestProvider) Name() string { return "pinterest" }

func (p *PinterestProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	data, err := json.Marshal(map[string]any{
		"options": map[string]string{"query": query, "scope": "pins"},
		"context": map[string]any{},
	})
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("source_url", "/search/pins/?q="+url.QueryEscape(query))
	params.Set("data", string(data))

	var resp pinterestResponse
	if err := p.src.getJSON(ctx, "/resource/BaseSearchResource/get/", params, &resp); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, pin := range resp.ResourceResponse.Data.Results {
		if len(out) >= p.src.maxResults {
			break
		}
		imageURL := ""
		for _, size := range []string{"orig", "736x", "564x"} {
			if img, found := pin.Images[size]; found && img.URL != "" {
				imageURL = img.URL
				break
			}
		}
		if imageURL == "" {
			continue
		}
		title := pin.Title
		if title == "" {
			title = pin.GridTitle
		}
		out = append(out, Candidate{
			URL:    imageURL,
			Title:  title,
			Author: pin.Pinner.Username,
			Score:  pin.AggregatedPinData.AggregatedStats.Saves,
			Source: p.Name(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
