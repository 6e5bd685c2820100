package images

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

type flickrFeed struct {
	Items []struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		Media  struct {
			M string `json:"m"`
		} `json:"media"`
	} `json:"items"`
}

// FlickrProvider reads the public photo feed, which is ordered by recency
// and carries no score.
type FlickrProvider struct {
	src    httpSource
	logger *slog.Logger
}

func NewFlickrProvider(cfg ProviderConfig, logger *slog.Logger) *FlickrProvider {
	return &FlickrProvider{src: newHTTPSource(cfg, "https://www.flickr.com"), logger: logger}
}

func (p *FlickrProvider) Name() string { return "flickr" }

// flickrAuthor turns "nobody@flickr.com (\"name\")" into name.
func flickrAuthor(s string) string {
	open := strings.Index(s, "(")
	end := strings.LastIndex(s, ")")
	if open == -1 || end <= open {
		return s
	}
	return strings.Trim(s[open+1:end], `"`)
}

func (p *FlickrProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("tags", strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(query, ",", " "))), ","))
	params.Set("tagmode", "all")
	params.Set("format", "json")
	params.Set("nojsoncallback", "1")

	var feed flickrFeed
	if err := p.src.getJSON(ctx, "/services/feeds/photos_public.gne", params, &feed); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, item := range feed.Items {
		if len(out) >= p.src.maxResults {
			break
		}
		if item.Media.M == "" {
			continue
		}
		out = append(out, Candidate{
			URL:    strings.Replace(item.Media.M, "_m.jpg", "_b.jpg", 1),
			Title:  item.Title,
			Author: flickrAuthor(item.Author),
			Source: p.Name(),
		})
	}
	return out, nil
}
