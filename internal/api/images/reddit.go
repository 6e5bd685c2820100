package images

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"
)

var photoSubreddits = []string{
	"itookapicture",
	"travelphotography",
	"earthporn",
	"cityporn",
	"villageporn",
	"architectureporn",
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				URL    string  `json:"url"`
				Title  string  `json:"title"`
				Author string  `json:"author"`
				Score  float64 `json:"score"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// RedditProvider searches photography subreddits through the public JSON
// listing. No API key is needed.
type RedditProvider struct {
	src    httpSource
	logger *slog.Logger
}

func NewRedditProvider(cfg ProviderConfig, logger *slog.Logger) *RedditProvider {
	return &RedditProvider{src: newHTTPSource(cfg, "https://www.reddit.com"), logger: logger}
}

func (p *RedditProvider) Name() string { return "reddit" }

func isImageURL(u string) bool {
	lower := strings.ToLower(u)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return strings.Contains(lower, "i.redd.it") || strings.Contains(lower, "i.imgur.com")
}

// Search walks the subreddits in order until it has enough candidates. A
// failing subreddit is skipped.
func (p *RedditProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	var out []Candidate
	var lastErr error

	for _, sub := range photoSubreddits {
		if len(out) >= p.src.maxResults {
			break
		}
		params := url.Values{}
		params.Set("q", query)
		params.Set("restrict_sr", "1")
		params.Set("sort", "top")
		params.Set("limit", "25")

		var listing redditListing
		if err := p.src.getJSON(ctx, "/r/"+sub+"/search.json", params, &listing); err != nil {
			lastErr = err
			p.logger.DebugContext(ctx, "Subreddit search failed",
				slog.String("subreddit", sub), slog.Any("error", err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if !isImageURL(post.URL) {
				continue
			}
			out = append(out, Candidate{
				URL:    post.URL,
				Title:  post.Title,
				Author: post.Author,
				Score:  post.Score,
				Source: p.Name(),
			})
			if len(out) >= p.src.maxResults {
				break
			}
		}
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
