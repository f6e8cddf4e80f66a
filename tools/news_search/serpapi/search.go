package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/xinyuew3S2024/NewsByMood/tools/news_search/models"
	"github.com/xinyuew3S2024/NewsByMood/utils"
)

const (
	DefaultEndpoint     = "https://api.scaleserp.com/search"
	DefaultRegion       = "us"
	DefaultLanguage     = "en"
	DefaultGoogleDomain = "google.com"

	maxArticles = 3

	noResultsMarker = "No news results found."
)

type Search struct {
	ApiKey       string
	Endpoint     string
	Region       string
	Language     string
	GoogleDomain string
	HTTPClient   *http.Client
}

// Retrieve issues exactly one request to the SERP API and returns formatted
// article text. A non-2xx status and an empty result set are reported inline
// in the returned text, never as an error; the error return is reserved for
// request, transport and decode failures.
func (s Search) Retrieve(ctx context.Context, query string) (string, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	params := url.Values{}
	params.Set("api_key", s.ApiKey)
	params.Set("q", query)
	params.Set("gl", s.regionOrDefault())
	params.Set("hl", s.languageOrDefault())
	params.Set("google_domain", s.googleDomainOrDefault())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error: Unable to fetch data from SERP API, status code: %d", resp.StatusCode), nil
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if items, ok := raw["news_results"].([]any); ok && len(items) > 0 {
		return formatArticles(extractNews(items)), nil
	}
	if items, ok := raw["top_stories"].([]any); ok && len(items) > 0 {
		return formatArticles(extractTopStories(items)), nil
	}

	pretty, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize response: %w", err)
	}
	return noResultsMarker + " Raw response:\n" + string(pretty), nil
}

func extractNews(items []any) []models.Article {
	var out []models.Article
	for i, it := range items {
		if i >= maxArticles {
			break
		}
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.Article{
			Title:   utils.StrOr(m["title"], models.NoTitle),
			Snippet: utils.StrOr(m["snippet"], models.NoSummary),
			Link:    utils.StrOr(m["link"], models.NoLink),
		})
	}
	return out
}

func extractTopStories(items []any) []models.Article {
	var out []models.Article
	for i, it := range items {
		if i >= maxArticles {
			break
		}
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		snippet := utils.Str(m["snippet"])
		if snippet == "" {
			// top_stories entries usually carry no snippet; synthesize one
			// from the source and date metadata.
			snippet = fmt.Sprintf("Source: %s, Date: %s",
				utils.StrOr(m["source"], "Unknown"),
				utils.StrOr(m["date"], "Unknown"))
		}
		out = append(out, models.Article{
			Title:   utils.StrOr(m["title"], models.NoTitle),
			Snippet: snippet,
			Link:    utils.StrOr(m["link"], models.NoLink),
		})
	}
	return out
}

func formatArticles(articles []models.Article) string {
	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nSummary: %s\nLink: %s", a.Title, a.Snippet, a.Link))
	}
	return strings.Join(blocks, "\n\n")
}

func (s Search) regionOrDefault() string {
	if s.Region == "" {
		return DefaultRegion
	}
	return s.Region
}

func (s Search) languageOrDefault() string {
	if s.Language == "" {
		return DefaultLanguage
	}
	return s.Language
}

func (s Search) googleDomainOrDefault() string {
	if s.GoogleDomain == "" {
		return DefaultGoogleDomain
	}
	return s.GoogleDomain
}
