package news_search

import (
	"context"
	"net/http"
	"time"

	"github.com/xinyuew3S2024/NewsByMood/tools/news_search/serpapi"
)

// Retriever fetches formatted article summaries for a query. The returned text
// is the full downstream contract: formatted article blocks, a diagnostic
// payload when the provider has no results, or inline error text on a non-2xx
// status. The error return covers transport and decode failures only.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

type Provider string

const (
	SerpAPIProvider Provider = "serpapi"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

var ErrUnsupportedProvider = &Error{"unsupported provider"}

type Options struct {
	Endpoint     string
	Region       string
	Language     string
	GoogleDomain string
	Timeout      time.Duration
}

func NewRetriever(provider Provider, apiKey string, opts Options) (Retriever, error) {
	switch provider {
	case SerpAPIProvider:
		return serpapi.Search{
			ApiKey:       apiKey,
			Endpoint:     opts.Endpoint,
			Region:       opts.Region,
			Language:     opts.Language,
			GoogleDomain: opts.GoogleDomain,
			HTTPClient:   &http.Client{Timeout: opts.Timeout},
		}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
