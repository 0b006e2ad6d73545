package web_search

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/reportgen/tools/web_search/bing"
	"github.com/mohammad-safakhou/reportgen/tools/web_search/brave"
	"github.com/mohammad-safakhou/reportgen/tools/web_search/models"
	"github.com/mohammad-safakhou/reportgen/tools/web_search/serper"
)

// WebSearcher is the web search port. An empty result slice is a valid
// outcome, not an error.
type WebSearcher interface {
	Search(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	BingProvider   Provider = "bing"
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewWebSearcher(provider Provider, apiKey, endpoint string, timeout time.Duration) (WebSearcher, error) {
	switch provider {
	case BingProvider:
		return bing.Search{ApiKey: apiKey, Endpoint: endpoint, Timeout: timeout}, nil
	case SerperProvider:
		return serper.Search{ApiKey: apiKey, Timeout: timeout}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey, Timeout: timeout}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
