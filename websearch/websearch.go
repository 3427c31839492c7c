package websearch

import (
	"context"
	"strings"

	"github.com/poiesic/bookdigest/core"
)

// DefaultRegion is the locale hint used when a Query leaves Region empty.
const DefaultRegion = "jp-jp"

// Query is one search request.
type Query struct {
	Text       string
	MaxResults int
	Region     string
}

// Searcher runs one web search query.
type Searcher interface {
	// Search runs a query and returns at most MaxResults results in rank order.
	// Zero results is not an error.
	Search(ctx context.Context, q Query) ([]core.WebResult, error)
}

// SiteQuery restricts text to one site using the site: operator.
func SiteQuery(text, site string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "site:" + site
	}
	return text + " site:" + site
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, q Query) ([]core.WebResult, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, q Query) ([]core.WebResult, error) {
	return f(ctx, q)
}
