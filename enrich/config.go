package enrich

import (
	"time"

	"github.com/poiesic/bookdigest/retry"
	"github.com/poiesic/bookdigest/websearch"
)

// Config holds configuration for the enrichment stage.
type Config struct {
	// Model is the keyword extraction model. Empty uses the provider default.
	Model string

	// MaxKeywords is the number of keywords requested per record.
	MaxKeywords int

	// TextPrefix is how many runes of the body are sent for keyword extraction.
	TextPrefix int

	// KeywordMaxTokens bounds the keyword extraction response.
	KeywordMaxTokens int

	// MaxResults caps the web results kept per record.
	MaxResults int

	// MinResults triggers the site-restricted fallback query when the
	// general query returns fewer results.
	MinResults int

	// FallbackResults is the result count requested by the fallback query.
	FallbackResults int

	// FallbackKeywords is how many keywords the fallback query uses.
	FallbackKeywords int

	// FallbackSite restricts the fallback query, e.g. "x.com".
	FallbackSite string

	// Region is the search locale hint.
	Region string

	// Interval is the pause between records.
	Interval time.Duration

	// Retry applies to keyword extraction and each search call.
	Retry retry.Policy

	// OnProgress is called after each record with the number done so far.
	OnProgress func(done, total int)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxKeywords:      3,
		TextPrefix:       500,
		KeywordMaxTokens: 150,
		MaxResults:       3,
		MinResults:       2,
		FallbackResults:  2,
		FallbackKeywords: 2,
		FallbackSite:     "x.com",
		Region:           websearch.DefaultRegion,
		Interval:         1500 * time.Millisecond,
		Retry: retry.Policy{
			MaxRetries: 2,
			BaseDelay:  time.Second,
			MaxDelay:   10 * time.Second,
			Jitter:     true,
		},
	}
}
