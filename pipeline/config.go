package pipeline

import (
	"fmt"

	"github.com/poiesic/bookdigest/digest"
	"github.com/poiesic/bookdigest/enrich"
	"github.com/poiesic/bookdigest/summarize"
	"github.com/poiesic/bookdigest/watermark"
)

// DefaultMaxItems is the number of new records processed per run.
const DefaultMaxItems = 30

// Config holds configuration for a Pipeline.
type Config struct {
	// BookmarksFile is the export to digest.
	BookmarksFile string

	// WatermarkFile is the processed-id cache.
	WatermarkFile string

	// Ceiling bounds the processed-id cache.
	Ceiling int

	// MaxItems caps the new records handled in one run. Records past the cap
	// stay unprocessed for a later run.
	MaxItems int

	// Models are recorded on the digest.
	Models []string

	Enrich    *enrich.Config
	Summarize *summarize.Config
	Render    *digest.RenderConfig
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BookmarksFile: "bookmarks.json",
		WatermarkFile: "processed_ids.json",
		Ceiling:       watermark.DefaultCeiling,
		MaxItems:      DefaultMaxItems,
		Enrich:        enrich.DefaultConfig(),
		Summarize:     summarize.DefaultConfig(),
		Render:        digest.DefaultRenderConfig(),
	}
}

// Normalize fills unset sections with their defaults.
func (c *Config) Normalize() {
	if c.Enrich == nil {
		c.Enrich = enrich.DefaultConfig()
	}
	if c.Summarize == nil {
		c.Summarize = summarize.DefaultConfig()
	}
	if c.Render == nil {
		c.Render = digest.DefaultRenderConfig()
	}
	if c.Ceiling <= 0 {
		c.Ceiling = watermark.DefaultCeiling
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BookmarksFile == "" {
		return fmt.Errorf("%w: bookmarks file is required", ErrInvalidConfig)
	}
	if c.WatermarkFile == "" {
		return fmt.Errorf("%w: watermark file is required", ErrInvalidConfig)
	}
	if c.MaxItems <= 0 {
		return fmt.Errorf("%w: max items must be > 0, got %d", ErrInvalidConfig, c.MaxItems)
	}
	return nil
}
