package storage

import (
	"context"
	"time"

	"github.com/poiesic/bookdigest/core"
)

// RunSummary describes one archived run without its records.
type RunSummary struct {
	RunID      core.RunID
	Date       time.Time
	TotalCount int
}

// DigestRepository archives digest results.
// Implementations must be thread-safe and support concurrent access.
type DigestRepository interface {
	// SaveDigest stores digest under its RunID and marks it as the latest.
	// Saving the same RunID again replaces the stored digest.
	SaveDigest(ctx context.Context, digest *core.DigestResult) error

	// LatestDigest returns the most recently saved digest.
	// Returns ErrNotFound if nothing has been saved.
	LatestDigest(ctx context.Context) (*core.DigestResult, error)

	// GetDigest returns the digest stored under id.
	// Returns ErrNotFound if the run does not exist.
	GetDigest(ctx context.Context, id core.RunID) (*core.DigestResult, error)

	// ListRuns returns up to limit runs, newest first. Zero means no limit.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
