package summarize

import (
	"time"

	"github.com/poiesic/bookdigest/retry"
)

// Config holds configuration for the summarization stage.
type Config struct {
	// Model is used for chunk summarization. Empty uses the provider default.
	Model string

	// NoteModel is used for enrichment notes.
	NoteModel string

	// ChunkSize is the number of records per summarization call.
	ChunkSize int

	// MaxTokens bounds each chunk response.
	MaxTokens int

	// TextPrefix is how many runes of each body go into the chunk prompt.
	TextPrefix int

	// FallbackSummaryLength is the rune budget of a synthesized summary.
	FallbackSummaryLength int

	// NoteMaxTokens bounds each enrichment note response.
	NoteMaxTokens int

	// NoteTextPrefix is how many runes of the body go into the note prompt.
	NoteTextPrefix int

	// SnippetPrefix is how many runes of each web snippet go into the note prompt.
	SnippetPrefix int

	// Retry wraps each chunk call.
	Retry retry.Policy

	// NoteRetry wraps each note call.
	NoteRetry retry.Policy

	// OnProgress is called after each chunk with the number of records done.
	OnProgress func(done, total int)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:             20,
		MaxTokens:             2048,
		TextPrefix:            300,
		FallbackSummaryLength: 80,
		NoteMaxTokens:         200,
		NoteTextPrefix:        300,
		SnippetPrefix:         150,
		Retry: retry.Policy{
			MaxRetries: 3,
			BaseDelay:  5 * time.Second,
			MaxDelay:   60 * time.Second,
			Jitter:     true,
		},
		NoteRetry: retry.Policy{
			MaxRetries: 2,
			BaseDelay:  3 * time.Second,
			MaxDelay:   60 * time.Second,
			Jitter:     true,
		},
	}
}
