package ai

import (
	"context"

	"github.com/poiesic/bookdigest/core"
)

// CompletionRequest is one chat-style call to the Completion Service.
type CompletionRequest struct {
	// Model overrides the provider's default model when non-empty.
	Model string

	// System is an optional system prompt.
	System string

	// Prompt is the user message.
	Prompt string

	// MaxTokens bounds the generated output. Zero leaves it to the provider.
	MaxTokens int

	// JSON asks the provider for JSON output where supported.
	JSON bool
}

// Completion is the generated text with its token accounting.
type Completion struct {
	Text  string
	Model string
	Usage core.TokenUsage
}

// Completer generates text from a prompt.
type Completer interface {
	// Complete runs one completion call.
	// An empty Text with a nil error means the model returned no choices.
	// Transport failures and per-call timeouts are returned as errors.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// Provider owns the completion service for one configured backend.
type Provider interface {
	// Completer returns the completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Models reports the model identifiers the provider was configured with.
	Models() Models

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

// Models names the model used for each call site.
type Models struct {
	Summary string
	Note    string
	Keyword string
}
