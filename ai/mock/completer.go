package mock

import (
	"context"
	"sync"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/core"
)

// MockCompleter is a test double for ai.Completer.
// It is safe for concurrent use.
type MockCompleter struct {
	// CompleteFunc allows custom behavior for Complete.
	// If nil, echoes the prompt back with a token count of one per call.
	CompleteFunc func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error)

	mu       sync.Mutex
	requests []ai.CompletionRequest
}

// NewMockCompleter creates a mock completer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// WithCompleteFunc sets a custom Complete function.
func (m *MockCompleter) WithCompleteFunc(fn func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error)) *MockCompleter {
	m.CompleteFunc = fn
	return m
}

// Complete records the request and delegates to CompleteFunc.
func (m *MockCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	return &ai.Completion{
		Text:  req.Prompt,
		Model: req.Model,
		Usage: core.TokenUsage{InputTokens: 1, OutputTokens: 1},
	}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received, in call order.
func (m *MockCompleter) Requests() []ai.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ai.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears recorded requests and custom functions.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.CompleteFunc = nil
}

var _ ai.Completer = (*MockCompleter)(nil)
