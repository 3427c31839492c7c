// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Completer and ai.Provider
// for use in unit tests. The mocks allow tests to run without external AI
// service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior (echo of the prompt)
//	provider := mock.NewMockProvider()
//	out, err := provider.Completer().Complete(ctx, ai.CompletionRequest{Prompt: "hi"})
//
//	// Custom behavior injection
//	completer := mock.NewMockCompleter().
//	    WithCompleteFunc(func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
//	        return &ai.Completion{Text: `["go", "slog"]`}, nil
//	    })
//
//	// Check call counts and captured requests
//	count := completer.CallCount()
//	last := completer.Requests()[count-1]
package mock
