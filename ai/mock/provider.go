// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mock

import "github.com/poiesic/bookdigest/ai"

// MockProvider is a test double for ai.Provider.
type MockProvider struct {
	completer *MockCompleter
	models    ai.Models
}

// NewMockProvider creates a new mock provider with a default mock completer.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockCompleter() to access the concrete type for test assertions.
func NewMockProvider() ai.Provider {
	return NewMockProviderWithCompleter(NewMockCompleter())
}

// NewMockProviderWithCompleter creates a mock provider around a custom completer.
func NewMockProviderWithCompleter(completer *MockCompleter) *MockProvider {
	return &MockProvider{
		completer: completer,
		models:    ai.Models{Summary: "mock-summary", Note: "mock-note", Keyword: "mock-keyword"},
	}
}

// Completer returns the mock completer.
func (p *MockProvider) Completer() ai.Completer {
	return p.completer
}

// Models returns fixed mock model identifiers.
func (p *MockProvider) Models() ai.Models {
	return p.models
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockCompleter returns the underlying mock completer for test assertions.
func (p *MockProvider) GetMockCompleter() *MockCompleter {
	return p.completer
}

var _ ai.Provider = (*MockProvider)(nil)
