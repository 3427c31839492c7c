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

package ai

import (
	"errors"
	"slices"
	"strings"
	"time"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config selects the completion backend and its models.
type Config struct {
	// Provider selects the backend: "anthropic" or "openai".
	// "openai" also covers OpenAI-compatible local servers.
	Provider string

	// Host is the base URL for the completion API.
	// Empty uses the vendor default. For "openai" the /v1 suffix is added by Normalize.
	// Example: "http://localhost:11434/v1"
	Host string

	// APIKey authenticates against the service.
	// Local OpenAI-compatible servers accept any value.
	APIKey string

	// SummaryModel is used for chunk summarization.
	SummaryModel string

	// NoteModel is used for enrichment notes and digest questions.
	NoteModel string

	// KeywordModel is used for keyword extraction.
	KeywordModel string

	// RequestTimeout bounds each individual call.
	// Default: 60s
	RequestTimeout time.Duration
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithProvider selects the backend by name.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithHost sets the provider base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithSummaryModel sets the model used for chunk summarization.
func WithSummaryModel(model string) ConfigOption {
	return func(c *Config) {
		c.SummaryModel = model
	}
}

// WithNoteModel sets the model used for enrichment notes and digest questions.
func WithNoteModel(model string) ConfigOption {
	return func(c *Config) {
		c.NoteModel = model
	}
}

// WithKeywordModel sets the model used for keyword extraction.
func WithKeywordModel(model string) ConfigOption {
	return func(c *Config) {
		c.KeywordModel = model
	}
}

// WithRequestTimeout bounds each completion call.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderAnthropic,
		SummaryModel:   "claude-sonnet-4-5",
		NoteModel:      "claude-haiku-4-5",
		KeywordModel:   "claude-haiku-4-5",
		RequestTimeout: 60 * time.Second,
	}
}

func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Models returns the configured model identifiers.
func (c *Config) Models() Models {
	return Models{Summary: c.SummaryModel, Note: c.NoteModel, Keyword: c.KeywordModel}
}

func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	// Ensure Host ends with /v1 for OpenAI-compatible APIs
	if c.Provider == ProviderOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
	if c.NoteModel == "" {
		c.NoteModel = c.SummaryModel
	}
	if c.KeywordModel == "" {
		c.KeywordModel = c.NoteModel
	}
}

func (c *Config) Validate() error {
	// Normalize first to ensure values are in correct format
	c.Normalize()

	if !slices.Contains([]string{ProviderOpenAI, ProviderAnthropic}, c.Provider) {
		return errors.New("ai config: Provider must be \"openai\" or \"anthropic\"")
	}
	if c.Provider == ProviderAnthropic && c.APIKey == "" {
		return errors.New("ai config: APIKey is required for anthropic")
	}
	if c.SummaryModel == "" {
		return errors.New("ai config: SummaryModel is required")
	}
	if c.RequestTimeout < 0 {
		return errors.New("ai config: RequestTimeout cannot be negative")
	}
	return nil
}
