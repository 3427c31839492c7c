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

package langchain

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/bookdigest/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.Provider using a langchaingo chat model.
type Provider struct {
	config    *ai.Config
	completer *Completer
	logger    *slog.Logger
}

// NewProvider creates a new provider for the configured backend.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to keep callers decoupled
// from langchaingo.
func NewProvider(config *ai.Config, logger *slog.Logger) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	model, err := newModel(config)
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", config.Provider, err)
	}

	return &Provider{
		config:    config,
		completer: newCompleter(model, config, logger),
		logger:    logger.With("component", "langchain-provider"),
	}, nil
}

func newModel(config *ai.Config) (llms.Model, error) {
	switch config.Provider {
	case ai.ProviderAnthropic:
		opts := []anthropic.Option{
			anthropic.WithToken(config.APIKey),
			anthropic.WithModel(config.SummaryModel),
		}
		if config.Host != "" {
			opts = append(opts, anthropic.WithBaseURL(config.Host))
		}
		return anthropic.New(opts...)
	default:
		// Use "none" as token for local OpenAI-compatible services that don't require authentication
		token := config.APIKey
		if token == "" {
			token = "none"
		}
		opts := []openai.Option{
			openai.WithToken(token),
			openai.WithModel(config.SummaryModel),
		}
		if config.Host != "" {
			opts = append(opts, openai.WithBaseURL(config.Host))
		}
		return openai.New(opts...)
	}
}

// Completer returns the completion service.
func (p *Provider) Completer() ai.Completer {
	return p.completer
}

// Models reports the configured model identifiers.
func (p *Provider) Models() ai.Models {
	return p.config.Models()
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing provider")
	return nil
}

var _ ai.Provider = (*Provider)(nil)
