package langchain

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/core"
	"github.com/tmc/langchaingo/llms"
)

// Completer implements ai.Completer using any langchaingo llms.Model.
type Completer struct {
	client       llms.Model
	defaultModel string
	jsonMode     bool
	timeout      time.Duration
	logger       *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider and by tests that inject a fake llms.Model.
func newCompleter(client llms.Model, config *ai.Config, logger *slog.Logger) *Completer {
	return &Completer{
		client:       client,
		defaultModel: config.SummaryModel,
		// Anthropic has no JSON response mode; prompts ask for JSON instead.
		jsonMode: config.Provider == ai.ProviderOpenAI,
		timeout:  config.RequestTimeout,
		logger:   logger.With("component", "langchain-completer"),
	}
}

// Complete sends one system+user message pair and returns the first choice.
// Each call runs under its own RequestTimeout deadline.
func (c *Completer) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	content := make([]llms.MessageContent, 0, 2)
	if req.System != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.Prompt)},
	})

	opts := []llms.CallOption{llms.WithModel(model), llms.WithTemperature(0.0)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.JSON && c.jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	response, err := c.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		c.logger.Warn("failed to generate content", "model", model, "err", err)
		return nil, err
	}

	out := &ai.Completion{Model: model}
	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model", "model", model)
		return out, nil
	}

	choice := response.Choices[0]
	out.Text = strings.TrimSpace(choice.Content)
	out.Usage = usageFromInfo(choice.GenerationInfo)

	c.logger.Debug("completion finished",
		"model", model,
		"input_tokens", out.Usage.InputTokens,
		"output_tokens", out.Usage.OutputTokens)
	return out, nil
}

// usageFromInfo reads token counters from a langchaingo GenerationInfo map.
// OpenAI reports PromptTokens/CompletionTokens, Anthropic InputTokens/OutputTokens.
func usageFromInfo(info map[string]any) core.TokenUsage {
	var usage core.TokenUsage
	if info == nil {
		return usage
	}
	usage.InputTokens = firstCount(info, "InputTokens", "PromptTokens")
	usage.OutputTokens = firstCount(info, "OutputTokens", "CompletionTokens")
	return usage
}

func firstCount(info map[string]any, keys ...string) int {
	for _, key := range keys {
		if n, ok := toInt(info[key]); ok {
			return n
		}
	}
	return 0
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	default:
		return 0, false
	}
}

var _ ai.Completer = (*Completer)(nil)
