package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.SummaryModel)
	assert.Equal(t, "claude-haiku-4-5", cfg.NoteModel)
	assert.Equal(t, "claude-haiku-4-5", cfg.KeywordModel)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with custom provider and host", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithHost("http://custom:8080/v1"))

		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "http://custom:8080/v1", cfg.Host)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithSummaryModel("gpt-4o"),
			WithNoteModel("gpt-4o-mini"),
			WithKeywordModel("qwen2.5:3b"),
		)

		assert.Equal(t, Models{Summary: "gpt-4o", Note: "gpt-4o-mini", Keyword: "qwen2.5:3b"}, cfg.Models())
	})

	t.Run("with key and timeout", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("secret"), WithRequestTimeout(5*time.Second))

		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		host     string
		want     string
	}{
		{"openai adds v1", "openai", "http://localhost:11434", "http://localhost:11434/v1"},
		{"openai trailing slash", "openai", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"openai already has v1", "openai", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"openai empty host", "openai", "", ""},
		{"anthropic host untouched", "anthropic", "https://proxy.example.com", "https://proxy.example.com"},
		{"provider is case-insensitive", " OpenAI ", "http://h", "http://h/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: tt.provider, Host: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}

	t.Run("model fallbacks", func(t *testing.T) {
		cfg := &Config{Provider: "openai", SummaryModel: "big"}
		cfg.Normalize()
		assert.Equal(t, "big", cfg.NoteModel)
		assert.Equal(t, "big", cfg.KeywordModel)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{
			name:   "valid anthropic",
			config: NewConfig(WithAPIKey("k")),
		},
		{
			name:   "valid openai without key",
			config: NewConfig(WithProvider("openai"), WithHost("http://localhost:11434")),
		},
		{
			name:    "unknown provider",
			config:  NewConfig(WithProvider("bard"), WithAPIKey("k")),
			wantErr: "Provider",
		},
		{
			name:    "anthropic without key",
			config:  NewConfig(),
			wantErr: "APIKey",
		},
		{
			name:    "missing summary model",
			config:  NewConfig(WithAPIKey("k"), WithSummaryModel("")),
			wantErr: "SummaryModel",
		},
		{
			name:    "negative timeout",
			config:  NewConfig(WithAPIKey("k"), WithRequestTimeout(-time.Second)),
			wantErr: "RequestTimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
