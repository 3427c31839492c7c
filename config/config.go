package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/digest"
	"github.com/poiesic/bookdigest/enrich"
	"github.com/poiesic/bookdigest/summarize"
	"github.com/poiesic/bookdigest/watermark"
	"github.com/poiesic/bookdigest/websearch"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "BOOKDIGEST_CONFIG"
	bookmarksFileEnv  = "BOOKMARKS_FILE"
	processedIDsEnv   = "PROCESSED_IDS_FILE"
	slackWebhookEnv   = "SLACK_WEBHOOK_URL"
	llmAPIKeyEnv      = "LLM_API_KEY"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	openAIKeyEnv      = "OPENAI_API_KEY"
	maxItemsEnv       = "MAX_ITEMS"
	skipEnrichEnv     = "SKIP_ENRICH"
	digestDatabaseEnv = "DIGEST_DB"
)

// Config holds every setting the CLI needs to assemble a pipeline.
type Config struct {
	Bookmarks BookmarksConfig `yaml:"bookmarks"`
	Watermark WatermarkConfig `yaml:"watermark"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Slack     SlackConfig     `yaml:"slack"`
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Run       RunConfig       `yaml:"run"`
}

// BookmarksConfig locates the export file.
type BookmarksConfig struct {
	File string `yaml:"file"`
}

// WatermarkConfig locates and bounds the processed-id cache.
type WatermarkConfig struct {
	File    string `yaml:"file"`
	Ceiling int    `yaml:"ceiling"`
}

// ArchiveConfig locates the badger digest archive. An empty path disables it.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// SlackConfig holds the incoming webhook.
type SlackConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// LLMConfig selects the completion provider and models.
type LLMConfig struct {
	Provider     string        `yaml:"provider"`
	Host         string        `yaml:"host"`
	APIKey       string        `yaml:"apiKey"`
	SummaryModel string        `yaml:"summaryModel"`
	NoteModel    string        `yaml:"noteModel"`
	KeywordModel string        `yaml:"keywordModel"`
	Timeout      time.Duration `yaml:"timeout"`
}

// SearchConfig tunes the web search stage.
type SearchConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Region   string        `yaml:"region"`
	Interval time.Duration `yaml:"interval"`
}

// RunConfig holds per-run limits and tiering thresholds.
type RunConfig struct {
	MaxItems      int  `yaml:"maxItems"`
	SkipEnrich    bool `yaml:"skipEnrich"`
	ChunkSize     int  `yaml:"chunkSize"`
	HighLikes     int  `yaml:"highLikes"`
	MinTextLength int  `yaml:"minTextLength"`
}

// Default returns the built-in configuration.
func Default() Config {
	aiDefaults := ai.DefaultConfig()
	classifier := digest.DefaultClassifier()
	return Config{
		Bookmarks: BookmarksConfig{File: "bookmarks.json"},
		Watermark: WatermarkConfig{File: "processed_ids.json", Ceiling: watermark.DefaultCeiling},
		Archive:   ArchiveConfig{Path: "digest.db"},
		LLM: LLMConfig{
			Provider:     aiDefaults.Provider,
			SummaryModel: aiDefaults.SummaryModel,
			NoteModel:    aiDefaults.NoteModel,
			KeywordModel: aiDefaults.KeywordModel,
			Timeout:      aiDefaults.RequestTimeout,
		},
		Search: SearchConfig{
			Region:   websearch.DefaultRegion,
			Interval: enrich.DefaultConfig().Interval,
		},
		Run: RunConfig{
			MaxItems:      30,
			ChunkSize:     summarize.DefaultConfig().ChunkSize,
			HighLikes:     classifier.HighLikes,
			MinTextLength: classifier.MinTextLength,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. An empty path falls back to BOOKDIGEST_CONFIG; when neither is
// set no file is read. logger: nil uses slog.Default().
func Load(path string, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "config")

	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			logger.Warn("cannot read config file, using defaults", "path", path, "err", err)
		} else {
			fileCfg := cfg
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				logger.Warn("cannot parse config file, using defaults", "path", path, "err", err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides(logger)
	return cfg
}

func (c *Config) applyEnvOverrides(logger *slog.Logger) {
	if v := os.Getenv(bookmarksFileEnv); v != "" {
		c.Bookmarks.File = v
	}
	if v := os.Getenv(processedIDsEnv); v != "" {
		c.Watermark.File = v
	}
	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Slack.WebhookURL = v
	}
	if v := os.Getenv(digestDatabaseEnv); v != "" {
		c.Archive.Path = v
	}

	// A generic key wins over the provider-specific one.
	providerKey := anthropicKeyEnv
	if strings.EqualFold(c.LLM.Provider, ai.ProviderOpenAI) {
		providerKey = openAIKeyEnv
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	} else if v := os.Getenv(providerKey); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(maxItemsEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			logger.Warn("ignoring invalid value", "env", maxItemsEnv, "value", v)
		} else {
			c.Run.MaxItems = n
		}
	}
	if v := os.Getenv(skipEnrichEnv); v != "" {
		c.Run.SkipEnrich = v == "1" || strings.EqualFold(v, "true")
	}
}

// Validate reports missing credentials and out-of-range values.
// The webhook is only required when delivering.
func (c Config) Validate(deliver bool) error {
	var errs []error
	if deliver && c.Slack.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("%w (set %s)", ErrMissingWebhook, slackWebhookEnv))
	}
	if err := c.AIConfig().Validate(); err != nil {
		if c.LLM.APIKey == "" && strings.EqualFold(strings.TrimSpace(c.LLM.Provider), ai.ProviderAnthropic) {
			errs = append(errs, fmt.Errorf("%w (set %s or %s)", ErrMissingAPIKey, llmAPIKeyEnv, anthropicKeyEnv))
		} else {
			errs = append(errs, err)
		}
	}
	if c.Run.MaxItems <= 0 {
		errs = append(errs, fmt.Errorf("%w: run.maxItems must be > 0, got %d", ErrInvalidValue, c.Run.MaxItems))
	}
	if c.Run.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: run.chunkSize must be > 0, got %d", ErrInvalidValue, c.Run.ChunkSize))
	}
	if c.Watermark.Ceiling <= 0 {
		errs = append(errs, fmt.Errorf("%w: watermark.ceiling must be > 0, got %d", ErrInvalidValue, c.Watermark.Ceiling))
	}
	return errors.Join(errs...)
}

// AIConfig converts the LLM section to an ai.Config.
func (c Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(c.LLM.Provider),
		ai.WithHost(c.LLM.Host),
		ai.WithAPIKey(c.LLM.APIKey),
		ai.WithSummaryModel(c.LLM.SummaryModel),
		ai.WithNoteModel(c.LLM.NoteModel),
		ai.WithKeywordModel(c.LLM.KeywordModel),
		ai.WithRequestTimeout(c.LLM.Timeout),
	)
}

// EnrichConfig returns enrichment settings with models and search options applied.
func (c Config) EnrichConfig() *enrich.Config {
	cfg := enrich.DefaultConfig()
	cfg.Model = c.LLM.KeywordModel
	if c.Search.Region != "" {
		cfg.Region = c.Search.Region
	}
	if c.Search.Interval >= 0 {
		cfg.Interval = c.Search.Interval
	}
	return cfg
}

// SummarizeConfig returns summarization settings with models applied.
func (c Config) SummarizeConfig() *summarize.Config {
	cfg := summarize.DefaultConfig()
	cfg.Model = c.LLM.SummaryModel
	cfg.NoteModel = c.LLM.NoteModel
	if c.Run.ChunkSize > 0 {
		cfg.ChunkSize = c.Run.ChunkSize
	}
	return cfg
}

// Classifier returns the tiering rule.
func (c Config) Classifier() digest.EngagementClassifier {
	return digest.EngagementClassifier{HighLikes: c.Run.HighLikes, MinTextLength: c.Run.MinTextLength}
}
