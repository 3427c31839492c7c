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

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/poiesic/bookdigest"
	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/ai/langchain"
	"github.com/poiesic/bookdigest/ask"
	"github.com/poiesic/bookdigest/config"
	"github.com/poiesic/bookdigest/digest"
	"github.com/poiesic/bookdigest/notify"
	"github.com/poiesic/bookdigest/notify/slack"
	"github.com/poiesic/bookdigest/pipeline"
	"github.com/poiesic/bookdigest/watermark"
	"github.com/poiesic/bookdigest/websearch/duckduckgo"
	"github.com/urfave/cli/v2"
)

const slackBotTokenEnv = "SLACK_BOT_TOKEN"

var errNoWebhook = errors.New("no slack webhook configured")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "bookdigest",
		Usage: "Digest saved X bookmarks into a Slack summary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (default $BOOKDIGEST_CONFIG)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Digest new bookmarks and deliver them to Slack",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "bookmarks",
						Aliases: []string{"b"},
						Usage:   "Bookmark export file (JSON or CSV)",
					},
					&cli.StringFlag{
						Name:  "processed-ids",
						Usage: "Processed-id cache file",
					},
					&cli.IntFlag{
						Name:  "max-items",
						Usage: "Maximum number of new bookmarks per run",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the digest instead of sending it",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Ignore already processed ids for this run",
					},
					&cli.BoolFlag{
						Name:  "skip-enrich",
						Usage: "Skip keyword extraction and web search",
					},
					&cli.BoolFlag{
						Name:  "no-save",
						Usage: "Do not update the processed-id cache",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print stage progress to stderr",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about the latest archived digest",
				ArgsUsage: "[question]",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "question",
						Aliases: []string{"q"},
						Usage:   "Question to ask (also accepted as arguments)",
					},
					&cli.StringFlag{
						Name:  "channel",
						Usage: "Post the answer to this Slack channel instead of stdout (needs " + slackBotTokenEnv + ")",
					},
					&cli.StringFlag{
						Name:  "thread",
						Usage: "Thread timestamp to reply in",
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List archived digest runs, newest first",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of runs to list (0 lists all)",
						Value: 10,
					},
				},
			},
			{
				Name:   "watermark",
				Usage:  "Show the processed-id cache",
				Action: watermarkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "processed-ids",
						Usage: "Processed-id cache file",
					},
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) config.Config {
	return config.Load(c.String("config"), slog.Default())
}

func runCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	cfg := loadConfig(c)
	if v := c.String("bookmarks"); v != "" {
		cfg.Bookmarks.File = v
	}
	if v := c.String("processed-ids"); v != "" {
		cfg.Watermark.File = v
	}
	if c.IsSet("max-items") {
		cfg.Run.MaxItems = c.Int("max-items")
	}
	if c.Bool("skip-enrich") {
		cfg.Run.SkipEnrich = true
	}

	dryRun := c.Bool("dry-run")
	if err := cfg.Validate(!dryRun); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	provider, err := langchain.NewProvider(cfg.AIConfig(), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create completion provider: %w", err)
	}
	defer provider.Close()

	notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(slog.Default()),
		pipeline.WithClassifier(cfg.Classifier()),
	}
	if c.Bool("progress") {
		opts = append(opts, pipeline.WithProgress(os.Stderr))
	}
	if cfg.Archive.Path != "" {
		archive, err := openArchive(cfg)
		if err != nil {
			return err
		}
		defer archive.Close()
		opts = append(opts, pipeline.WithArchive(archive.DigestRepository()))
	}

	p, err := pipeline.New(provider.Completer(), newSearcher(cfg), notifier, pipelineConfig(cfg, provider.Models()), opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	result, err := p.Run(ctx, pipeline.RunOptions{
		DryRun:     dryRun,
		NoCache:    c.Bool("no-cache"),
		SkipEnrich: cfg.Run.SkipEnrich,
		NoSave:     c.Bool("no-save"),
		Output:     c.App.Writer,
	})
	if err != nil {
		if !dryRun {
			p.ReportFailure(context.WithoutCancel(ctx), err)
		}
		return err
	}
	if result == nil {
		fmt.Fprintln(c.App.Writer, "No new bookmarks.")
		return nil
	}

	fmt.Fprintf(c.App.Writer, "Digested %d bookmarks (tokens: %d in / %d out)\n",
		result.TotalCount, result.TokenUsage.InputTokens, result.TokenUsage.OutputTokens)
	return nil
}

func pipelineConfig(cfg config.Config, models ai.Models) *pipeline.Config {
	pcfg := pipeline.DefaultConfig()
	pcfg.BookmarksFile = cfg.Bookmarks.File
	pcfg.WatermarkFile = cfg.Watermark.File
	pcfg.Ceiling = cfg.Watermark.Ceiling
	pcfg.MaxItems = cfg.Run.MaxItems
	pcfg.Models = modelList(models)
	pcfg.Enrich = cfg.EnrichConfig()
	pcfg.Summarize = cfg.SummarizeConfig()
	pcfg.Render = digest.DefaultRenderConfig()
	return pcfg
}

// modelList names the summary and note models once each.
func modelList(m ai.Models) []string {
	var out []string
	for _, name := range []string{m.Summary, m.Note} {
		if name == "" || (len(out) > 0 && out[0] == name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func newSearcher(cfg config.Config) *duckduckgo.Client {
	opts := []duckduckgo.Option{duckduckgo.WithLogger(slog.Default())}
	if cfg.Search.Endpoint != "" {
		opts = append(opts, duckduckgo.WithEndpoint(cfg.Search.Endpoint))
	}
	return duckduckgo.New(opts...)
}

// newNotifier returns the Slack webhook, or a notifier that always fails when
// no webhook is configured (dry runs only).
func newNotifier(cfg config.Config) (notify.Notifier, error) {
	if cfg.Slack.WebhookURL == "" {
		return notify.NotifierFunc(func(ctx context.Context, msg notify.Message) error {
			return errNoWebhook
		}), nil
	}
	webhook, err := slack.New(cfg.Slack.WebhookURL, slack.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to create slack notifier: %w", err)
	}
	return webhook, nil
}

func openArchive(cfg config.Config) (*bookdigest.Archive, error) {
	if cfg.Archive.Path == "" {
		return nil, fmt.Errorf("%w: archive.path is empty", config.ErrInvalidValue)
	}
	archive, err := bookdigest.OpenArchive(cfg.Archive.Path, bookdigest.WithArchiveLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open digest archive: %w", err)
	}
	return archive, nil
}

func askCommand(c *cli.Context) error {
	ctx := c.Context

	question := strings.TrimSpace(c.String("question"))
	if question == "" {
		question = strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	}
	if question == "" {
		return ask.ErrEmptyQuestion
	}

	cfg := loadConfig(c)
	aiConfig := cfg.AIConfig()
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	archive, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	provider, err := langchain.NewProvider(aiConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create completion provider: %w", err)
	}
	defer provider.Close()

	asker, err := archive.NewAsker(provider.Completer(), ask.WithModel(aiConfig.NoteModel))
	if err != nil {
		return err
	}

	answer, err := asker.Ask(ctx, question)
	if errors.Is(err, ask.ErrNoDigest) {
		fmt.Fprintln(c.App.Writer, "No digest has been archived yet. Run `bookdigest run` first.")
		return nil
	}
	if err != nil {
		return err
	}

	if channel := c.String("channel"); channel != "" {
		replier, err := slack.NewReplier(os.Getenv(slackBotTokenEnv))
		if err != nil {
			return fmt.Errorf("cannot reply in slack: %w", err)
		}
		return replier.Reply(ctx, channel, c.String("thread"), answer)
	}

	fmt.Fprintln(c.App.Writer, answer)
	return nil
}

func historyCommand(c *cli.Context) error {
	archive, err := openArchive(loadConfig(c))
	if err != nil {
		return err
	}
	defer archive.Close()

	runs, err := archive.DigestRepository().ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.App.Writer, "No archived digests.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(c.App.Writer, "%016x  %s  %d posts\n", uint64(run.RunID), run.Date.Format("2006-01-02 15:04"), run.TotalCount)
	}
	return nil
}

func watermarkCommand(c *cli.Context) error {
	cfg := loadConfig(c)
	path := cfg.Watermark.File
	if v := c.String("processed-ids"); v != "" {
		path = v
	}

	ids := watermark.New(path, cfg.Watermark.Ceiling, slog.Default()).Load().IDs()
	fmt.Fprintf(c.App.Writer, "%s: %d processed ids\n", path, len(ids))
	if len(ids) > 0 {
		fmt.Fprintf(c.App.Writer, "newest: %s\n", ids[0])
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
