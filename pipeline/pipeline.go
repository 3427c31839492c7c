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

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/bookmarks"
	"github.com/poiesic/bookdigest/core"
	"github.com/poiesic/bookdigest/digest"
	"github.com/poiesic/bookdigest/enrich"
	"github.com/poiesic/bookdigest/notify"
	"github.com/poiesic/bookdigest/storage"
	"github.com/poiesic/bookdigest/summarize"
	"github.com/poiesic/bookdigest/watermark"
	"github.com/poiesic/bookdigest/websearch"
)

// Pipeline orchestrates one digest run from export file to delivered pages.
type Pipeline struct {
	completer  ai.Completer
	searcher   websearch.Searcher
	notifier   notify.Notifier
	archive    storage.DigestRepository
	classifier digest.Classifier
	loader     *bookmarks.Loader
	cache      *watermark.Cache
	pool       *ants.Pool
	config     *Config
	now        func() time.Time
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithArchive stores every completed digest in repo.
func WithArchive(repo storage.DigestRepository) Option {
	return func(p *Pipeline) error {
		p.archive = repo
		return nil
	}
}

// WithClassifier replaces the tiering rule.
// Default is digest.DefaultClassifier().
func WithClassifier(c digest.Classifier) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.classifier = c
		}
		return nil
	}
}

// WithClock overrides the digest timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// WithProgress prints per-stage progress lines to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w != nil {
			p.progress = &lockedWriter{w: w}
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for the concurrent stages.
// Default is 2, one worker each for enrichment and summarization.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// New creates a pipeline.
// config: nil uses DefaultConfig().
func New(
	completer ai.Completer,
	searcher websearch.Searcher,
	notifier notify.Notifier,
	config *Config,
	opts ...Option,
) (*Pipeline, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if notifier == nil {
		return nil, ErrNotifierRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(2)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		completer:  completer,
		searcher:   searcher,
		notifier:   notifier,
		classifier: digest.DefaultClassifier(),
		pool:       pool,
		config:     config,
		now:        time.Now,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.loader = bookmarks.NewLoader(p.logger)
	p.cache = watermark.New(config.WatermarkFile, config.Ceiling, p.logger)
	p.logger = p.logger.With("component", "pipeline")
	return p, nil
}

// RunOptions selects per-run behaviour.
type RunOptions struct {
	// DryRun writes a console summary instead of delivering the digest.
	DryRun bool

	// NoCache ignores the processed set when filtering.
	NoCache bool

	// SkipEnrich replaces enrichment with empty results.
	SkipEnrich bool

	// NoSave leaves the processed set untouched.
	NoSave bool

	// Output receives the dry-run summary. Nil uses os.Stdout.
	Output io.Writer
}

// Run executes one digest. It returns a nil digest and a nil error when no
// new records exist. A summarization failure or a rejected page aborts the
// run before the processed set is written.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*core.DigestResult, error) {
	start := time.Now()

	records, err := p.loader.Load(p.config.BookmarksFile)
	if err != nil {
		return nil, fmt.Errorf("loading bookmarks: %w", err)
	}

	processed := watermark.Set{}
	if !opts.NoCache {
		processed = p.cache.Load()
	}
	records = p.cache.Filter(records, processed)
	if len(records) == 0 {
		p.logger.Info("no new bookmarks")
		return nil, nil
	}
	if len(records) > p.config.MaxItems {
		p.logger.Info("capping run", "new", len(records), "maxItems", p.config.MaxItems)
		records = records[:p.config.MaxItems]
	}

	sumTracker := p.tracker("summarize", len(records))
	sumCfg := *p.config.Summarize
	sumCfg.OnProgress = sumTracker.Observe
	summarizer := summarize.NewStage(p.completer, &sumCfg, p.logger)

	enrichments, summaries, usage, err := p.process(ctx, records, summarizer, sumTracker, opts.SkipEnrich)
	if err != nil {
		return nil, err
	}

	notes, noteUsage := summarizer.NotesFor(ctx, records, enrichments)
	enriched := digest.Assemble(records, summaries, enrichments, notes, p.classifier)

	result := &core.DigestResult{
		Date:       p.now(),
		Records:    enriched,
		TotalCount: len(enriched),
		Models:     slices.Clone(p.config.Models),
		TokenUsage: usage.Add(noteUsage),
	}
	result.RunID = core.RunIDFromRecords(result.IDs())

	if opts.DryRun {
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if err := digest.ConsoleSummary(out, result, p.config.Render.Title); err != nil {
			return nil, fmt.Errorf("writing console summary: %w", err)
		}
	} else if err := p.deliver(ctx, result); err != nil {
		return nil, err
	}

	if p.archive != nil {
		if err := p.archive.SaveDigest(ctx, result); err != nil {
			p.logger.Warn("failed to archive digest", "runId", result.RunID, "err", err)
		}
	}

	if !opts.NoSave {
		if _, err := p.cache.Save(result.IDs()); err != nil {
			return result, fmt.Errorf("saving processed ids: %w", err)
		}
	}

	p.logger.Info("digest complete",
		"records", result.TotalCount,
		"inputTokens", result.TokenUsage.InputTokens,
		"outputTokens", result.TokenUsage.OutputTokens,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// process runs enrichment and summarization concurrently on the pool and
// waits for both. A summarization failure cancels enrichment.
func (p *Pipeline) process(
	ctx context.Context,
	records []core.Record,
	summarizer *summarize.Stage,
	sumTracker *ProgressTracker,
	skipEnrich bool,
) (map[string]enrich.Result, map[string]summarize.Summary, core.TokenUsage, error) {
	stageCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg          sync.WaitGroup
		enrichments map[string]enrich.Result
		summaries   map[string]summarize.Summary
		usage       core.TokenUsage
		sumErr      error
	)

	if skipEnrich {
		enrichments = make(map[string]enrich.Result, len(records))
		for _, r := range records {
			enrichments[r.ID] = enrich.Empty()
		}
	} else {
		tracker := p.tracker("enrich", len(records))
		cfg := *p.config.Enrich
		cfg.OnProgress = tracker.Observe
		enricher := enrich.NewStage(p.completer, p.searcher, &cfg, p.logger)
		if err := p.submit(&wg, func() {
			tracker.Start()
			enrichments = enricher.EnrichAll(stageCtx, records)
			tracker.Finish()
		}); err != nil {
			return nil, nil, usage, fmt.Errorf("scheduling enrichment: %w", err)
		}
	}

	if err := p.submit(&wg, func() {
		sumTracker.Start()
		summaries, usage, sumErr = summarizer.SummarizeAll(stageCtx, records)
		if sumErr != nil {
			cancel()
		}
		sumTracker.Finish()
	}); err != nil {
		cancel()
		wg.Wait()
		return nil, nil, usage, fmt.Errorf("scheduling summarization: %w", err)
	}

	wg.Wait()
	if sumErr != nil {
		return nil, nil, usage, fmt.Errorf("summarization: %w", sumErr)
	}
	return enrichments, summaries, usage, nil
}

func (p *Pipeline) submit(wg *sync.WaitGroup, task func()) error {
	wg.Add(1)
	err := p.pool.Submit(func() {
		defer wg.Done()
		task()
	})
	if err != nil {
		wg.Done()
	}
	return err
}

// deliver sends every rendered page in order. The first rejection stops
// delivery.
func (p *Pipeline) deliver(ctx context.Context, result *core.DigestResult) error {
	pages := digest.Pages(result, p.config.Render)
	for i, page := range pages {
		if err := p.notifier.Send(ctx, notify.FromPage(page)); err != nil {
			return fmt.Errorf("%w: page %d/%d: %w", ErrDelivery, i+1, len(pages), err)
		}
		p.logger.Debug("page delivered", "page", i+1, "of", len(pages), "blocks", len(page.Blocks))
	}
	p.logger.Info("digest delivered", "pages", len(pages), "records", result.TotalCount)
	return nil
}

// ReportFailure posts a text-only error message. Send failures are logged.
func (p *Pipeline) ReportFailure(ctx context.Context, runErr error) {
	if runErr == nil {
		return
	}
	msg := notify.Message{Text: digest.FailureText(p.config.Render.Title, runErr.Error())}
	if err := p.notifier.Send(ctx, msg); err != nil {
		p.logger.Error("failed to report run failure", "runErr", runErr, "err", err)
	}
}

// Release releases the worker pool.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) tracker(label string, total int) *ProgressTracker {
	return NewProgressTracker(p.progress, label, total, 1)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(b)
}
