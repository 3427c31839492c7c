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

package enrich

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/core"
	"github.com/poiesic/bookdigest/retry"
	"github.com/poiesic/bookdigest/websearch"
)

// Result is the enrichment attached to one record.
type Result struct {
	Keywords   []string
	WebResults []core.WebResult
}

// Empty returns a Result with no keywords and no web results.
func Empty() Result {
	return Result{Keywords: []string{}, WebResults: []core.WebResult{}}
}

// Stage runs keyword extraction and web lookups.
type Stage struct {
	completer ai.Completer
	searcher  websearch.Searcher
	config    *Config
	logger    *slog.Logger
}

// NewStage creates an enrichment stage.
// config: nil uses DefaultConfig(). logger: nil uses slog.Default().
func NewStage(completer ai.Completer, searcher websearch.Searcher, config *Config, logger *slog.Logger) *Stage {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "enrich")
	config.Retry.Logger = logger
	return &Stage{
		completer: completer,
		searcher:  searcher,
		config:    config,
		logger:    logger,
	}
}

// ExtractKeywords asks the Completion Service for search keywords.
// An empty body yields no keywords without calling the service.
func (s *Stage) ExtractKeywords(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}

	req := ai.CompletionRequest{
		Model:     s.config.Model,
		System:    keywordSystemPrompt,
		Prompt:    buildKeywordPrompt(ai.Prefix(text, s.config.TextPrefix), s.config.MaxKeywords),
		MaxTokens: s.config.KeywordMaxTokens,
	}
	out, err := retry.DoValue(ctx, s.config.Retry, func(ctx context.Context) (*ai.Completion, error) {
		return s.completer.Complete(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return ParseKeywords(out.Text, s.config.MaxKeywords), nil
}

// Search runs the keyword query and, when it returns fewer than MinResults,
// appends a site-restricted query built from the first FallbackKeywords
// keywords. The combined list is capped at MaxResults. A failed fallback
// query keeps the primary results.
func (s *Stage) Search(ctx context.Context, keywords []string) ([]core.WebResult, error) {
	if len(keywords) == 0 {
		return []core.WebResult{}, nil
	}

	results, err := s.search(ctx, websearch.Query{
		Text:       strings.Join(keywords, " "),
		MaxResults: s.config.MaxResults,
		Region:     s.config.Region,
	})
	if err != nil {
		return nil, err
	}

	if len(results) < s.config.MinResults && s.config.FallbackSite != "" {
		n := min(s.config.FallbackKeywords, len(keywords))
		extra, err := s.search(ctx, websearch.Query{
			Text:       websearch.SiteQuery(strings.Join(keywords[:n], " "), s.config.FallbackSite),
			MaxResults: s.config.FallbackResults,
			Region:     s.config.Region,
		})
		if err != nil {
			s.logger.Warn("fallback search failed", "keywords", keywords[:n], "err", err)
		} else {
			results = append(results, extra...)
		}
	}

	if len(results) > s.config.MaxResults {
		results = results[:s.config.MaxResults]
	}
	return results, nil
}

func (s *Stage) search(ctx context.Context, q websearch.Query) ([]core.WebResult, error) {
	results, err := retry.DoValue(ctx, s.config.Retry, func(ctx context.Context) ([]core.WebResult, error) {
		return s.searcher.Search(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []core.WebResult{}
	}
	return results, nil
}

// EnrichRecord extracts keywords for one record and searches with them.
// No recoverable keywords is not a failure: the Result is simply empty.
func (s *Stage) EnrichRecord(ctx context.Context, record core.Record) (Result, error) {
	keywords, err := s.ExtractKeywords(ctx, record.Text)
	if err != nil {
		return Empty(), err
	}
	if len(keywords) == 0 {
		s.logger.Debug("no keywords extracted", "id", record.ID)
		return Empty(), nil
	}

	results, err := s.Search(ctx, keywords)
	if err != nil {
		return Empty(), err
	}

	s.logger.Debug("enriched record", "id", record.ID, "keywords", keywords, "results", len(results))
	return Result{Keywords: keywords, WebResults: results}, nil
}

// EnrichAll enriches every record sequentially and returns results keyed by
// identifier. Every input record has an entry. Per-record failures are logged
// and produce an empty Result. If ctx is cancelled the remaining records get
// empty Results.
func (s *Stage) EnrichAll(ctx context.Context, records []core.Record) map[string]Result {
	results := make(map[string]Result, len(records))
	total := len(records)

	for i, record := range records {
		if ctx.Err() != nil {
			results[record.ID] = Empty()
			continue
		}

		res, err := s.EnrichRecord(ctx, record)
		if err != nil {
			s.logger.Warn("enrichment failed", "id", record.ID, "err", err)
			res = Empty()
		}
		results[record.ID] = res

		if s.config.OnProgress != nil {
			s.config.OnProgress(i+1, total)
		}

		if i < total-1 {
			if err := wait(ctx, s.config.Interval); err != nil {
				s.logger.Warn("enrichment interrupted", "done", i+1, "total", total, "err", err)
			}
		}
	}

	s.logger.Info("enrichment finished", "records", total)
	return results
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
