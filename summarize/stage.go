package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/core"
	"github.com/poiesic/bookdigest/enrich"
	"github.com/poiesic/bookdigest/retry"
)

// Stage runs chunked summarization and enrichment notes.
type Stage struct {
	completer ai.Completer
	config    *Config
	logger    *slog.Logger
}

// NewStage creates a summarization stage.
// config: nil uses DefaultConfig(). logger: nil uses slog.Default().
func NewStage(completer ai.Completer, config *Config, logger *slog.Logger) *Stage {
	if config == nil {
		config = DefaultConfig()
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultConfig().ChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "summarize")
	config.Retry.Logger = logger
	config.NoteRetry.Logger = logger
	return &Stage{completer: completer, config: config, logger: logger}
}

// Chunk partitions records into consecutive slices of at most size records.
func Chunk(records []core.Record, size int) [][]core.Record {
	if size <= 0 || len(records) == 0 {
		return nil
	}
	chunks := make([][]core.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// SummarizeChunk issues one completion call for chunk and parses the result.
// Transport failures are retried per Config.Retry; the final failure is returned.
func (s *Stage) SummarizeChunk(ctx context.Context, chunk []core.Record) ([]Summary, core.TokenUsage, error) {
	req := ai.CompletionRequest{
		Model:     s.config.Model,
		System:    summarySystemPrompt,
		Prompt:    buildSummaryPrompt(chunk, s.config.TextPrefix),
		MaxTokens: s.config.MaxTokens,
		JSON:      true,
	}
	out, err := retry.DoValue(ctx, s.config.Retry, func(ctx context.Context) (*ai.Completion, error) {
		return s.completer.Complete(ctx, req)
	})
	if err != nil {
		return nil, core.TokenUsage{}, err
	}

	summaries := ParseSummaries(out.Text, chunk, s.config.FallbackSummaryLength)
	fallbacks := 0
	for _, sum := range summaries {
		if sum.Fallback {
			fallbacks++
		}
	}
	if fallbacks > 0 {
		s.logger.Warn("model output incomplete, using default summaries",
			"records", len(chunk),
			"defaults", fallbacks)
	}
	return summaries, out.Usage, nil
}

// SummarizeAll summarizes every record chunk by chunk and returns summaries
// keyed by identifier together with the accumulated token usage.
// Any chunk failure aborts the stage.
func (s *Stage) SummarizeAll(ctx context.Context, records []core.Record) (map[string]Summary, core.TokenUsage, error) {
	var usage core.TokenUsage
	result := make(map[string]Summary, len(records))
	chunks := Chunk(records, s.config.ChunkSize)

	s.logger.Info("summarizing", "records", len(records), "chunks", len(chunks), "chunk_size", s.config.ChunkSize)

	done := 0
	for i, chunk := range chunks {
		s.logger.Debug("summarizing chunk", "chunk", i+1, "of", len(chunks), "records", len(chunk))
		summaries, u, err := s.SummarizeChunk(ctx, chunk)
		if err != nil {
			return nil, usage, fmt.Errorf("summarizing chunk %d/%d: %w", i+1, len(chunks), err)
		}
		usage = usage.Add(u)
		for _, sum := range summaries {
			if _, exists := result[sum.ID]; !exists {
				result[sum.ID] = sum
			}
		}

		done += len(chunk)
		if s.config.OnProgress != nil {
			s.config.OnProgress(done, len(records))
		}
	}

	s.logger.Info("summaries generated",
		"summaries", len(result),
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens)
	return result, usage, nil
}

// EnrichmentNote condenses web results into a one or two sentence note.
// No results, or results with neither title nor snippet, skip the call and
// return "". A "no information" reply also maps to "".
func (s *Stage) EnrichmentNote(ctx context.Context, record core.Record, results []core.WebResult) (string, core.TokenUsage, error) {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		if r.Title == "" && r.Snippet == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", r.Title, ai.Prefix(r.Snippet, s.config.SnippetPrefix)))
	}
	if len(lines) == 0 {
		return "", core.TokenUsage{}, nil
	}

	req := ai.CompletionRequest{
		Model:     s.config.NoteModel,
		Prompt:    buildNotePrompt(ai.Prefix(record.Text, s.config.NoteTextPrefix), strings.Join(lines, "\n")),
		MaxTokens: s.config.NoteMaxTokens,
	}
	out, err := retry.DoValue(ctx, s.config.NoteRetry, func(ctx context.Context) (*ai.Completion, error) {
		return s.completer.Complete(ctx, req)
	})
	if err != nil {
		return "", core.TokenUsage{}, err
	}
	return cleanNote(out.Text), out.Usage, nil
}

func cleanNote(text string) string {
	text = strings.TrimSpace(text)
	for _, sentinel := range noInfoReplies {
		if text == sentinel {
			return ""
		}
	}
	return text
}

// NotesFor generates enrichment notes for every record that has web results.
// Note failures are logged and leave the note empty.
func (s *Stage) NotesFor(ctx context.Context, records []core.Record, enrichments map[string]enrich.Result) (map[string]string, core.TokenUsage) {
	var usage core.TokenUsage
	notes := make(map[string]string, len(records))
	for _, r := range records {
		results := enrichments[r.ID].WebResults
		if len(results) == 0 {
			continue
		}
		note, u, err := s.EnrichmentNote(ctx, r, results)
		if err != nil {
			s.logger.Warn("enrichment note failed", "id", r.ID, "err", err)
			continue
		}
		usage = usage.Add(u)
		if note != "" {
			notes[r.ID] = note
		}
	}
	return notes, usage
}
