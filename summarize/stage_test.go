package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/ai/mock"
	"github.com/poiesic/bookdigest/core"
	"github.com/poiesic/bookdigest/enrich"
	"github.com/poiesic/bookdigest/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Retry = retry.Policy{MaxRetries: 3, BaseDelay: time.Millisecond}
	cfg.NoteRetry = retry.Policy{MaxRetries: 2, BaseDelay: time.Millisecond}
	return cfg
}

func makeRecords(n int) []core.Record {
	records := make([]core.Record, n)
	for i := range records {
		records[i] = core.Record{ID: fmt.Sprint(i + 1), Text: fmt.Sprintf("post %d", i+1), AuthorUsername: "u", AuthorName: "U"}
	}
	return records
}

// echoSummaries answers a chunk prompt with a valid summary for every [ID:..] line.
func echoSummaries(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	var items []string
	for _, line := range strings.Split(req.Prompt, "\n") {
		if id, ok := strings.CutPrefix(line, "[ID:"); ok {
			id = strings.TrimSuffix(id, "]")
			items = append(items, fmt.Sprintf(`{"id": %q, "category": "Learning", "summary": "summary of %s"}`, id, id))
		}
	}
	return &ai.Completion{
		Text:  "[" + strings.Join(items, ",") + "]",
		Usage: core.TokenUsage{InputTokens: 100, OutputTokens: 10},
	}, nil
}

func TestChunk(t *testing.T) {
	records := makeRecords(45)

	chunks := Chunk(records, 20)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 20)
	assert.Len(t, chunks[1], 20)
	assert.Len(t, chunks[2], 5)
	assert.Equal(t, "21", chunks[1][0].ID)

	assert.Len(t, Chunk(records[:20], 20), 1)
	assert.Nil(t, Chunk(nil, 20))
	assert.Nil(t, Chunk(records, 0))
}

func TestStage_SummarizeAll(t *testing.T) {
	completer := mock.NewMockCompleter().WithCompleteFunc(echoSummaries)
	var progress []int
	cfg := testConfig()
	cfg.OnProgress = func(done, total int) { progress = append(progress, done) }
	stage := NewStage(completer, cfg, nil)

	records := makeRecords(45)
	summaries, usage, err := stage.SummarizeAll(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, completer.CallCount(), "one call per chunk")
	assert.Len(t, summaries, 45)
	assert.Equal(t, "summary of 45", summaries["45"].Summary)
	assert.Equal(t, core.CategoryLearning, summaries["1"].Category)
	assert.Equal(t, core.TokenUsage{InputTokens: 300, OutputTokens: 30}, usage)
	assert.Equal(t, []int{20, 40, 45}, progress)

	req := completer.Requests()[0]
	assert.Equal(t, 2048, req.MaxTokens)
	assert.True(t, req.JSON)
	assert.Contains(t, req.Prompt, "[ID:1]\n@u (U)\npost 1")
}

func TestStage_SummarizeChunk_RetriesTransportErrors(t *testing.T) {
	calls := 0
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("overloaded")
		}
		return echoSummaries(ctx, req)
	})
	stage := NewStage(completer, testConfig(), nil)

	summaries, _, err := stage.SummarizeChunk(context.Background(), makeRecords(2))
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, 3, calls)
}

func TestStage_SummarizeChunk_MalformedIsNotRetried(t *testing.T) {
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		return &ai.Completion{Text: "{{{ not json"}, nil
	})
	stage := NewStage(completer, testConfig(), nil)

	summaries, _, err := stage.SummarizeChunk(context.Background(), makeRecords(3))
	require.NoError(t, err)
	assert.Equal(t, 1, completer.CallCount())
	require.Len(t, summaries, 3)
	for _, s := range summaries {
		assert.True(t, s.Fallback)
	}
}

func TestStage_SummarizeAll_FailsAfterRetries(t *testing.T) {
	boom := errors.New("service unavailable")
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		return nil, boom
	})
	stage := NewStage(completer, testConfig(), nil)

	_, _, err := stage.SummarizeAll(context.Background(), makeRecords(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, completer.CallCount(), "initial attempt plus three retries")
}

func TestStage_EnrichmentNote(t *testing.T) {
	record := core.Record{ID: "1", Text: strings.Repeat("t", 400)}

	t.Run("no results skips call", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		stage := NewStage(completer, testConfig(), nil)

		note, _, err := stage.EnrichmentNote(context.Background(), record, nil)
		require.NoError(t, err)
		assert.Empty(t, note)
		assert.Zero(t, completer.CallCount())
	})

	t.Run("blank results skip call", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		stage := NewStage(completer, testConfig(), nil)

		note, _, err := stage.EnrichmentNote(context.Background(), record, []core.WebResult{{URL: "https://x"}})
		require.NoError(t, err)
		assert.Empty(t, note)
		assert.Zero(t, completer.CallCount())
	})

	t.Run("builds prompt and returns note", func(t *testing.T) {
		completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
			return &ai.Completion{Text: "  Background context.  ", Usage: core.TokenUsage{InputTokens: 5, OutputTokens: 2}}, nil
		})
		stage := NewStage(completer, testConfig(), nil)

		results := []core.WebResult{{Title: "Title", Snippet: strings.Repeat("s", 200)}}
		note, usage, err := stage.EnrichmentNote(context.Background(), record, results)
		require.NoError(t, err)
		assert.Equal(t, "Background context.", note)
		assert.Equal(t, core.TokenUsage{InputTokens: 5, OutputTokens: 2}, usage)

		req := completer.Requests()[0]
		assert.Equal(t, 200, req.MaxTokens)
		assert.Contains(t, req.Prompt, "- [Title] "+strings.Repeat("s", 150)+"\n")
		assert.NotContains(t, req.Prompt, strings.Repeat("t", 301))
	})

	t.Run("sentinel maps to empty", func(t *testing.T) {
		for _, sentinel := range []string{NoInfo, "（補足情報なし）"} {
			completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
				return &ai.Completion{Text: sentinel}, nil
			})
			stage := NewStage(completer, testConfig(), nil)
			note, _, err := stage.EnrichmentNote(context.Background(), record, []core.WebResult{{Title: "t"}})
			require.NoError(t, err)
			assert.Empty(t, note, sentinel)
		}
	})
}

func TestStage_NotesFor(t *testing.T) {
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		if strings.Contains(req.Prompt, "broken") {
			return nil, errors.New("down")
		}
		return &ai.Completion{Text: "note", Usage: core.TokenUsage{InputTokens: 1, OutputTokens: 1}}, nil
	})
	stage := NewStage(completer, testConfig(), nil)

	records := []core.Record{{ID: "1", Text: "ok"}, {ID: "2", Text: "no results"}, {ID: "3", Text: "broken"}}
	enrichments := map[string]enrich.Result{
		"1": {WebResults: []core.WebResult{{Title: "a"}}},
		"3": {WebResults: []core.WebResult{{Title: "b"}}},
	}

	notes, usage := stage.NotesFor(context.Background(), records, enrichments)
	assert.Equal(t, map[string]string{"1": "note"}, notes)
	assert.Equal(t, core.TokenUsage{InputTokens: 1, OutputTokens: 1}, usage)
	assert.Equal(t, 1+3, completer.CallCount(), "one call for record 1, three attempts for record 3")
}
