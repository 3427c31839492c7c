package ask

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/core"
	"github.com/poiesic/bookdigest/storage"
)

const systemPrompt = `You are an assistant for a digest of saved social media posts.
You are given summaries of the posts the user bookmarked.
Answer concisely and concretely, in the language of the question.
Format the answer as Slack mrkdwn (*bold*, _italic_, • lists).
If the digest does not contain the answer, say that it is not in the digest.`

// DefaultMaxTokens bounds an answer.
const DefaultMaxTokens = 1024

// Asker answers questions about the latest digest.
type Asker struct {
	repository storage.DigestRepository
	completer  ai.Completer
	model      string
	maxTokens  int
	logger     *slog.Logger
}

// Option configures an Asker.
type Option func(*Asker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Asker) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithModel sets the model used for answers. Empty uses the provider default.
func WithModel(model string) Option {
	return func(a *Asker) error {
		a.model = model
		return nil
	}
}

// WithMaxTokens bounds the answer length.
func WithMaxTokens(n int) Option {
	return func(a *Asker) error {
		if n <= 0 {
			return fmt.Errorf("max tokens must be > 0, got %d", n)
		}
		a.maxTokens = n
		return nil
	}
}

// NewAsker creates a new asker.
func NewAsker(repository storage.DigestRepository, completer ai.Completer, opts ...Option) (*Asker, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	a := &Asker{
		repository: repository,
		completer:  completer,
		maxTokens:  DefaultMaxTokens,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "ask")
	return a, nil
}

// Ask answers question using the latest archived digest as context.
// Returns ErrNoDigest when the archive is empty.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	digest, err := a.repository.LatestDigest(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNoDigest
		}
		return "", fmt.Errorf("loading latest digest: %w", err)
	}

	records := RankRecords(digest.Records, question)
	a.logger.Debug("answering question", "run_id", digest.RunID, "records", len(records))

	prompt := fmt.Sprintf("Here is the latest bookmark digest:\n\n%s\n\n---\nQuestion: %s",
		ContextText(digest, records), question)
	out, err := a.completer.Complete(ctx, ai.CompletionRequest{
		Model:     a.model,
		System:    systemPrompt,
		Prompt:    prompt,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("asking completion service: %w", err)
	}

	a.logger.Info("question answered",
		"input_tokens", out.Usage.InputTokens,
		"output_tokens", out.Usage.OutputTokens)
	return strings.TrimSpace(out.Text), nil
}

// RankRecords returns records ordered by how many distinct question words
// they mention, most first. Ties keep digest order, and records mentioning
// none of the words are kept at the end.
func RankRecords(records []core.EnrichedRecord, question string) []core.EnrichedRecord {
	queryWords := tokenizeAndFilter(question)
	scores := make(map[string]int, len(records))
	for _, r := range records {
		document := strings.Join([]string{
			r.Record.Text,
			r.Summary,
			string(r.Category),
			strings.Join(r.Keywords, " "),
			r.EnrichmentNote,
			r.Record.AuthorUsername,
		}, " ")
		scores[r.Record.ID] = countQueryWords(document, queryWords)
	}

	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(x, y core.EnrichedRecord) int {
		return cmp.Compare(scores[y.Record.ID], scores[x.Record.ID])
	})
	return ranked
}

// ContextText renders records of digest as the plain-text context for a question.
func ContextText(digest *core.DigestResult, records []core.EnrichedRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== X Bookmark Digest (%s) ===\n", digest.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "%d bookmarks were processed.\n", digest.TotalCount)

	for _, r := range records {
		b.WriteString("\n")
		fmt.Fprintf(&b, "[%s][%s] @%s (👍%d)\n",
			strings.ToUpper(string(r.Tier)), r.Category, r.Record.AuthorUsername, r.Record.LikeCount)
		fmt.Fprintf(&b, "  Summary: %s\n", r.Summary)
		if len(r.Keywords) > 0 {
			fmt.Fprintf(&b, "  Keywords: %s\n", strings.Join(r.Keywords, ", "))
		}
		if r.EnrichmentNote != "" {
			fmt.Fprintf(&b, "  Note: %s\n", r.EnrichmentNote)
		}
		fmt.Fprintf(&b, "  URL: %s\n", r.Record.URL)
	}
	return b.String()
}
