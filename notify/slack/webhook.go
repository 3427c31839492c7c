package slack

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/bookdigest/notify"
	"github.com/poiesic/bookdigest/retry"
	"github.com/slack-go/slack"
)

// DefaultTimeout bounds one webhook POST.
const DefaultTimeout = 10 * time.Second

// Webhook posts messages to a Slack incoming webhook.
type Webhook struct {
	url    string
	client *http.Client
	policy retry.Policy
	logger *slog.Logger
}

// Option configures a Webhook.
type Option func(*Webhook)

// WithHTTPClient sets the HTTP client used for posting.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Webhook) {
		w.client = c
	}
}

// WithRetry sets the retry policy. Its ShouldRetry predicate is replaced
// by one that only retries rate limits and 5xx responses.
func WithRetry(p retry.Policy) Option {
	return func(w *Webhook) {
		w.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Webhook) {
		w.logger = l
	}
}

// New creates a Webhook for url.
func New(url string, opts ...Option) (*Webhook, error) {
	if url == "" {
		return nil, ErrMissingURL
	}
	w := &Webhook{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
		policy: retry.Policy{
			MaxRetries: 2,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
			Jitter:     true,
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	w.logger = w.logger.With("component", "slack")
	w.policy.Logger = w.logger
	w.policy.ShouldRetry = shouldRetry
	return w, nil
}

// Send posts msg to the webhook.
func (w *Webhook) Send(ctx context.Context, msg notify.Message) error {
	payload := &slack.WebhookMessage{Text: msg.Text}
	if len(msg.Blocks) > 0 {
		payload.Blocks = &slack.Blocks{BlockSet: ToBlocks(msg.Blocks)}
	}

	err := retry.Do(ctx, w.policy, func(ctx context.Context) error {
		return slack.PostWebhookCustomHTTPContext(ctx, w.url, w.client, payload)
	})
	if err != nil {
		return err
	}
	w.logger.Debug("message delivered", "blocks", len(msg.Blocks))
	return nil
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var rateLimited *slack.RateLimitedError
	if errors.As(err, &rateLimited) {
		return true
	}
	var status slack.StatusCodeError
	if errors.As(err, &status) {
		return status.Code >= http.StatusInternalServerError
	}
	// Transport failures carry no status.
	return true
}

var _ notify.Notifier = (*Webhook)(nil)
