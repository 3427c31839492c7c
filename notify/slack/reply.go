package slack

import (
	"context"
	"errors"
	"net/http"

	"github.com/slack-go/slack"
)

// ErrMissingToken is returned by NewReplier when no bot token is configured.
var ErrMissingToken = errors.New("slack bot token is required")

// Replier posts text replies into message threads with a bot token.
type Replier struct {
	client *slack.Client
}

// ReplierOption configures a Replier.
type ReplierOption func(*replierOptions)

type replierOptions struct {
	apiURL     string
	httpClient *http.Client
}

// WithAPIURL overrides the Web API base URL. It must end with a slash.
func WithAPIURL(u string) ReplierOption {
	return func(o *replierOptions) {
		o.apiURL = u
	}
}

// WithReplierHTTPClient sets the HTTP client used for API calls.
func WithReplierHTTPClient(c *http.Client) ReplierOption {
	return func(o *replierOptions) {
		o.httpClient = c
	}
}

// NewReplier creates a Replier for token.
func NewReplier(token string, opts ...ReplierOption) (*Replier, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	o := replierOptions{httpClient: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []slack.Option{slack.OptionHTTPClient(o.httpClient)}
	if o.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(o.apiURL))
	}
	return &Replier{client: slack.New(token, clientOpts...)}, nil
}

// Reply posts text to channel. A non-empty threadTS replies inside that thread.
func (r *Replier) Reply(ctx context.Context, channel, threadTS, text string) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	_, _, err := r.client.PostMessageContext(ctx, channel, opts...)
	return err
}
