package notify

import (
	"context"

	"github.com/poiesic/bookdigest/digest"
)

// Message is one notification: blocks plus the fallback text shown by clients
// that cannot render them. A message with no blocks is text-only.
type Message struct {
	Text   string
	Blocks []digest.Block
}

// Notifier delivers messages to a chat channel.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message) error

// Send calls f(ctx, msg).
func (f NotifierFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// FromPage converts a rendered page into a Message.
func FromPage(p digest.Page) Message {
	return Message{Text: p.Text, Blocks: p.Blocks}
}
