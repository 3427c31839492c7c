package mock

import (
	"context"
	"sync"

	"github.com/poiesic/bookdigest/notify"
)

// MockNotifier records every message it is asked to send.
// It is safe for concurrent use.
type MockNotifier struct {
	// SendFunc allows custom behavior for Send.
	// If nil, Send records the message and succeeds.
	SendFunc func(ctx context.Context, msg notify.Message) error

	mu       sync.Mutex
	messages []notify.Message
}

// NewMockNotifier creates a mock notifier with default behavior.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// WithSendFunc sets a custom Send function.
func (m *MockNotifier) WithSendFunc(fn func(ctx context.Context, msg notify.Message) error) *MockNotifier {
	m.SendFunc = fn
	return m
}

// Send records msg and delegates to SendFunc.
func (m *MockNotifier) Send(ctx context.Context, msg notify.Message) error {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	fn := m.SendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, msg)
	}
	return nil
}

// Messages returns a copy of every message received, in call order.
func (m *MockNotifier) Messages() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// CallCount returns the number of times Send was called.
func (m *MockNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Reset clears recorded messages and custom functions.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.SendFunc = nil
}

var _ notify.Notifier = (*MockNotifier)(nil)
