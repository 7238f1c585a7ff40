package memory

import (
	"context"
	"sync"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

// Transport implements ports.Transport over a channel.
// Updates are fed with Push and delivered messages are recorded for Sent.
// Safe for concurrent use.
type Transport struct {
	updates  chan *domain.Update
	identity domain.BotIdentity

	mu      sync.Mutex
	sent    []domain.Message
	closed  bool
	notify  chan struct{}
	sendErr func(domain.Message) error
}

// TransportOption configures the Transport.
type TransportOption func(*Transport)

// WithIdentity sets the bot account reported by Identity.
func WithIdentity(id domain.BotIdentity) TransportOption {
	return func(t *Transport) {
		t.identity = id
	}
}

// WithBuffer sets the capacity of the inbound queue.
func WithBuffer(n int) TransportOption {
	return func(t *Transport) {
		t.updates = make(chan *domain.Update, n)
	}
}

// WithSendError makes Send fail for messages fn rejects.
func WithSendError(fn func(domain.Message) error) TransportOption {
	return func(t *Transport) {
		t.sendErr = fn
	}
}

// NewTransport creates an open in-memory transport.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{
		updates:  make(chan *domain.Update, 64),
		identity: domain.BotIdentity{ID: 1, Username: "memory_bot"},
		notify:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Push enqueues updates. It blocks while the queue is full.
// Pushing after Close panics.
func (t *Transport) Push(updates ...*domain.Update) {
	for _, u := range updates {
		t.updates <- u
	}
}

// Close ends the stream: NextEvent returns domain.ErrTransportClosed once the
// queue is drained.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.updates)
	}
}

// NextEvent implements ports.Source.
func (t *Transport) NextEvent(ctx context.Context) (*domain.Update, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case u, ok := <-t.updates:
		if !ok {
			return nil, domain.ErrTransportClosed
		}
		return u, nil
	}
}

// Send implements ports.Sink.
func (t *Transport) Send(_ context.Context, msg domain.Message) error {
	if t.sendErr != nil {
		if err := t.sendErr(msg); err != nil {
			return err
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg)
	close(t.notify)
	t.notify = make(chan struct{})
	return nil
}

// Identity implements ports.Transport.
func (t *Transport) Identity(context.Context) (domain.BotIdentity, error) {
	return t.identity, nil
}

// Sent returns a copy of every delivered message, in delivery order.
func (t *Transport) Sent() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Message, len(t.sent))
	copy(out, t.sent)
	return out
}

// WaitSent blocks until at least n messages were delivered or ctx is done.
func (t *Transport) WaitSent(ctx context.Context, n int) ([]domain.Message, error) {
	for {
		t.mu.Lock()
		if len(t.sent) >= n {
			out := make([]domain.Message, len(t.sent))
			copy(out, t.sent)
			t.mu.Unlock()
			return out, nil
		}
		notify := t.notify
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return t.Sent(), ctx.Err()
		case <-notify:
		}
	}
}
