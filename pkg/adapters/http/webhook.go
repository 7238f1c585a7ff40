package http

import (
	"context"
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/logging"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/adapters/telegram"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

// SecretHeader carries the secret token configured with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// maxBody bounds a single webhook payload.
const maxBody = 1 << 20

// Webhook implements ports.Source for updates pushed by Telegram.
// Its ServeHTTP accepts updates and NextEvent hands them to the runner.
type Webhook struct {
	queue  chan *domain.Update
	secret string
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// WebhookOption configures the Webhook.
type WebhookOption func(*Webhook)

// WithSecret rejects requests whose secret header differs from token.
func WithSecret(token string) WebhookOption {
	return func(w *Webhook) {
		w.secret = token
	}
}

// WithQueueSize sets how many accepted updates may wait for dispatch.
// Beyond it the webhook answers 503 so Telegram retries later.
func WithQueueSize(n int) WebhookOption {
	return func(w *Webhook) {
		if n > 0 {
			w.queue = make(chan *domain.Update, n)
		}
	}
}

// WithLogger configures a logger for the Webhook.
func WithLogger(logger *slog.Logger) WebhookOption {
	return func(w *Webhook) {
		w.logger = logger
	}
}

// NewWebhook creates a webhook source.
func NewWebhook(opts ...WebhookOption) *Webhook {
	w := &Webhook{
		queue:  make(chan *domain.Update, 256),
		logger: logging.NewNop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ServeHTTP handles one update POSTed by Telegram.
func (wh *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if wh.secret != "" {
		got := r.Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(wh.secret)) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}
	u, err := telegram.DecodeUpdate(body)
	if err != nil {
		http.Error(w, "invalid update", http.StatusBadRequest)
		wh.logger.Warn("Webhook: invalid update", "err", err)
		return
	}

	wh.mu.RLock()
	defer wh.mu.RUnlock()
	if wh.closed {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	select {
	case wh.queue <- u:
		w.WriteHeader(http.StatusOK)
	default:
		wh.logger.Warn("Webhook: queue full, asking for redelivery", "update_id", u.ID)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}
}

// NextEvent implements ports.Source.
func (wh *Webhook) NextEvent(ctx context.Context) (*domain.Update, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case u := <-wh.queue:
		return u, nil
	case <-wh.done:
		// Drain what was accepted before closing.
		select {
		case u := <-wh.queue:
			return u, nil
		default:
			return nil, domain.ErrTransportClosed
		}
	}
}

// Close stops accepting updates. Queued updates are still delivered.
func (wh *Webhook) Close() error {
	wh.mu.Lock()
	defer wh.mu.Unlock()
	if !wh.closed {
		wh.closed = true
		close(wh.done)
	}
	return nil
}
