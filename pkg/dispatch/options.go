package dispatch

import (
	"log/slog"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/ports"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/session"
)

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger configures a logger for the Dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithClient sets the transport handle injected into commands.
func WithClient(client domain.Client) Option {
	return func(d *Dispatcher) {
		d.client = client
	}
}

// WithDeduplicator skips updates the deduplicator has already seen.
func WithDeduplicator(dedup ports.Deduplicator) Option {
	return func(d *Dispatcher) {
		d.dedup = dedup
	}
}

// WithSessions uses an existing conversation registry.
func WithSessions(m *session.Manager) Option {
	return func(d *Dispatcher) {
		d.sessions = m
	}
}

// WithInterpretedResolution builds commands by walking the requirement graph
// on every update instead of using compiled routines.
func WithInterpretedResolution() Option {
	return func(d *Dispatcher) {
		d.interpreted = true
	}
}

// WithClock replaces the time source used for turn timing.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// WithTurnIDs replaces the generator of turn correlation ids.
func WithTurnIDs(next func() string) Option {
	return func(d *Dispatcher) {
		d.newID = next
	}
}
