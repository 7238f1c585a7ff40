package runner

import (
	"log/slog"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

const (
	// DefaultWorkers bounds the number of turns processed at once.
	DefaultWorkers = 16
	// DefaultSweepInterval is how often idle conversations are evicted.
	DefaultSweepInterval = time.Minute
	// DefaultIdleTimeout is how long an untouched conversation is kept.
	DefaultIdleTimeout = 30 * time.Minute
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks configures the hooks fired for failed sends.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithWorkers bounds the number of concurrently processed turns.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithIdleTimeout sets how long a conversation may stay untouched before it
// is evicted. Zero or negative disables eviction.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.idle = d
	}
}

// WithSweepInterval sets how often idle conversations are looked for.
func WithSweepInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.sweepEvery = d
		}
	}
}

// WithConversationGauge receives the number of live conversations after
// every sweep. observability.Metrics.SetConversations fits here.
func WithConversationGauge(set func(n int)) Option {
	return func(r *Runner) {
		r.gauge = set
	}
}
