package botcore

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/logging"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/dispatch"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/ports"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/runner"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/session"
)

// Bot is the high-level entry point of the library.
// It wires a catalog of commands to a transport and runs the dispatch loop.
type Bot struct {
	dispatcher *dispatch.Dispatcher
	runner     *runner.Runner
	source     ports.Source
	sink       ports.Sink
	identity   *liveClient
	logger     *slog.Logger
}

type settings struct {
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	dedup       ports.Deduplicator
	interpreted bool
	workers     int
	idle        time.Duration
	sweepEvery  time.Duration
	gauge       func(int)
}

// Option defines a functional option for configuring the Bot.
type Option func(*settings)

// WithLogger sets the structured logger used by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithLocker serializes conversations across replicas through locker.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *settings) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

// WithDeduplicator drops updates the platform delivered more than once.
func WithDeduplicator(dedup ports.Deduplicator) Option {
	return func(s *settings) {
		s.dedup = dedup
	}
}

// WithInterpretedResolution disables the compiled resolver cache.
func WithInterpretedResolution() Option {
	return func(s *settings) {
		s.interpreted = true
	}
}

// WithWorkers bounds the number of turns processed at once.
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.workers = n
	}
}

// WithIdleTimeout evicts conversations untouched for d, checked every interval.
func WithIdleTimeout(d, interval time.Duration) Option {
	return func(s *settings) {
		s.idle = d
		s.sweepEvery = interval
	}
}

// WithConversationGauge receives the live conversation count after each sweep.
func WithConversationGauge(set func(int)) Option {
	return func(s *settings) {
		s.gauge = set
	}
}

// liveClient is the Client handed to commands. Its identity is filled in
// once the transport reports it.
type liveClient struct {
	id atomic.Pointer[domain.BotIdentity]
}

func (c *liveClient) Identity() domain.BotIdentity {
	if id := c.id.Load(); id != nil {
		return *id
	}
	return domain.BotIdentity{}
}

// New creates a Bot dispatching updates from source to the commands of
// catalog and sending replies to sink.
// Commands with a broken requirement graph are logged and left out; New only
// fails when no command at all is usable.
func New(catalog *resolve.Catalog, source ports.Source, sink ports.Sink, opts ...Option) (*Bot, error) {
	s := &settings{
		idle:       runner.DefaultIdleTimeout,
		sweepEvery: runner.DefaultSweepInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	sessionOpts := []session.Option{session.WithLogger(s.logger)}
	if s.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(s.locker))
		if s.lockTTL > 0 {
			sessionOpts = append(sessionOpts, session.WithLockTTL(s.lockTTL))
		}
	}

	client := &liveClient{}
	dispatchOpts := []dispatch.Option{
		dispatch.WithLogger(s.logger),
		dispatch.WithHooks(s.hooks),
		dispatch.WithClient(client),
		dispatch.WithSessions(session.NewManager(sessionOpts...)),
	}
	if s.dedup != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithDeduplicator(s.dedup))
	}
	if s.interpreted {
		dispatchOpts = append(dispatchOpts, dispatch.WithInterpretedResolution())
	}

	d := dispatch.New(catalog, dispatchOpts...)
	if len(catalog.Commands()) == 0 {
		return nil, errors.New("botcore: no usable commands registered")
	}

	b := &Bot{
		dispatcher: d,
		source:     source,
		sink:       sink,
		identity:   client,
		logger:     s.logger,
	}
	b.runner = runner.New(d, source, sink,
		runner.WithLogger(s.logger),
		runner.WithHooks(s.hooks),
		runner.WithWorkers(s.workers),
		runner.WithIdleTimeout(s.idle),
		runner.WithSweepInterval(s.sweepEvery),
		runner.WithConversationGauge(s.gauge),
	)
	return b, nil
}

// Identify asks the transport which account it is connected as and makes the
// answer available to commands through domain.Client. Sources that are not
// full transports are left anonymous.
func (b *Bot) Identify(ctx context.Context) (domain.BotIdentity, error) {
	t, ok := b.source.(ports.Transport)
	if !ok {
		if t, ok = b.sink.(ports.Transport); !ok {
			return domain.BotIdentity{}, nil
		}
	}
	id, err := t.Identity(ctx)
	if err != nil {
		return domain.BotIdentity{}, err
	}
	b.identity.id.Store(&id)
	return id, nil
}

// Run identifies the bot, unless Identify already did, and processes updates until ctx is done or the
// source is closed.
func (b *Bot) Run(ctx context.Context) error {
	id := b.identity.Identity()
	if b.identity.id.Load() == nil {
		var err error
		if id, err = b.Identify(ctx); err != nil {
			return err
		}
	}
	if id.Username != "" {
		b.logger.Info("Started bot @" + id.Username)
	}
	return b.runner.Run(ctx)
}

// Dispatch processes one update synchronously without sending anything.
// It suits webhook handlers that answer inline and tests.
func (b *Bot) Dispatch(ctx context.Context, u *domain.Update) (*dispatch.Turn, error) {
	return b.dispatcher.Dispatch(ctx, u)
}

// Dispatcher returns the underlying dispatcher.
func (b *Bot) Dispatcher() *dispatch.Dispatcher {
	return b.dispatcher
}

// Sweep evicts idle conversations now and returns how many remain.
func (b *Bot) Sweep() int {
	return b.runner.Sweep()
}
