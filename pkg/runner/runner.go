package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/logging"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/dispatch"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Runner pulls updates from a Source, dispatches them and sends the results.
type Runner struct {
	dispatcher *dispatch.Dispatcher
	source     ports.Source
	sink       ports.Sink

	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	workers    int
	idle       time.Duration
	sweepEvery time.Duration
	gauge      func(int)

	mu     sync.Mutex
	queues map[int64][]queued
}

// queued is an update waiting for its conversation. release ends the hold
// that keeps the conversation from being swept meanwhile.
type queued struct {
	update  *domain.Update
	release func()
}

// New creates a Runner.
func New(d *dispatch.Dispatcher, source ports.Source, sink ports.Sink, opts ...Option) *Runner {
	r := &Runner{
		dispatcher: d,
		source:     source,
		sink:       sink,
		logger:     logging.NewNop(),
		workers:    DefaultWorkers,
		idle:       DefaultIdleTimeout,
		sweepEvery: DefaultSweepInterval,
		queues:     make(map[int64][]queued),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes updates until ctx is done or the source is closed.
// Updates already taken from the source are processed to completion before
// Run returns, even after ctx is cancelled.
// A closed source and a cancelled ctx are clean exits; any other source error
// stops the loop and is returned.
func (r *Runner) Run(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(r.workers)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		r.sweepLoop(sweepCtx)
	}()

	work := context.WithoutCancel(ctx)
	err := r.pull(ctx, work, &g)

	_ = g.Wait()
	stopSweep()
	<-sweepDone
	return err
}

func (r *Runner) pull(ctx, work context.Context, g *errgroup.Group) error {
	for {
		u, err := r.source.NextEvent(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrTransportClosed) || ctx.Err() != nil {
				r.logger.Debug("Runner stopped", "reason", err)
				return nil
			}
			return fmt.Errorf("next event: %w", err)
		}
		if u == nil {
			continue
		}

		key, ok := u.ConversationKey()
		if !ok {
			g.Go(func() error {
				r.process(work, u)
				return nil
			})
			continue
		}
		hold := r.dispatcher.Sessions().Hold(key)
		if r.enqueue(key, queued{update: u, release: hold}) {
			g.Go(func() error {
				r.drain(work, key)
				return nil
			})
		}
	}
}

// enqueue appends u to the conversation queue and reports whether the caller
// must start a drainer for it.
func (r *Runner) enqueue(key int64, item queued) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, active := r.queues[key]
	r.queues[key] = append(q, item)
	return !active
}

// drain processes the queue of one conversation until it is empty.
func (r *Runner) drain(ctx context.Context, key int64) {
	for {
		r.mu.Lock()
		q := r.queues[key]
		if len(q) == 0 {
			delete(r.queues, key)
			r.mu.Unlock()
			return
		}
		item := q[0]
		q[0] = queued{}
		r.queues[key] = q[1:]
		r.mu.Unlock()

		r.process(ctx, item.update)
		item.release()
	}
}

func (r *Runner) process(ctx context.Context, u *domain.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Update processing panicked",
				"update", u.String(),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()
	turn, err := r.dispatcher.Dispatch(ctx, u)
	if err != nil {
		r.logger.Debug("Turn not forwarded", "update", u.String(), "err", err)
		return
	}
	for _, msg := range turn.Messages() {
		if err := r.sink.Send(ctx, msg); err != nil {
			r.logger.Error("Send failed", "turn_id", turn.ID, "kind", msg.MessageKind(), "err", err)
			if r.hooks.OnSendError != nil {
				r.hooks.OnSendError(ctx, &domain.SendEvent{
					EventBase: domain.EventBase{
						Timestamp:    time.Now(),
						TurnID:       turn.ID,
						UpdateID:     u.ID,
						Conversation: turn.Conversation,
					},
					Kind: msg.MessageKind(),
					Err:  err,
				})
			}
		}
	}
}

func (r *Runner) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(r.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep evicts idle conversations and reports the remaining count.
func (r *Runner) Sweep() int {
	sessions := r.dispatcher.Sessions()
	if r.idle > 0 {
		sessions.Sweep(r.idle)
	}
	n := sessions.Len()
	if r.gauge != nil {
		r.gauge(n)
	}
	return n
}
