package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/logging"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/ports"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/resolve"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/session"
	"github.com/google/uuid"
)

// Turn is the record of one dispatched update.
type Turn struct {
	ID     string
	Update *domain.Update
	// Conversation is the conversation key; HasKey is false for keyless updates.
	Conversation int64
	HasKey       bool
	Command      string
	Outcome      domain.Outcome
	Response     *domain.Response
	Duration     time.Duration
	Pending      int
}

// Messages returns the output messages of the executed command, if any.
func (t *Turn) Messages() []domain.Message {
	if t == nil {
		return nil
	}
	return t.Response.Messages()
}

// Dispatcher routes updates to commands.
// It is safe for concurrent use; updates of one conversation are serialized.
type Dispatcher struct {
	catalog     *resolve.Catalog
	builder     resolve.Builder
	sessions    *session.Manager
	client      domain.Client
	dedup       ports.Deduplicator
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	interpreted bool
	now         func() time.Time
	newID       func() string
}

// New creates a Dispatcher over catalog, sealing it if needed.
// Commands with a broken requirement graph are logged and left out; the
// healthy ones keep working.
func New(catalog *resolve.Catalog, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		catalog: catalog,
		client:  domain.StaticClient{},
		logger:  logging.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sessions == nil {
		d.sessions = session.NewManager(session.WithLogger(d.logger))
	}

	if err := catalog.Seal(); err != nil {
		for _, e := range unjoin(err) {
			d.logger.Error("Command disabled", "err", e)
		}
	}

	if d.interpreted {
		d.builder = resolve.NewResolver(catalog, resolve.WithLogger(d.logger))
	} else {
		c := resolve.NewCompiler(catalog, resolve.WithLogger(d.logger))
		if err := c.Warm(); err != nil {
			d.logger.Error("Failed to compile commands", "err", err)
		}
		d.builder = c
	}
	return d
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// Catalog returns the command catalog.
func (d *Dispatcher) Catalog() *resolve.Catalog {
	return d.catalog
}

// Sessions returns the conversation registry.
func (d *Dispatcher) Sessions() *session.Manager {
	return d.sessions
}

// Dispatch handles one update. It returns the turn record, and a *TurnError
// when the selected command failed. An update no command wanted is not an error,
// and neither is a nil update.
func (d *Dispatcher) Dispatch(ctx context.Context, u *domain.Update) (*Turn, error) {
	turn := &Turn{
		ID:      d.newID(),
		Update:  u,
		Outcome: domain.OutcomeDropped,
	}
	if u == nil {
		d.fire(ctx, d.hooks.OnTurn, turn, nil)
		return turn, nil
	}
	turn.Conversation, turn.HasKey = u.ConversationKey()

	ctx = domain.WithTurnID(ctx, turn.ID)
	ctx = domain.WithUpdate(ctx, u)
	ctx = domain.WithClient(ctx, d.client)

	logger := d.logger.With("turn_id", turn.ID)
	if turn.HasKey {
		logger = logger.With("conversation", turn.Conversation)
	}
	logger.Debug("Dispatching update", "update", u.String())

	var err error
	switch {
	case d.duplicate(ctx, logger, u):
		turn.Outcome = domain.OutcomeDuplicate
	case !turn.HasKey:
		err = d.runStatic(ctx, turn)
	default:
		err = d.sessions.WithConversation(ctx, turn.Conversation, func(ctx context.Context, conv *session.Conversation) error {
			return d.runConversation(ctx, turn, conv)
		})
	}

	if err != nil {
		turn.Outcome = domain.OutcomeFailed
		logger.Warn("Turn failed", "command", turn.Command, "err", err)
	}
	d.fire(ctx, d.hooks.OnTurn, turn, err)
	return turn, err
}

func (d *Dispatcher) duplicate(ctx context.Context, logger *slog.Logger, u *domain.Update) bool {
	if d.dedup == nil || u.ID == 0 {
		return false
	}
	seen, err := d.dedup.Seen(ctx, u.ID)
	if err != nil {
		// Fail open.
		logger.Warn("Deduplication unavailable", "update_id", u.ID, "err", err)
		return false
	}
	return seen
}

// runConversation is the critical section of a keyed update.
func (d *Dispatcher) runConversation(ctx context.Context, turn *Turn, conv *session.Conversation) error {
	for _, h := range conv.Handlers() {
		accepts := func(u *domain.Update) bool { return domain.Accepts(h.Command, u) }
		if !d.suitable(turn, h.Command, accepts) {
			continue
		}
		resp, err := d.execute(ctx, turn, h.Command, domain.OutcomeContinuation)
		if err != nil {
			return err
		}
		conv.Consume(h)
		conv.Apply(resp)
		turn.Pending = conv.Len()
		return nil
	}

	if !conv.StaticAllowed() {
		conv.Skip()
		turn.Pending = conv.Len()
		return nil
	}

	cmd := d.selectStatic(turn, conv.Fresh())
	if cmd == nil {
		conv.Skip()
		turn.Pending = conv.Len()
		return nil
	}
	resp, err := d.execute(ctx, turn, cmd, domain.OutcomeStatic)
	if err != nil {
		return err
	}
	conv.Apply(resp)
	turn.Pending = conv.Len()
	return nil
}

// runStatic handles an update without conversation key. Such an update has no
// prior state, so start commands are eligible.
func (d *Dispatcher) runStatic(ctx context.Context, turn *Turn) error {
	cmd := d.selectStatic(turn, true)
	if cmd == nil {
		return nil
	}
	resp, err := d.execute(ctx, turn, cmd, domain.OutcomeStatic)
	if err != nil {
		return err
	}
	if next := resp.Next(); next.Kind != domain.NextNone {
		d.logger.Warn("Next step ignored: update has no conversation",
			"turn_id", turn.ID, "command", turn.Command, "next", next.Kind)
	}
	return nil
}

// selectStatic returns the first suitable static command, or nil.
// Start commands are only eligible for fresh conversations.
func (d *Dispatcher) selectStatic(turn *Turn, fresh bool) domain.Command {
	u := turn.Update
	cands := resolve.Candidates(d.catalog, d.builder, u, d.client, func(e resolve.Entry) bool {
		switch e.Variant {
		case domain.VariantStatic:
			return true
		case domain.VariantStart:
			return fresh
		default:
			return false
		}
	})

	for _, c := range cands {
		if m, ok := c.Command.(domain.FirstMatcher); ok && d.suitable(turn, c.Command, m.SuitableFirst) {
			return c.Command
		}
	}
	for _, c := range cands {
		if m, ok := c.Command.(domain.Matcher); ok {
			if d.suitable(turn, c.Command, m.Suitable) {
				return c.Command
			}
			continue
		}
		_, first := c.Command.(domain.FirstMatcher)
		_, last := c.Command.(domain.LastMatcher)
		if !first && !last {
			return c.Command
		}
	}
	for _, c := range cands {
		if m, ok := c.Command.(domain.LastMatcher); ok && d.suitable(turn, c.Command, m.SuitableLast) {
			return c.Command
		}
	}
	return nil
}

// suitable runs one matcher of cmd. A panicking matcher refuses the update.
func (d *Dispatcher) suitable(turn *Turn, cmd domain.Command, match func(*domain.Update) bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Matcher panicked",
				"turn_id", turn.ID,
				"command", fmt.Sprintf("%T", cmd),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			ok = false
		}
	}()
	return match(turn.Update)
}

func (d *Dispatcher) execute(ctx context.Context, turn *Turn, cmd domain.Command, outcome domain.Outcome) (*domain.Response, error) {
	turn.Command = fmt.Sprintf("%T", cmd)
	turn.Outcome = outcome
	d.fire(ctx, d.hooks.OnSelect, turn, nil)

	start := d.now()
	resp, err := d.safeExecute(ctx, turn, cmd)
	turn.Duration = d.now().Sub(start)
	if err != nil {
		return nil, &TurnError{
			TurnID:       turn.ID,
			Conversation: turn.Conversation,
			Command:      turn.Command,
			Err:          err,
		}
	}
	if resp == nil {
		resp = domain.NewResponse()
	}
	turn.Response = resp
	return resp, nil
}

func (d *Dispatcher) safeExecute(ctx context.Context, turn *Turn, cmd domain.Command) (resp *domain.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Command panicked",
				"turn_id", turn.ID,
				"command", turn.Command,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			resp, err = nil, fmt.Errorf("%w: %v", domain.ErrHandlerPanic, r)
		}
	}()
	resp, err = cmd.Execute(ctx)
	if err != nil && !errors.Is(err, domain.ErrHandlerFailed) {
		err = fmt.Errorf("%w: %w", domain.ErrHandlerFailed, err)
	}
	return resp, err
}

func (d *Dispatcher) fire(ctx context.Context, hook func(context.Context, *domain.TurnEvent), turn *Turn, err error) {
	if hook == nil {
		return
	}
	var updateID int64
	if turn.Update != nil {
		updateID = turn.Update.ID
	}
	hook(ctx, &domain.TurnEvent{
		EventBase: domain.EventBase{
			Timestamp:    d.now(),
			TurnID:       turn.ID,
			UpdateID:     updateID,
			Conversation: turn.Conversation,
		},
		Command:  turn.Command,
		Outcome:  turn.Outcome,
		Duration: turn.Duration,
		Pending:  turn.Pending,
		Err:      err,
	})
}
