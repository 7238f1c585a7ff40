package session

import (
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

// entry is one pending continuation.
type entry struct {
	cmd   domain.Command
	group int // entries registered by the same response share a group
	done  bool
}

// finished reports whether the entry may be pruned. A Completer whose Done
// panics is treated as finished.
func (e *entry) finished() (done bool) {
	if e.done {
		return true
	}
	c, ok := e.cmd.(domain.Completer)
	if !ok {
		return false
	}
	defer func() {
		if recover() != nil {
			e.done = true
			done = true
		}
	}()
	return c.Done()
}

// Conversation is the state kept for one conversation key.
// It must only be used inside Manager.WithConversation.
type Conversation struct {
	key       int64
	pending   []*entry
	nextGroup int
	noStatic  bool
	turns     int
	lastSeen  time.Time
}

func newConversation(key int64) *Conversation {
	return &Conversation{key: key}
}

// Key returns the conversation key.
func (c *Conversation) Key() int64 {
	return c.key
}

// Handler is a pending continuation as seen by one update.
type Handler struct {
	Command domain.Command
	entry   *entry
}

// Handlers returns the pending continuations in registration order.
func (c *Conversation) Handlers() []Handler {
	out := make([]Handler, 0, len(c.pending))
	for _, e := range c.pending {
		if !e.finished() {
			out = append(out, Handler{Command: e.cmd, entry: e})
		}
	}
	return out
}

// Len returns the number of live pending continuations.
func (c *Conversation) Len() int {
	n := 0
	for _, e := range c.pending {
		if !e.finished() {
			n++
		}
	}
	return n
}

// Fresh reports whether no turn has completed in this conversation yet.
func (c *Conversation) Fresh() bool {
	return c.turns == 0
}

// StaticAllowed reports whether static commands may consume the next update.
func (c *Conversation) StaticAllowed() bool {
	return !c.noStatic
}

// Turns returns the number of completed turns.
func (c *Conversation) Turns() int {
	return c.turns
}

// LastSeen returns when the conversation was last accessed.
func (c *Conversation) LastSeen() time.Time {
	return c.lastSeen
}

// Consume records that h executed successfully. Its candidate siblings are
// superseded. h itself is done unless its command implements
// domain.Completer, in which case it stays until Done.
func (c *Conversation) Consume(h Handler) {
	if h.entry == nil {
		return
	}
	for _, e := range c.pending {
		if e.group == h.entry.group && e != h.entry {
			e.done = true
		}
	}
	if _, ok := h.Command.(domain.Completer); !ok {
		h.entry.done = true
	}
}

// Apply absorbs the next step of a successful turn.
func (c *Conversation) Apply(resp *domain.Response) {
	c.turns++
	c.noStatic = !resp.StaticAllowed()

	next := resp.Next()
	if resp.ReplacesPending() {
		for _, e := range c.pending {
			e.done = true
		}
	}
	if next.Kind == domain.NextNone {
		return
	}

	c.nextGroup++
	for _, cmd := range next.Commands {
		c.pending = append(c.pending, &entry{cmd: cmd, group: c.nextGroup})
	}
}

// Skip records that the update was dropped. A WithoutStatic restriction only
// ever covers a single update.
func (c *Conversation) Skip() {
	c.noStatic = false
}

// prune removes finished entries.
func (c *Conversation) prune() {
	live := c.pending[:0]
	for _, e := range c.pending {
		if !e.finished() {
			live = append(live, e)
		}
	}
	clear(c.pending[len(live):])
	c.pending = live
}
