package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/logging"
	"github.com/AskoldMakaruk/TelegramBotCore/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed conversation lock may be held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the conversations and serializes access to each of them.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	mu            sync.Mutex // guards locks and conversations
	locks         map[int64]*lockEntry
	conversations map[int64]*Conversation

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock replaces the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates an empty conversation registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:         make(map[int64]*lockEntry),
		conversations: make(map[int64]*Conversation),
		lockTTL:       DefaultLockTTL,
		logger:        logging.NewNop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key int64) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// conversation returns the conversation for key, creating it if absent.
func (m *Manager) conversation(key int64) *Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversations[key]
	if !ok {
		conv = newConversation(key)
		m.conversations[key] = conv
	}
	return conv
}

// WithConversation runs fn with exclusive access to the conversation of key.
// The conversation is created on first use, and continuations that finished
// are pruned before fn sees it.
func (m *Manager) WithConversation(ctx context.Context, key int64, fn func(context.Context, *Conversation) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		id := strconv.FormatInt(key, 10)
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"conversation", key,
					"err", err,
				)
			}
		}()
	}

	conv := m.conversation(key)
	conv.prune()
	defer func() {
		conv.lastSeen = m.now()
	}()

	return fn(ctx, conv)
}

// Hold marks key as busy until the returned release is called, without taking
// its lock. Callers that queue updates ahead of WithConversation use it so
// Sweep does not evict the conversation those updates are waiting for.
// release is idempotent.
func (m *Manager) Hold(key int64) (release func()) {
	m.acquire(key)
	var once sync.Once
	return func() {
		once.Do(func() { m.release(key) })
	}
}

// Len returns the number of known conversations.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conversations)
}

// Pending returns the total number of live pending continuations.
// Conversations currently in use are skipped.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, conv := range m.conversations {
		if _, busy := m.locks[key]; busy {
			continue
		}
		n += conv.Len()
	}
	return n
}

// Sweep forgets conversations idle for longer than idle and returns how many
// were removed. Conversations currently in use are never removed.
func (m *Manager) Sweep(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	removed := 0
	for key, conv := range m.conversations {
		if _, busy := m.locks[key]; busy {
			continue
		}
		if conv.lastSeen.Before(cutoff) {
			delete(m.conversations, key)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("Swept idle conversations", "removed", removed, "remaining", len(m.conversations))
	}
	return removed
}
