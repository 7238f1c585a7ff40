package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/ports"
)

// ErrLockLost is returned by an UnlockFunc whose lock expired and was taken
// by another holder.
var ErrLockLost = errors.New("lock expired before release")

type hold struct {
	expires  time.Time
	released chan struct{}
}

// Locker implements ports.DistributedLocker within one process.
// It honours the TTL, so it mirrors the Redis locker for tests and
// single-instance deployments.
type Locker struct {
	mu   sync.Mutex
	held map[string]*hold
	now  func() time.Time
}

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{
		held: make(map[string]*hold),
		now:  time.Now,
	}
}

// Lock acquires key, waiting for the current holder to release it or for its
// TTL to run out.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	for {
		l.mu.Lock()
		h, ok := l.held[key]
		if ok && !l.now().Before(h.expires) {
			l.expire(key, h)
			ok = false
		}
		if !ok {
			mine := &hold{expires: l.now().Add(ttl), released: make(chan struct{})}
			l.held[key] = mine
			l.mu.Unlock()
			return func(context.Context) error {
				l.mu.Lock()
				defer l.mu.Unlock()
				if l.held[key] != mine {
					return ErrLockLost
				}
				l.expire(key, mine)
				return nil
			}, nil
		}
		wait, remaining := h.released, h.expires.Sub(l.now())
		l.mu.Unlock()

		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-wait:
		case <-timer.C:
		}
		timer.Stop()
	}
}

// expire frees key. Callers must hold l.mu.
func (l *Locker) expire(key string, h *hold) {
	delete(l.held, key)
	close(h.released)
}
