package memory

import (
	"context"
	"sync"
)

// DefaultDedupWindow is the number of update ids a Deduplicator remembers.
const DefaultDedupWindow = 4096

// Deduplicator implements ports.Deduplicator with a bounded FIFO window of
// recently seen update ids.
type Deduplicator struct {
	mu     sync.Mutex
	seen   map[int64]struct{}
	order  []int64
	next   int
	window int
}

// NewDeduplicator creates a Deduplicator remembering the last window ids.
// A non-positive window selects DefaultDedupWindow.
func NewDeduplicator(window int) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduplicator{
		seen:   make(map[int64]struct{}, window),
		order:  make([]int64, 0, window),
		window: window,
	}
}

// Seen implements ports.Deduplicator.
func (d *Deduplicator) Seen(_ context.Context, updateID int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[updateID]; ok {
		return true, nil
	}
	if len(d.order) < d.window {
		d.order = append(d.order, updateID)
	} else {
		delete(d.seen, d.order[d.next])
		d.order[d.next] = updateID
		d.next = (d.next + 1) % d.window
	}
	d.seen[updateID] = struct{}{}
	return false, nil
}
