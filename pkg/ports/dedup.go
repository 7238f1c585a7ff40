package ports

import "context"

// Deduplicator remembers processed update ids.
type Deduplicator interface {
	// Seen marks updateID as processed and reports whether it already was.
	Seen(ctx context.Context, updateID int64) (bool, error)
}
