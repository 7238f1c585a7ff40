package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// DefaultDedupTTL covers the redelivery window of webhook retries.
const DefaultDedupTTL = 24 * time.Hour

// Deduplicator implements ports.Deduplicator with one expiring key per update.
// Replicas sharing the prefix process each update once.
type Deduplicator struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration
}

// DedupOption configures the Deduplicator.
type DedupOption func(*Deduplicator)

// WithDedupTTL sets how long an update id is remembered.
func WithDedupTTL(ttl time.Duration) DedupOption {
	return func(d *Deduplicator) {
		d.ttl = ttl
	}
}

// NewDeduplicator creates a Redis deduplicator. Keys are stored as
// <prefix>update:<id>.
func NewDeduplicator(client backend.UniversalClient, prefix string, opts ...DedupOption) *Deduplicator {
	d := &Deduplicator{
		client: client,
		prefix: prefix,
		ttl:    DefaultDedupTTL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Seen implements ports.Deduplicator.
func (d *Deduplicator) Seen(ctx context.Context, updateID int64) (bool, error) {
	key := d.prefix + "update:" + strconv.FormatInt(updateID, 10)
	fresh, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis error marking update %d: %w", updateID, err)
	}
	return !fresh, nil
}
