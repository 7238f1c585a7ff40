package ports

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLockerContract runs a suite of tests to verify that a DistributedLocker
// implementation adheres to the defined interface contract.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405.000000000")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		require.NoError(t, unlock(ctx))

		// The key is free again
		unlock, err = locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Contention blocks until deadline", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()

		_, err = locker.Lock(short, key, 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Distinct keys do not contend", func(t *testing.T) {
		unlockA, err := locker.Lock(ctx, key+"-a", 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlockA(ctx) }()

		short, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		unlockB, err := locker.Lock(short, key+"-b", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, unlockB(ctx))
	})

	t.Run("Waiter acquires after release", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)

		var acquired atomic.Bool
		done := make(chan struct{})
		go func() {
			defer close(done)
			u, err := locker.Lock(ctx, key, 5*time.Second)
			if err == nil {
				acquired.Store(true)
				_ = u(ctx)
			}
		}()

		time.Sleep(50 * time.Millisecond)
		assert.False(t, acquired.Load(), "waiter must not hold the lock yet")
		require.NoError(t, unlock(ctx))

		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatal("waiter never acquired the lock")
		}
		assert.True(t, acquired.Load())
	})
}

// RunDeduplicatorContract runs a suite of tests to verify that a Deduplicator
// implementation adheres to the defined interface contract.
func RunDeduplicatorContract(t *testing.T, dedup Deduplicator) {
	ctx := context.Background()
	base := time.Now().UnixNano()

	t.Run("First sighting", func(t *testing.T) {
		seen, err := dedup.Seen(ctx, base)
		require.NoError(t, err)
		assert.False(t, seen)
	})

	t.Run("Second sighting", func(t *testing.T) {
		seen, err := dedup.Seen(ctx, base)
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("Independent ids", func(t *testing.T) {
		seen, err := dedup.Seen(ctx, base+1)
		require.NoError(t, err)
		assert.False(t, seen)
	})
}
