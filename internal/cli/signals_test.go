package cli

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalManager_Lifecycle(t *testing.T) {
	sm := NewSignalManager(context.Background(), nil)

	ctx := sm.Context()
	require.NotNil(t, ctx)
	assert.NoError(t, ctx.Err())

	sm.Stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	sm.Stop() // idempotent
}

func TestSignalManager_SecondSignalForces(t *testing.T) {
	forced := make(chan struct{})
	sm := NewSignalManager(context.Background(), func() { close(forced) })
	defer sm.Stop()

	sm.sigs <- os.Interrupt
	select {
	case <-sm.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("first signal did not cancel the context")
	}

	sm.sigs <- syscall.SIGTERM
	select {
	case <-forced:
	case <-time.After(time.Second):
		t.Fatal("second signal did not force")
	}
}
