package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalManager turns SIGINT and SIGTERM into a graceful shutdown.
// The first signal cancels Context, letting Run finish the updates it already
// took. A second signal calls the force callback, usually os.Exit.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
	sigs   chan os.Signal
	done   chan struct{}
	once   sync.Once
}

// NewSignalManager creates a manager and immediately starts listening for signals.
func NewSignalManager(parent context.Context, force func()) *SignalManager {
	sm := &SignalManager{
		sigs: make(chan os.Signal, 2),
		done: make(chan struct{}),
	}
	sm.ctx, sm.cancel = context.WithCancel(parent)
	signal.Notify(sm.sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sm.sigs:
			sm.cancel()
		case <-sm.done:
			return
		}
		select {
		case <-sm.sigs:
			if force != nil {
				force()
			}
		case <-sm.done:
		}
	}()
	return sm
}

// Context is cancelled by the first signal or by Stop.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Stop stops listening and cancels Context.
func (sm *SignalManager) Stop() {
	sm.once.Do(func() {
		signal.Stop(sm.sigs)
		close(sm.done)
		sm.cancel()
	})
}
