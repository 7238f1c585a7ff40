package dispatch

import "fmt"

// TurnError reports a command that failed or panicked while handling an update.
// It wraps domain.ErrHandlerFailed or domain.ErrHandlerPanic.
type TurnError struct {
	TurnID       string
	Conversation int64
	Command      string
	Err          error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %s: %s: %v", e.TurnID, e.Command, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}
