package domain

import (
	"context"
	"time"
)

// Outcome classifies how a turn ended.
type Outcome string

const (
	OutcomeContinuation Outcome = "continuation"
	OutcomeStatic       Outcome = "static"
	OutcomeDropped      Outcome = "dropped"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeFailed       Outcome = "failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	TurnID    string    `json:"turn_id"`
	UpdateID  int64     `json:"update_id"`
	// Conversation is zero when the update carries no conversation key.
	Conversation int64 `json:"conversation,omitempty"`
}

// TurnEvent describes the selection and execution of a command.
type TurnEvent struct {
	EventBase
	Command  string        `json:"command,omitempty"`
	Outcome  Outcome       `json:"outcome"`
	Duration time.Duration `json:"duration,omitempty"`
	Pending  int           `json:"pending"`
	Err      error         `json:"-"`
}

// SendEvent describes a message the sink failed to deliver.
type SendEvent struct {
	EventBase
	Kind MessageKind `json:"kind"`
	Err  error       `json:"-"`
}

// LifecycleHooks defines callbacks for dispatch observability.
// Hooks run synchronously on the dispatching goroutine and must not block.
type LifecycleHooks struct {
	// OnSelect fires once a command has been chosen, before it executes.
	OnSelect func(context.Context, *TurnEvent)
	// OnTurn fires when a turn completes, whatever the outcome.
	OnTurn func(context.Context, *TurnEvent)
	// OnSendError fires for every message the sink rejected.
	OnSendError func(context.Context, *SendEvent)
}
