package domain

import "context"

type ctxKey int

const (
	updateKey ctxKey = iota
	clientKey
	turnKey
)

// WithUpdate returns a context carrying the update being dispatched.
// Continuations built on an earlier turn read the current update from it.
func WithUpdate(ctx context.Context, u *Update) context.Context {
	return context.WithValue(ctx, updateKey, u)
}

// UpdateFrom returns the update being dispatched, or nil outside a turn.
func UpdateFrom(ctx context.Context) *Update {
	u, _ := ctx.Value(updateKey).(*Update)
	return u
}

// WithClient returns a context carrying the transport handle.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

// ClientFrom returns the transport handle of the current turn, or nil.
func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey).(Client)
	return c
}

// WithTurnID returns a context tagged with a turn correlation id.
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, turnKey, id)
}

// TurnIDFrom returns the turn correlation id, or "".
func TurnIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(turnKey).(string)
	return id
}
