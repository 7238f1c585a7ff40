package domain

import "context"

// Variant tags how a registered command type takes part in dispatch.
type Variant int

const (
	// VariantStatic commands are evaluated against every update that no
	// pending continuation consumed.
	VariantStatic Variant = iota
	// VariantStart commands are static commands only eligible as conversation
	// entry points, when the conversation has no prior state.
	VariantStart
	// VariantContinuation commands are never evaluated statically. They are
	// registered so other commands can receive them as dependencies and hand
	// them back as the next step.
	VariantContinuation
)

func (v Variant) String() string {
	switch v {
	case VariantStatic:
		return "static"
	case VariantStart:
		return "start"
	case VariantContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// Command is a unit of behavior executed for exactly one update.
// Its inputs are supplied through its constructor by the resolver.
type Command interface {
	Execute(ctx context.Context) (*Response, error)
}

// Matcher narrows which updates a command accepts.
// Static commands without any matcher are suitable whenever they resolve.
// Continuations without a Matcher accept the next update of their conversation.
type Matcher interface {
	Suitable(u *Update) bool
}

// FirstMatcher is checked before every ordinary Matcher of the static set.
type FirstMatcher interface {
	SuitableFirst(u *Update) bool
}

// LastMatcher is checked after every ordinary Matcher of the static set,
// which makes it the place for fallbacks.
type LastMatcher interface {
	SuitableLast(u *Update) bool
}

// Completer lets a continuation stay pending across several updates.
// A continuation without it runs once. One implementing it is kept after
// executing until Done reports true, and is pruned before the next update is
// matched even when its last execution failed.
type Completer interface {
	Done() bool
}

// Accepts reports whether a pending continuation wants the update.
func Accepts(cmd Command, u *Update) bool {
	if m, ok := cmd.(Matcher); ok {
		return m.Suitable(u)
	}
	return true
}
