package domain

import "slices"

// NextKind tags the next step of a Response.
type NextKind int

const (
	// NextNone ends the exchange: nothing new is expected.
	NextNone NextKind = iota
	// NextForced registers exactly one continuation, replacing pending ones.
	NextForced
	// NextCandidates registers several continuations; the first one to
	// accept a future update wins and the rest are superseded.
	NextCandidates
)

func (k NextKind) String() string {
	switch k {
	case NextNone:
		return "none"
	case NextForced:
		return "forced"
	case NextCandidates:
		return "candidates"
	default:
		return "unknown"
	}
}

// Next is the next step carried by a Response.
type Next struct {
	Kind     NextKind
	Commands []Command
}

// Response is what a command returns: messages to forward and the
// continuations the conversation should expect next.
// A Response is immutable; every modifier returns a copy.
type Response struct {
	messages       []Message
	next           Next
	noStatic       bool
	replacePending bool
}

// NewResponse creates a Response that ends the exchange.
func NewResponse(msgs ...Message) *Response {
	return &Response{messages: slices.Clone(msgs)}
}

// Forced creates a Response whose next update must go to cmd.
// A nil cmd yields a Response without next step.
func Forced(cmd Command, msgs ...Message) *Response {
	r := NewResponse(msgs...)
	if cmd == nil {
		return r
	}
	r.next = Next{Kind: NextForced, Commands: []Command{cmd}}
	r.replacePending = true
	return r
}

// Candidates creates a Response offering several continuations for the next
// update, tried in the given order. Nil entries are dropped.
func Candidates(cmds []Command, msgs ...Message) *Response {
	r := NewResponse(msgs...)
	kept := make([]Command, 0, len(cmds))
	for _, c := range cmds {
		if c != nil {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return r
	}
	r.next = Next{Kind: NextCandidates, Commands: kept}
	return r
}

func (r *Response) clone() *Response {
	if r == nil {
		return &Response{}
	}
	c := *r
	c.messages = slices.Clone(r.messages)
	c.next.Commands = slices.Clone(r.next.Commands)
	return &c
}

// With returns a copy with msgs appended.
func (r *Response) With(msgs ...Message) *Response {
	c := r.clone()
	c.messages = append(c.messages, msgs...)
	return c
}

// WithoutStatic returns a copy that keeps static commands away from the
// conversation's next update: only a pending continuation may consume it.
func (r *Response) WithoutStatic() *Response {
	c := r.clone()
	c.noStatic = true
	return c
}

// ReplacePending returns a copy that discards every older pending
// continuation when the next step is registered.
func (r *Response) ReplacePending() *Response {
	c := r.clone()
	c.replacePending = true
	return c
}

// Messages returns the output messages in emission order.
func (r *Response) Messages() []Message {
	if r == nil {
		return nil
	}
	return slices.Clone(r.messages)
}

// Next returns the next step.
func (r *Response) Next() Next {
	if r == nil {
		return Next{}
	}
	return Next{Kind: r.next.Kind, Commands: slices.Clone(r.next.Commands)}
}

// StaticAllowed reports whether static commands may handle the next update.
func (r *Response) StaticAllowed() bool {
	return r == nil || !r.noStatic
}

// ReplacesPending reports whether older continuations are dropped.
func (r *Response) ReplacesPending() bool {
	return r != nil && r.replacePending
}
