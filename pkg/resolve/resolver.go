package resolve

import (
	"reflect"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

// Builder constructs a command of type t for one update, or reports absence.
type Builder interface {
	Build(t reflect.Type, u *domain.Update, client domain.Client) (domain.Command, bool)
}

// Resolver walks the requirement graph on every call.
type Resolver struct {
	catalog *Catalog
	guard   guard
}

// NewResolver creates a Resolver over a catalog.
func NewResolver(c *Catalog, opts ...Option) *Resolver {
	return &Resolver{catalog: c, guard: newGuard(opts)}
}

// resolved is one memoized outcome of a Resolve call.
type resolved struct {
	v  any
	ok bool
}

// Resolve produces a value of type t for the update.
// The Update and Client are always present. Validator outputs are present when
// the validator's inputs resolve and it approves them. Commands are present when
// every constructor input resolves. Anything else is absent.
// Within one call every type is produced at most once, so a dependency shared
// by several inputs is the same value everywhere.
func (r *Resolver) Resolve(u *domain.Update, client domain.Client, t reflect.Type) (any, bool) {
	r.catalog.ensureSealed()
	return r.resolve(u, client, t, make(map[reflect.Type]resolved))
}

func (r *Resolver) resolve(u *domain.Update, client domain.Client, t reflect.Type, memo map[reflect.Type]resolved) (any, bool) {
	switch t {
	case updateType:
		return u, true
	case clientType:
		return client, true
	}

	if m, ok := memo[t]; ok {
		return m.v, m.ok
	}

	p := r.catalog.lookup(t)
	if p == nil {
		return nil, false
	}

	args := make([]any, len(p.in))
	for i, in := range p.in {
		v, ok := r.resolve(u, client, in, memo)
		if !ok {
			memo[t] = resolved{}
			return nil, false
		}
		args[i] = v
	}
	v, ok := r.guard.build(p, args)
	memo[t] = resolved{v: v, ok: ok}
	return v, ok
}

// Build implements Builder.
func (r *Resolver) Build(t reflect.Type, u *domain.Update, client domain.Client) (domain.Command, bool) {
	v, ok := r.Resolve(u, client, t)
	if !ok {
		return nil, false
	}
	cmd, ok := v.(domain.Command)
	return cmd, ok
}

// Candidate is a command built for a specific update.
type Candidate struct {
	Entry
	Command domain.Command
}

// Candidates builds every enabled command accepted by keep, in registration
// order. Commands whose inputs do not resolve are left out.
func Candidates(c *Catalog, b Builder, u *domain.Update, client domain.Client, keep func(Entry) bool) []Candidate {
	var out []Candidate
	for _, e := range c.Commands() {
		if keep != nil && !keep(e) {
			continue
		}
		if cmd, ok := b.Build(e.Type, u, client); ok {
			out = append(out, Candidate{Entry: e, Command: cmd})
		}
	}
	return out
}
