package resolve

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

// BuildFunc is a compiled construction routine for one command type.
type BuildFunc func(u *domain.Update, client domain.Client) (domain.Command, bool)

// Compiler caches one BuildFunc per command type.
// Compilation is pure and deterministic, so concurrent first use only costs a
// duplicate compile; the first stored routine wins.
type Compiler struct {
	catalog *Catalog
	guard   guard
	cache   sync.Map // reflect.Type -> BuildFunc
}

// NewCompiler creates a Compiler over a catalog.
func NewCompiler(c *Catalog, opts ...Option) *Compiler {
	return &Compiler{catalog: c, guard: newGuard(opts)}
}

// Compile returns the cached routine for t, compiling it on first use.
func (c *Compiler) Compile(t reflect.Type) (BuildFunc, error) {
	if f, ok := c.cache.Load(t); ok {
		return f.(BuildFunc), nil
	}
	f, err := c.catalog.compile(t, c.guard)
	if err != nil {
		return nil, err
	}
	actual, _ := c.cache.LoadOrStore(t, f)
	return actual.(BuildFunc), nil
}

// Warm compiles every enabled command ahead of the first update.
func (c *Compiler) Warm() error {
	for _, e := range c.catalog.Commands() {
		if _, err := c.Compile(e.Type); err != nil {
			return err
		}
	}
	return nil
}

// Build implements Builder.
func (c *Compiler) Build(t reflect.Type, u *domain.Update, client domain.Client) (domain.Command, bool) {
	f, err := c.Compile(t)
	if err != nil {
		return nil, false
	}
	return f(u, client)
}

type step struct {
	prov *provider
	in   []int
}

const (
	updateSlot = 0
	clientSlot = 1
	firstSlot  = 2
)

// compile turns the sorted requirement graph of t into a straight-line routine.
// Every provider writes its value to its own slot; inputs are read from the
// slots of providers sorted before it, so each type is produced once per call.
func (c *Catalog) compile(t reflect.Type, g guard) (BuildFunc, error) {
	c.ensureSealed()
	if err := c.disabled[t]; err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDisabled, err)
	}
	p, ok := c.byType[t]
	if !ok {
		return nil, &StructuralError{Provider: t.String(), Path: []string{t.String()}, Err: ErrNoProvider}
	}
	if p.kind != kindCommand {
		return nil, fmt.Errorf("compile %s: not a command", t)
	}

	order, err := c.topoSort(t)
	if err != nil {
		return nil, err
	}

	slots := map[reflect.Type]int{
		updateType: updateSlot,
		clientType: clientSlot,
	}
	for i, prov := range order {
		slots[prov.out] = firstSlot + i
	}

	steps := make([]step, len(order))
	for i, prov := range order {
		in := make([]int, len(prov.in))
		for j, dep := range prov.in {
			in[j] = slots[dep]
		}
		steps[i] = step{prov: prov, in: in}
	}
	size := firstSlot + len(steps)

	return func(u *domain.Update, client domain.Client) (domain.Command, bool) {
		vals := make([]any, size)
		vals[updateSlot] = u
		vals[clientSlot] = client
		for i, s := range steps {
			args := make([]any, len(s.in))
			for j, k := range s.in {
				args[j] = vals[k]
			}
			v, ok := g.build(s.prov, args)
			if !ok {
				return nil, false
			}
			vals[firstSlot+i] = v
		}
		cmd, ok := vals[size-1].(domain.Command)
		return cmd, ok
	}, nil
}
