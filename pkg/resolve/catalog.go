package resolve

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

var (
	updateType = reflect.TypeFor[*domain.Update]()
	clientType = reflect.TypeFor[domain.Client]()
)

// isLeaf reports whether t is supplied by the engine itself.
func isLeaf(t reflect.Type) bool {
	return t == updateType || t == clientType
}

type providerKind int

const (
	kindCommand providerKind = iota
	kindValidator
)

func (k providerKind) String() string {
	if k == kindValidator {
		return "validator"
	}
	return "command"
}

// provider is one row of the construction table.
type provider struct {
	kind    providerKind
	out     reflect.Type
	in      []reflect.Type
	variant domain.Variant
	// build receives the resolved inputs in declaration order.
	// A false result means the value is absent for this update.
	build func(args []any) (any, bool)
}

func (p *provider) name() string {
	return p.out.String()
}

// Entry describes a registered command.
type Entry struct {
	Type    reflect.Type
	Name    string
	Variant domain.Variant
}

// Catalog is the registration table of commands and validators.
// Registration happens at startup; Seal freezes the table, after which it
// is safe for concurrent use without further locking.
type Catalog struct {
	mu        sync.RWMutex
	providers []*provider // registration order
	byType    map[reflect.Type]*provider
	disabled  map[reflect.Type]error
	sealed    bool
	sealErr   error
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byType:   make(map[reflect.Type]*provider),
		disabled: make(map[reflect.Type]error),
	}
}

func (c *Catalog) register(p *provider) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return fmt.Errorf("register %s: %w", p.name(), ErrSealed)
	}
	if isLeaf(p.out) {
		return fmt.Errorf("register %s: %w", p.name(), ErrReservedType)
	}
	if p.kind == kindCommand && p.out.Kind() == reflect.Interface {
		return fmt.Errorf("register %s: %w", p.name(), ErrAbstractCommand)
	}
	if existing, ok := c.byType[p.out]; ok {
		if p.kind == kindValidator && existing.kind == kindValidator {
			return fmt.Errorf("register %s: %w", p.name(), ErrDuplicateValidator)
		}
		return fmt.Errorf("register %s %s: %w (as %s)", p.kind, p.name(), ErrDuplicateCommand, existing.kind)
	}

	c.byType[p.out] = p
	c.providers = append(c.providers, p)
	return nil
}

// Seal freezes the catalog and checks the requirement graph of every provider.
// Providers whose graph references an unregistered type or loops back on itself
// are disabled; the returned error joins one *StructuralError per disabled
// provider. Healthy providers stay usable whatever the result.
// Seal is idempotent.
func (c *Catalog) Seal() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return c.sealErr
	}
	c.sealed = true

	var errs []error
	for _, p := range c.providers {
		if _, err := c.topoSort(p.out); err != nil {
			c.disabled[p.out] = err
			errs = append(errs, err)
		}
	}
	c.sealErr = errors.Join(errs...)
	return c.sealErr
}

// ensureSealed seals on first read. Once sealed is observed true under the
// lock, the maps are never written again and may be read without locking.
func (c *Catalog) ensureSealed() {
	c.mu.RLock()
	sealed := c.sealed
	c.mu.RUnlock()
	if !sealed {
		_ = c.Seal()
	}
}

// lookup returns the provider for t, or nil when t is unknown or disabled.
func (c *Catalog) lookup(t reflect.Type) *provider {
	if _, broken := c.disabled[t]; broken {
		return nil
	}
	return c.byType[t]
}

// Commands returns the enabled commands in registration order.
func (c *Catalog) Commands() []Entry {
	c.ensureSealed()
	out := make([]Entry, 0, len(c.providers))
	for _, p := range c.providers {
		if p.kind != kindCommand {
			continue
		}
		if _, broken := c.disabled[p.out]; broken {
			continue
		}
		out = append(out, Entry{Type: p.out, Name: p.name(), Variant: p.variant})
	}
	return out
}

// Disabled returns the structural error recorded for t, if any.
func (c *Catalog) Disabled(t reflect.Type) error {
	c.ensureSealed()
	return c.disabled[t]
}

// topoSort orders the requirement graph of root so that every provider comes
// after the providers it needs; root is last. Shared dependencies appear once.
// Callers must hold c.mu or have observed the catalog sealed.
func (c *Catalog) topoSort(root reflect.Type) ([]*provider, error) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[reflect.Type]int)
	var order []*provider
	var path []reflect.Type

	fail := func(err error, trail []reflect.Type) error {
		names := make([]string, len(trail))
		for i, t := range trail {
			names[i] = t.String()
		}
		return &StructuralError{Provider: root.String(), Path: names, Err: err}
	}

	var visit func(t reflect.Type) error
	visit = func(t reflect.Type) error {
		if isLeaf(t) {
			return nil
		}
		switch state[t] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, seen := range path {
				if seen == t {
					start = i
					break
				}
			}
			loop := append(append([]reflect.Type{}, path[start:]...), t)
			return fail(ErrCycle, loop)
		}

		path = append(path, t)
		p, ok := c.byType[t]
		if !ok {
			return fail(ErrNoProvider, path)
		}

		state[t] = visiting
		for _, in := range p.in {
			if err := visit(in); err != nil {
				return err
			}
		}
		state[t] = visited
		path = path[:len(path)-1]
		order = append(order, p)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}
