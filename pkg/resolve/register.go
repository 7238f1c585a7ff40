package resolve

import (
	"errors"
	"reflect"

	"github.com/AskoldMakaruk/TelegramBotCore/pkg/domain"
)

// Command0 registers a command without inputs.
func Command0[C domain.Command](c *Catalog, variant domain.Variant, ctor func() C) error {
	return c.register(&provider{
		kind:    kindCommand,
		out:     reflect.TypeFor[C](),
		variant: variant,
		build: func([]any) (any, bool) {
			return ctor(), true
		},
	})
}

// Command1 registers a command built from one resolved input.
func Command1[C domain.Command, A any](c *Catalog, variant domain.Variant, ctor func(A) C) error {
	return c.register(&provider{
		kind:    kindCommand,
		out:     reflect.TypeFor[C](),
		in:      []reflect.Type{reflect.TypeFor[A]()},
		variant: variant,
		build: func(args []any) (any, bool) {
			a, _ := args[0].(A)
			return ctor(a), true
		},
	})
}

// Command2 registers a command built from two resolved inputs.
func Command2[C domain.Command, A, B any](c *Catalog, variant domain.Variant, ctor func(A, B) C) error {
	return c.register(&provider{
		kind:    kindCommand,
		out:     reflect.TypeFor[C](),
		in:      []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()},
		variant: variant,
		build: func(args []any) (any, bool) {
			a, _ := args[0].(A)
			b, _ := args[1].(B)
			return ctor(a, b), true
		},
	})
}

// Command3 registers a command built from three resolved inputs.
func Command3[C domain.Command, A, B, D any](c *Catalog, variant domain.Variant, ctor func(A, B, D) C) error {
	return c.register(&provider{
		kind:    kindCommand,
		out:     reflect.TypeFor[C](),
		in:      []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[D]()},
		variant: variant,
		build: func(args []any) (any, bool) {
			a, _ := args[0].(A)
			b, _ := args[1].(B)
			d, _ := args[2].(D)
			return ctor(a, b, d), true
		},
	})
}

// Validator1 registers the only validator producing T.
// fn must be pure: it inspects its input and either approves it, returning
// the narrowed value and true, or rejects it by returning false.
func Validator1[T, A any](c *Catalog, fn func(A) (T, bool)) error {
	return c.register(&provider{
		kind: kindValidator,
		out:  reflect.TypeFor[T](),
		in:   []reflect.Type{reflect.TypeFor[A]()},
		build: func(args []any) (any, bool) {
			a, _ := args[0].(A)
			v, ok := fn(a)
			return v, ok
		},
	})
}

// Validator2 registers the only validator producing T from two inputs.
func Validator2[T, A, B any](c *Catalog, fn func(A, B) (T, bool)) error {
	return c.register(&provider{
		kind: kindValidator,
		out:  reflect.TypeFor[T](),
		in:   []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()},
		build: func(args []any) (any, bool) {
			a, _ := args[0].(A)
			b, _ := args[1].(B)
			v, ok := fn(a, b)
			return v, ok
		},
	})
}

// MustRegister panics if any registration failed.
func MustRegister(errs ...error) {
	if err := errors.Join(errs...); err != nil {
		panic(err)
	}
}

// TypeOf returns the catalog key of T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
