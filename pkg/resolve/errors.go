package resolve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoProvider is returned when a required type has neither a validator
	// nor a command constructor registered.
	ErrNoProvider = errors.New("no provider registered")

	// ErrCycle is returned when a requirement graph loops back on itself.
	ErrCycle = errors.New("requirement cycle")

	// ErrDuplicateValidator is returned when a second validator targets the same type.
	ErrDuplicateValidator = errors.New("validator already registered for type")

	// ErrDuplicateCommand is returned when a command type is registered twice,
	// or collides with a validator output type.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrReservedType is returned when registering a provider for a built-in input.
	ErrReservedType = errors.New("type is provided by the engine")

	// ErrAbstractCommand is returned when the command type is an interface.
	ErrAbstractCommand = errors.New("command type must be concrete")

	// ErrSealed is returned when registering after the catalog was sealed.
	ErrSealed = errors.New("catalog is sealed")

	// ErrDisabled is returned when compiling a command that failed its structural check.
	ErrDisabled = errors.New("command disabled")
)

// StructuralError describes why a provider's requirement graph is unusable.
type StructuralError struct {
	Provider string
	Path     []string
	Err      error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Provider, e.Err, strings.Join(e.Path, " -> "))
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
