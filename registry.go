package conf

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry resolves factory names referenced by the reserved "class" key.
// Resolution is closed: only explicitly registered names resolve, and
// unknown names fail with ErrUnknownFactory.
type Registry struct {
	factories map[string]*Callable
}

// NewRegistry creates an empty factory registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]*Callable),
	}
}

// Register adds a factory under its callable name. Registering the same name
// twice fails with ErrDuplicateFactory.
func (r *Registry) Register(callable *Callable) error {
	if _, exists := r.factories[callable.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFactory, callable.Name())
	}

	slog.Debug("registering factory", "name", callable.Name())
	r.factories[callable.Name()] = callable

	return nil
}

// MustRegister is like Register but panics on error, for package-level
// registration blocks.
func (r *Registry) MustRegister(callable *Callable) {
	err := r.Register(callable)
	if err != nil {
		panic(err)
	}
}

// Resolve returns the factory registered under name.
func (r *Registry) Resolve(name string) (*Callable, error) {
	callable, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, name)
	}

	return callable, nil
}

// Names returns the sorted names of all registered factories.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
