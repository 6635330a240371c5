package conf

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissing is returned when a node has no value and no default was given.
var ErrMissing = errors.New("missing configuration value")

// ErrMissingCallable is returned when neither a code-supplied callable nor a
// "class" key is available.
var ErrMissingCallable = errors.New("no callable specified")

// ErrMissingParameter is returned when a parameter is left unresolved after
// merging configuration, explicit defaults and declared defaults.
var ErrMissingParameter = errors.New("required parameter missing")

// ErrTypeMismatch is returned when the configuration value has the wrong
// structural shape, e.g. a scalar where a mapping or sequence was expected.
var ErrTypeMismatch = errors.New("configuration shape mismatch")

// ErrUnknownFactory is returned when a "class" key names a factory that is
// not registered.
var ErrUnknownFactory = errors.New("unknown factory")

// ErrDuplicateFactory is returned when a factory name is registered twice.
var ErrDuplicateFactory = errors.New("factory already registered")

// ErrSignature is returned at wrap time when a callable's declared
// parameters conflict with the injection protocol.
var ErrSignature = errors.New("invalid configurable signature")

// ErrUnknownParameter is returned when an explicit default names a parameter
// the callable does not declare and the callable accepts no catch-all.
var ErrUnknownParameter = errors.New("unknown parameter")

// ErrEmptyName is returned when a module name is empty.
var ErrEmptyName = errors.New("module name must not be empty")

// Error records where in the configuration tree an operation failed. Args
// holds the fully merged argument set when the failure came from invoking a
// callable; it is nil for resolution failures.
type Error struct {
	Path string
	Args Args
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Args) == 0 {
		return fmt.Sprintf("configuring %s: %s", displayPath(e.Path), e.Err)
	}

	return fmt.Sprintf("configuring %s with (%s): %s", displayPath(e.Path), formatArgs(e.Args), e.Err)
}

// Unwrap supports errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}

	return path
}

func formatArgs(args Args) string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%v", name, args[name])
	}

	return strings.Join(parts, ", ")
}
