package conf

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ClassKey is the reserved mapping key whose value names a registered
// factory, overriding the code-supplied callable for that node. It is always
// counted as consumed.
const ClassKey = "class"

// Configure resolves the effective callable for this node, merges its
// arguments and invokes it.
//
// Argument precedence, highest to lowest: the configuration value under the
// parameter's name, the caller's explicit defaults, the parameter's declared
// default. A "class" key in the node's mapping overrides ctor; if neither is
// available the call fails with ErrMissingCallable. Failures raised by the
// callable itself are wrapped with the node's path and the merged argument
// set, with the cause chained.
//
// ctor may be nil when the node is expected to carry a "class" key, or when
// the node holds a plain value to be passed through unchanged.
func (n *Node) Configure(ctor *Callable, defaults Args) (any, error) {
	return n.configure(ctor, defaults, false, false)
}

// MaybeConfigure is like Configure, except an entirely absent node yields
// (nil, nil) without invoking anything.
func (n *Node) MaybeConfigure(ctor *Callable, defaults Args) (any, error) {
	return n.configure(ctor, defaults, true, false)
}

// Bind runs the same merge as Configure but defers the invocation, returning
// a zero-argument Thunk capturing the resolved callable and arguments.
func (n *Node) Bind(ctor *Callable, defaults Args) (Thunk, error) {
	result, err := n.configure(ctor, defaults, false, true)
	if err != nil || result == nil {
		return nil, err
	}

	return result.(Thunk), nil
}

// MaybeBind is like Bind, but an absent node yields (nil, nil).
func (n *Node) MaybeBind(ctor *Callable, defaults Args) (Thunk, error) {
	result, err := n.configure(ctor, defaults, true, true)
	if err != nil || result == nil {
		return nil, err
	}

	return result.(Thunk), nil
}

// ConfigureList configures one object per element of a sequence node and
// returns the results in input order. An absent node yields an empty slice
// and an explicit null yields nil; any other non-sequence value fails with
// ErrTypeMismatch. The defaults apply to every element, and the first
// per-element failure propagates immediately.
func (n *Node) ConfigureList(ctor *Callable, defaults Args) ([]any, error) {
	n.markUsed()

	raw, ok := n.effectiveRaw()
	if !ok {
		return []any{}, nil
	}

	if raw == nil {
		return nil, nil
	}

	seq, ok := raw.([]any)
	if !ok {
		return nil, &Error{
			Path: n.name,
			Err:  fmt.Errorf("%w: sequence expected, got %T", ErrTypeMismatch, raw),
		}
	}

	results := make([]any, 0, len(seq))

	for i := range seq {
		result, err := n.Child(i).Configure(ctor, defaults)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

func (n *Node) configure(ctor *Callable, defaults Args, maybe, bindOnly bool) (any, error) {
	raw, present := n.effectiveRaw()
	n.markUsed()

	if !present {
		if maybe {
			return nil, nil
		}

		// Configuring a missing node behaves like configuring an empty mapping.
		raw = map[string]any{}
	}

	if raw == nil {
		// An explicit null configures to nil without invoking anything.
		return nil, nil
	}

	return n.configureValue(raw, ctor, defaults, bindOnly)
}

func (n *Node) configureValue(raw any, ctor *Callable, defaults Args, bindOnly bool) (any, error) {
	mapping, ok := raw.(map[string]any)
	if !ok {
		// Scalars and sequences pass through untouched when no construction
		// was requested.
		if ctor == nil && len(defaults) == 0 && !bindOnly {
			return raw, nil
		}

		return nil, &Error{
			Path: n.name,
			Err:  fmt.Errorf("%w: mapping expected, got %T", ErrTypeMismatch, raw),
		}
	}

	effective := ctor

	if override, ok := mapping[ClassKey]; ok {
		n.used[ClassKey] = struct{}{}

		resolved, err := n.resolveFactory(override)
		if err != nil {
			return nil, err
		}

		effective = resolved
	} else if effective == nil {
		return nil, &Error{Path: n.name, Err: ErrMissingCallable}
	}

	args, err := n.mergeArgs(effective, mapping, defaults)
	if err != nil {
		return nil, err
	}

	slog.Debug("configuring",
		"path", displayPath(n.name),
		"callable", effective.name,
		"args", argNames(args),
		"bind", bindOnly)

	if bindOnly {
		return Thunk(func() (any, error) {
			return n.invoke(effective, args)
		}), nil
	}

	return n.invoke(effective, args)
}

// mergeArgs builds the final argument set for callable from the node's
// mapping, the caller's explicit defaults and the declared defaults.
func (n *Node) mergeArgs(callable *Callable, mapping map[string]any, defaults Args) (Args, error) {
	args := make(Args, len(callable.params))

	var missing []string

	for _, param := range callable.params {
		if param.fromConfig {
			if value, ok := mapping[param.name]; ok {
				args[param.name] = value
				n.used[param.name] = struct{}{}

				continue
			}
		}

		if value, ok := defaults[param.name]; ok {
			if value == Required {
				missing = append(missing, param.name)

				continue
			}

			args[param.name] = value

			continue
		}

		if param.hasDefault {
			if param.defaultVal == Required {
				missing = append(missing, param.name)

				continue
			}

			args[param.name] = param.defaultVal

			continue
		}

		missing = append(missing, param.name)
	}

	if len(missing) > 0 {
		sort.Strings(missing)

		return nil, &Error{
			Path: n.name,
			Err:  fmt.Errorf("%w: %v", ErrMissingParameter, missing),
		}
	}

	declared := make(map[string]struct{}, len(callable.params))
	for _, param := range callable.params {
		declared[param.name] = struct{}{}
	}

	if !callable.catchAll {
		for name := range defaults {
			if _, ok := declared[name]; !ok {
				return nil, &Error{
					Path: n.name,
					Err:  fmt.Errorf("%w: %q not declared by %s", ErrUnknownParameter, name, callable.name),
				}
			}
		}

		return args, nil
	}

	// Catch-all: every remaining configuration key passes through.
	for name := range defaults {
		if _, ok := declared[name]; ok {
			continue
		}

		if defaults[name] == Required {
			if _, inConfig := mapping[name]; !inConfig {
				missing = append(missing, name)
			}

			continue
		}

		args[name] = defaults[name]
	}

	if len(missing) > 0 {
		sort.Strings(missing)

		return nil, &Error{
			Path: n.name,
			Err:  fmt.Errorf("%w: %v", ErrMissingParameter, missing),
		}
	}

	for name, value := range mapping {
		if name == ClassKey {
			continue
		}

		if _, ok := declared[name]; ok {
			continue
		}

		args[name] = value
		n.used[name] = struct{}{}
	}

	return args, nil
}

func (n *Node) resolveFactory(override any) (*Callable, error) {
	name, ok := override.(string)
	if !ok {
		return nil, &Error{
			Path: n.name,
			Err:  fmt.Errorf("%w: %q key must be a string, got %T", ErrTypeMismatch, ClassKey, override),
		}
	}

	if n.tree.registry == nil {
		return nil, &Error{
			Path: n.name,
			Err:  fmt.Errorf("%w: %q key present but no registry attached", ErrMissingCallable, ClassKey),
		}
	}

	callable, err := n.tree.registry.Resolve(name)
	if err != nil {
		return nil, &Error{Path: n.name, Err: err}
	}

	return callable, nil
}

func (n *Node) invoke(callable *Callable, args Args) (any, error) {
	result, err := callable.call(n, args)
	if err != nil {
		var confErr *Error
		if errors.As(err, &confErr) {
			// Failures from nested Configure calls already carry their path.
			return nil, err
		}

		return nil, &Error{Path: n.name, Args: args, Err: err}
	}

	return result, nil
}

func argNames(args Args) []string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
