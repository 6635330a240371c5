package conf

import (
	"fmt"
	"strings"
)

// Args holds the named argument values passed to a callable.
type Args map[string]any

// Thunk is a deferred invocation produced by Bind and MaybeBind. It captures
// the resolved callable and the fully merged argument set.
type Thunk func() (any, error)

// DefaultInjectName is the parameter name reserved for the injected
// configuration node.
const DefaultInjectName = "cfg"

// Param describes one declared parameter of a Callable. Go has no runtime
// enumeration of parameter names, so the descriptor is registered explicitly
// alongside the implementation.
type Param struct {
	name       string
	defaultVal any
	hasDefault bool
	fromConfig bool
}

// NewParam declares a config-eligible parameter with no default.
func NewParam(name string) Param {
	return Param{name: name, fromConfig: true}
}

// WithDefault sets the parameter's declared default. Pass Required to
// declare that the parameter must be supplied by the configuration tree or
// by an explicit default.
func (p Param) WithDefault(value any) Param {
	p.defaultVal = value
	p.hasDefault = true

	return p
}

// CodeOnly excludes the parameter from the config-tree merge; it can only be
// supplied as an explicit default or via its declared default.
func (p Param) CodeOnly() Param {
	p.fromConfig = false

	return p
}

// Name returns the parameter name.
func (p Param) Name() string {
	return p.name
}

// Callable couples an implementation with its declared-parameter descriptor.
// Build one with NewFunc, NewConfigurable or NewStruct and invoke it through
// a Node, or directly with Call.
type Callable struct {
	name     string
	params   []Param
	catchAll bool
	call     func(cfg *Node, args Args) (any, error)
}

type callableConfig struct {
	params     []Param
	catchAll   bool
	injectName string
}

// CallableOption configures a Callable under construction.
type CallableOption func(*callableConfig)

// WithParams sets the declared-parameter descriptor.
func WithParams(params ...Param) CallableOption {
	return func(c *callableConfig) {
		c.params = params
	}
}

// WithCatchAll lets the callable receive every configuration key at its
// node, not only those matching declared parameters.
func WithCatchAll() CallableOption {
	return func(c *callableConfig) {
		c.catchAll = true
	}
}

// WithInjectName changes the reserved injection parameter name checked at
// wrap time for configurable function targets.
func WithInjectName(name string) CallableOption {
	return func(c *callableConfig) {
		c.injectName = name
	}
}

// NewFunc builds a plain function target. The function never observes the
// configuration node.
func NewFunc(name string, fn func(args Args) (any, error), opts ...CallableOption) (*Callable, error) {
	cfg := applyCallableOptions(opts)

	if err := validateParams(name, cfg.params); err != nil {
		return nil, err
	}

	return &Callable{
		name:     name,
		params:   cfg.params,
		catchAll: cfg.catchAll,
		call: func(_ *Node, args Args) (any, error) {
			return fn(args)
		},
	}, nil
}

// NewConfigurable builds a function target that receives the configuration
// node for its position as a dedicated parameter. When invoked directly via
// Call, the node is an empty root, so direct calls behave exactly like
// configuring against an empty tree.
//
// The descriptor must not declare a parameter under the injection name
// (DefaultInjectName unless changed with WithInjectName); the node is
// delivered out of band. A collision fails with ErrSignature.
func NewConfigurable(name string, fn func(cfg *Node, args Args) (any, error), opts ...CallableOption) (*Callable, error) {
	cfg := applyCallableOptions(opts)

	if err := validateParams(name, cfg.params); err != nil {
		return nil, err
	}

	for _, param := range cfg.params {
		if param.name == cfg.injectName {
			return nil, fmt.Errorf("%w: parameter %q collides with the injected configuration parameter in %s",
				ErrSignature, param.name, describeSignature(name, cfg.params))
		}
	}

	return &Callable{
		name:     name,
		params:   cfg.params,
		catchAll: cfg.catchAll,
		call:     fn,
	}, nil
}

// nodeReceiver is implemented by struct targets via the Embed type.
type nodeReceiver interface {
	attachNode(node *Node)
}

// Embed provides struct targets with their configuration node. Embed it in
// any struct constructed through NewStruct; the node is attached to the
// freshly allocated value before the init function runs, so init can call
// Configure on child nodes.
type Embed struct {
	cfg *Node
}

// Cfg returns the injected node. For values constructed directly, outside
// any Configure call, it returns an empty root node.
func (e *Embed) Cfg() *Node {
	if e.cfg == nil {
		e.cfg = Empty()
	}

	return e.cfg
}

func (e *Embed) attachNode(node *Node) {
	e.cfg = node
}

// NewStruct builds a struct target with two-phase construction: alloc
// produces a zero value, the invoker attaches the configuration node, then
// init runs with the merged arguments. The constructed value is the result.
//
// alloc must be side-effect free, and the values it returns must embed
// conf.Embed; otherwise NewStruct fails with ErrSignature at wrap time.
func NewStruct(name string, alloc func() any, init func(target any, args Args) error, opts ...CallableOption) (*Callable, error) {
	cfg := applyCallableOptions(opts)

	if err := validateParams(name, cfg.params); err != nil {
		return nil, err
	}

	if _, ok := alloc().(nodeReceiver); !ok {
		return nil, fmt.Errorf("%w: %s target does not embed conf.Embed", ErrSignature, name)
	}

	return &Callable{
		name:     name,
		params:   cfg.params,
		catchAll: cfg.catchAll,
		call: func(node *Node, args Args) (any, error) {
			target := alloc()
			target.(nodeReceiver).attachNode(node)

			if err := init(target, args); err != nil {
				return nil, err
			}

			return target, nil
		},
	}, nil
}

// MustFunc is like NewFunc but panics on error, for package-level factories.
func MustFunc(name string, fn func(args Args) (any, error), opts ...CallableOption) *Callable {
	return mustCallable(NewFunc(name, fn, opts...))
}

// MustConfigurable is like NewConfigurable but panics on error.
func MustConfigurable(name string, fn func(cfg *Node, args Args) (any, error), opts ...CallableOption) *Callable {
	return mustCallable(NewConfigurable(name, fn, opts...))
}

// MustStruct is like NewStruct but panics on error.
func MustStruct(name string, alloc func() any, init func(target any, args Args) error, opts ...CallableOption) *Callable {
	return mustCallable(NewStruct(name, alloc, init, opts...))
}

func mustCallable(callable *Callable, err error) *Callable {
	if err != nil {
		panic(err)
	}

	return callable
}

// Name returns the callable's registered name.
func (c *Callable) Name() string {
	return c.name
}

// Call invokes the callable directly, as if configured against a completely
// empty tree: declared defaults apply and the injected node is empty.
func (c *Callable) Call(args Args) (any, error) {
	return Empty().Configure(c, args)
}

func applyCallableOptions(opts []CallableOption) callableConfig {
	cfg := callableConfig{injectName: DefaultInjectName}

	for _, apply := range opts {
		apply(&cfg)
	}

	return cfg
}

func validateParams(name string, params []Param) error {
	seen := make(map[string]struct{}, len(params))

	for _, param := range params {
		if param.name == "" {
			return fmt.Errorf("%w: unnamed parameter in %s", ErrSignature, describeSignature(name, params))
		}

		if param.name == ClassKey {
			return fmt.Errorf("%w: parameter %q is reserved in %s", ErrSignature, ClassKey,
				describeSignature(name, params))
		}

		if _, dup := seen[param.name]; dup {
			return fmt.Errorf("%w: duplicate parameter %q in %s", ErrSignature, param.name,
				describeSignature(name, params))
		}

		seen[param.name] = struct{}{}
	}

	return nil
}

func describeSignature(name string, params []Param) string {
	names := make([]string, len(params))
	for i, param := range params {
		names[i] = param.name
	}

	return fmt.Sprintf("%s(%s)", name, strings.Join(names, ", "))
}
