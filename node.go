package conf

import (
	"fmt"
	"sort"
)

type marker struct{ rep string }

func (m *marker) String() string { return m.rep }

// Required marks a parameter as having no usable default. It can be set as a
// declared parameter default or passed as an explicit default to Configure;
// if the configuration tree does not supply the parameter, construction
// fails with ErrMissingParameter.
//
//nolint:gochecknoglobals // sentinel value, compared by identity.
var Required any = &marker{"REQUIRED"}

//nolint:gochecknoglobals // sentinel distinguishing absent nodes from explicit nulls.
var absentValue any = &marker{"ABSENT"}

// Overrider supplies values that take precedence over the raw configuration
// tree. Lookup is keyed by a node's rendered path ("" for the root) and is
// consulted by Get, Decode and the configure family before the raw value.
type Overrider interface {
	Lookup(path string) (any, bool)
}

// tree holds state shared by every node of one configuration tree.
type tree struct {
	registry  *Registry
	overrides Overrider
}

// TreeOption configures a root node created by New, FromYAML or FromYAMLFile.
type TreeOption func(*tree)

// WithRegistry attaches a factory registry, enabling resolution of the
// reserved "class" key. Trees built without a registry refuse to resolve it,
// which is the right mode for untrusted configuration files.
func WithRegistry(registry *Registry) TreeOption {
	return func(t *tree) {
		t.registry = registry
	}
}

// WithOverrides installs an override hook that is consulted before raw tree
// values. See the interactive package for a prompt-driven implementation.
func WithOverrides(overrides Overrider) TreeOption {
	return func(t *tree) {
		t.overrides = overrides
	}
}

// Node is one addressable point in a hierarchical configuration tree.
//
// The wrapped value is either absent, a scalar, a mapping (map[string]any)
// or a sequence ([]any). The raw tree is never mutated; nodes only record
// which keys were consumed. A Node is not safe for concurrent use.
type Node struct {
	raw       any
	name      string
	parent    *Node
	parentKey any
	children  map[any]*Node
	used      map[any]struct{}
	tree      *tree
}

// New wraps an in-memory value as the root of a configuration tree.
// Mappings must be map[string]any and sequences []any, the shapes produced
// by the parser/yaml package.
func New(raw any, opts ...TreeOption) *Node {
	node := newNode(raw, "", nil, nil, &tree{})

	for _, apply := range opts {
		apply(node.tree)
	}

	return node
}

// Empty returns a root node with no value. Configuring against it behaves
// exactly like configuring against an empty mapping.
func Empty() *Node {
	return New(absentValue)
}

func newNode(raw any, name string, parent *Node, parentKey any, t *tree) *Node {
	return &Node{
		raw:       raw,
		name:      name,
		parent:    parent,
		parentKey: parentKey,
		children:  make(map[any]*Node),
		used:      make(map[any]struct{}),
		tree:      t,
	}
}

// Child returns the node for key, which must be a string (mapping key) or an
// int (sequence index). Repeated calls with the same key return the same
// instance. The key is marked consumed on this node even if it is not
// present in the node's value; the child is then in the absent state.
func (n *Node) Child(key any) *Node {
	if child, ok := n.children[key]; ok {
		n.used[key] = struct{}{}

		return child
	}

	raw, present := n.lookup(key)
	if !present {
		raw = absentValue
	}

	child := newNode(raw, n.childName(key), n, key, n.tree)
	n.children[key] = child
	n.used[key] = struct{}{}

	return child
}

// Present reports whether the node has a value, either in the raw tree or
// from the override hook. An explicit null counts as present; only a key
// never found in the parent's value is absent.
func (n *Node) Present() bool {
	_, ok := n.effectiveRaw()

	return ok
}

// Get returns the node's raw value, consulting the override hook first.
// It fails with ErrMissing if the node is absent.
func (n *Node) Get() (any, error) {
	n.markUsed()

	raw, ok := n.effectiveRaw()
	if !ok {
		return nil, fmt.Errorf("%s: %w", displayPath(n.name), ErrMissing)
	}

	return raw, nil
}

// GetOr returns the node's raw value, or def if the node is absent.
func (n *Node) GetOr(def any) any {
	n.markUsed()

	raw, ok := n.effectiveRaw()
	if !ok {
		return def
	}

	return raw
}

// Path returns the ordered sequence of keys and indices from the root.
func (n *Node) Path() []any {
	if n.parent == nil {
		return nil
	}

	return append(n.parent.Path(), n.parentKey)
}

// String renders the node's full path, e.g. "model.layers[0].units".
func (n *Node) String() string {
	return displayPath(n.name)
}

// Keys returns the sorted keys of a mapping node, or nil for any other
// shape. It does not consume anything.
func (n *Node) Keys() []string {
	raw, _ := n.effectiveRaw()

	mapping, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// Len returns the length of a sequence node, or 0 for any other shape.
func (n *Node) Len() int {
	raw, _ := n.effectiveRaw()

	seq, ok := raw.([]any)
	if !ok {
		return 0
	}

	return len(seq)
}

// effectiveRaw resolves the value the node currently stands for: the
// override hook wins over the raw tree, and absence is reported via ok.
func (n *Node) effectiveRaw() (any, bool) {
	if n.tree.overrides != nil {
		if value, ok := n.tree.overrides.Lookup(n.name); ok {
			return value, true
		}
	}

	if n.raw == absentValue {
		return nil, false
	}

	return n.raw, true
}

// lookup resolves key against the node's effective value, so an override
// that replaces a whole mapping or sequence is what children are built from.
func (n *Node) lookup(key any) (any, bool) {
	effective, ok := n.effectiveRaw()
	if !ok {
		return nil, false
	}

	switch raw := effective.(type) {
	case map[string]any:
		name, ok := key.(string)
		if !ok {
			return nil, false
		}

		value, ok := raw[name]

		return value, ok
	case []any:
		index, ok := key.(int)
		if !ok || index < 0 || index >= len(raw) {
			return nil, false
		}

		return raw[index], true
	default:
		return nil, false
	}
}

func (n *Node) markUsed() {
	if n.parent != nil {
		n.parent.used[n.parentKey] = struct{}{}
	}
}

func (n *Node) childName(key any) string {
	if name, ok := key.(string); ok {
		if n.name == "" {
			return name
		}

		return n.name + "." + name
	}

	return fmt.Sprintf("%s[%v]", n.name, key)
}
