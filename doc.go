// Package conf builds deeply nested object graphs from hierarchical
// configuration trees, typically loaded from YAML.
//
// A tree is wrapped in a root Node. Each factory consumes only the slice of
// the tree that corresponds to its position: Configure merges the node's
// mapping keys with caller-supplied defaults and the factory's declared
// parameter defaults, then invokes the factory. Factories may in turn call
// Configure on child nodes, so the tree of construction calls mirrors the
// shape of the configuration tree.
//
// Nodes track which keys were consumed, so after construction UnusedKeys
// reports likely typos or dead configuration. The reserved "class" key in a
// mapping selects a factory from an attached Registry, overriding the
// code-supplied one.
package conf
