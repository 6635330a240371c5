package conf

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// UnusedKeysError reports configuration keys that were present but never
// consumed during a resolution run. It is advisory: the core never returns
// it from construction, and consumers decide whether to promote it.
type UnusedKeysError struct {
	Keys []string
}

// Error implements the error interface.
func (e *UnusedKeysError) Error() string {
	return fmt.Sprintf("found %d unused configuration keys: %s", len(e.Keys), strings.Join(e.Keys, ", "))
}

// UnusedKeys recursively walks the children materialized during this run and
// returns the full paths of keys that were present in a visited node's raw
// value but never consumed. A branch with consumed descendants reports its
// unused leaves individually; a branch never entered is reported once, at
// its parent.
func (n *Node) UnusedKeys() []string {
	var unused []string

	for _, key := range n.rawKeys() {
		if child, ok := n.children[key]; ok && child.hasUsedKeys() {
			unused = append(unused, child.UnusedKeys()...)

			continue
		}

		if _, used := n.used[key]; !used {
			unused = append(unused, n.childName(key))
		}
	}

	return unused
}

// CheckUnused returns an *UnusedKeysError if any key is unused, nil
// otherwise.
func (n *Node) CheckUnused() error {
	keys := n.UnusedKeys()
	if len(keys) == 0 {
		return nil
	}

	return &UnusedKeysError{Keys: keys}
}

// LogUnused logs unused keys as a warning on logger. It never fails.
func (n *Node) LogUnused(logger *slog.Logger) {
	keys := n.UnusedKeys()
	if len(keys) == 0 {
		return
	}

	logger.Warn("unused configuration keys", "count", len(keys), "keys", keys)
}

// rawKeys enumerates the node's immediate keys in deterministic order:
// sorted names for mappings, ascending indices for sequences.
func (n *Node) rawKeys() []any {
	switch raw := n.raw.(type) {
	case map[string]any:
		names := make([]string, 0, len(raw))
		for name := range raw {
			names = append(names, name)
		}

		sort.Strings(names)

		keys := make([]any, len(names))
		for i, name := range names {
			keys[i] = name
		}

		return keys
	case []any:
		keys := make([]any, len(raw))
		for i := range raw {
			keys[i] = i
		}

		return keys
	default:
		return nil
	}
}

func (n *Node) hasUsedKeys() bool {
	if len(n.used) > 0 {
		return true
	}

	for _, child := range n.children {
		if child.hasUsedKeys() {
			return true
		}
	}

	return false
}
