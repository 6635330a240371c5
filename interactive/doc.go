// Package interactive implements the conf.Overrider hook with a
// prompt-driven terminal workflow: the first time a configuration path is
// consulted, the user may enter a replacement value as a YAML expression.
// Entered values persist in an in-memory overlay for the rest of the
// process, so repeated lookups of the same path see the same override.
//
// Install it on a tree with conf.WithOverrides:
//
//	editor := interactive.NewEditor(os.Stdin, os.Stderr)
//	root, err := conf.FromYAMLFile("config.yaml", conf.WithOverrides(editor))
package interactive
