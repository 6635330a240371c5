// Package yaml turns YAML documents into the raw configuration trees the
// root conf package wraps: map[string]any mappings, []any sequences and
// plain scalars.
//
// This package uses github.com/goccy/go-yaml with native PathString support
// for efficient subdocument selection. Colon-separated paths (e.g.
// "api:permissions") are converted to YAML path format (e.g.
// "$.api.permissions") internally.
//
// Usage:
//
//	parser := yaml.NewParser()
//	raw, err := parser.Parse(data, "api:permissions")
//
// Path Conversion:
//   - Empty path "" -> the entire document
//   - Single key "key" -> "$.key"
//   - Nested path "api:permissions" -> "$.api.permissions"
package yaml
