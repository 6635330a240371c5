package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the specified path is not found in the YAML document.
var ErrPathNotFound = errors.New("path not found")

// Parser converts YAML documents into raw configuration trees.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes YAML data into a raw tree of map[string]any, []any and
// scalar values. The path parameter optionally selects a subdocument, using
// colon (:) as separator. Empty path returns the entire document.
func (p *Parser) Parse(data []byte, path string) (any, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	var raw any

	if path == "" {
		err := yaml.Unmarshal(data, &raw)
		if err != nil {
			return nil, fmt.Errorf("unmarshal error: %w", err)
		}

		return normalize(raw), nil
	}

	yamlPath := convertToYAMLPath(path)

	pathObj, err := yaml.PathString(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	reader := bytes.NewReader(data)

	err = pathObj.Read(reader, &raw)
	if err != nil {
		if isKeyNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return nil, fmt.Errorf("reading path %q: %w", path, err)
	}

	return normalize(raw), nil
}

// normalize rewrites any non-string-keyed mappings the decoder produced
// into the map[string]any shape the conf package expects, recursively.
func normalize(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, item := range typed {
			typed[key] = normalize(item)
		}

		return typed
	case map[any]any:
		mapping := make(map[string]any, len(typed))
		for key, item := range typed {
			mapping[fmt.Sprint(key)] = normalize(item)
		}

		return mapping
	case []any:
		for i, item := range typed {
			typed[i] = normalize(item)
		}

		return typed
	default:
		return value
	}
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "key" -> "$.key"
//   - "api:permissions" -> "$.api.permissions"
func convertToYAMLPath(path string) string {
	parts := strings.Split(path, ":")

	return "$." + strings.Join(parts, ".")
}

// isKeyNotFoundError checks if the error indicates a key was not found.
func isKeyNotFoundError(err error) bool {
	return yaml.IsNotFoundNodeError(err)
}
