package conf

import (
	"fmt"

	filefetcher "github.com/0xalexb/hjarta-conf/fetcher/file"
	yamlparser "github.com/0xalexb/hjarta-conf/parser/yaml"
)

// FromYAML builds a root node from a YAML document. Mappings decode to
// map[string]any and sequences to []any, recursively.
//
// Pass WithRegistry to enable resolution of the reserved "class" key; leave
// it off for configuration from untrusted sources.
func FromYAML(data []byte, opts ...TreeOption) (*Node, error) {
	raw, err := yamlparser.NewParser().Parse(data, "")
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return New(raw, opts...), nil
}

// FromYAMLFile reads the YAML file at path and builds a root node from it.
func FromYAMLFile(path string, opts ...TreeOption) (*Node, error) {
	fetcher, err := filefetcher.NewFetcher(path)
	if err != nil {
		return nil, err
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, err
	}

	return FromYAML(data, opts...)
}
