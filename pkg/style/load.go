package style

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// LoadFile reads, parses and compiles a rule file.
// A missing file yields *ConfigNotFoundError.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("open style file: %w", err)
	}
	defer func() { _ = f.Close() }()

	descriptors, err := parse(f, path)
	if err != nil {
		return nil, err
	}
	return load(descriptors, path)
}

// Parse reads rule descriptors from YAML in either the sequence or the
// compact mapping form. An empty document yields no descriptors.
func Parse(r io.Reader) ([]Descriptor, error) {
	return parse(r, "")
}

func parse(r io.Reader, path string) ([]Descriptor, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if path != "" {
			return nil, fmt.Errorf("parse style file %s: %w", path, err)
		}
		return nil, fmt.Errorf("parse style file: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		descriptors := make([]Descriptor, 0, len(root.Content))
		for i, item := range root.Content {
			d, err := decodeDescriptor(item)
			if err != nil {
				return nil, &ConfigError{Path: path, Index: i, Err: err}
			}
			descriptors = append(descriptors, d)
		}
		return descriptors, nil

	case yaml.MappingNode:
		descriptors := make([]Descriptor, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			key, value := root.Content[i], root.Content[i+1]
			d, err := decodeCompact(key, value)
			if err != nil {
				return nil, &ConfigError{Path: path, Index: i / 2, Err: err}
			}
			descriptors = append(descriptors, d)
		}
		return descriptors, nil

	case yaml.ScalarNode:
		if root.Tag == "!!null" {
			return nil, nil
		}
	}

	return nil, fmt.Errorf("expected a sequence of rules or a kind-to-pattern mapping (line %d)", root.Line)
}

// decodeDescriptor decodes one sequence item.
func decodeDescriptor(node *yaml.Node) (Descriptor, error) {
	var d Descriptor
	if node.Kind != yaml.MappingNode {
		return d, fmt.Errorf("line %d: rule must be a mapping with kind and pattern", node.Line)
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return d, fmt.Errorf("line %d: %w", node.Line, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &d,
	})
	if err != nil {
		return d, err
	}
	if err := dec.Decode(raw); err != nil {
		return d, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return d, nil
}

// decodeCompact decodes a "kind: pattern" pair. The value may also be a
// mapping carrying pattern and access_specifier.
func decodeCompact(key, value *yaml.Node) (Descriptor, error) {
	if value.Kind == yaml.MappingNode {
		d, err := decodeDescriptor(value)
		if err != nil {
			return d, err
		}
		d.Kind = key.Value
		return d, nil
	}
	if value.Kind != yaml.ScalarNode {
		return Descriptor{}, fmt.Errorf("line %d: pattern for %q must be a string", value.Line, key.Value)
	}
	d := Descriptor{Kind: key.Value}
	if value.Tag != "!!null" {
		d.Pattern = value.Value
	}
	return d, nil
}
