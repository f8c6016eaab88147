package codec

import (
	"errors"
	"fmt"
	"io"

	"workforce/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports positions from YAML. Both a mapping with source/positions
// and a bare sequence of positions are accepted.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.PositionSet, error) {
	var doc yaml.Node
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewPositionSet(""), nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	set := domain.NewPositionSet("")
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&set.Positions); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case yaml.MappingNode:
		if err := root.Decode(set); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if set.Positions == nil {
			set.Positions = make([]domain.Position, 0)
		}
	default:
		return nil, fmt.Errorf("failed to parse YAML: expected a mapping or a sequence at line %d", root.Line)
	}

	return set, nil
}

// Export exports a report to YAML
func (c *YAMLCodec) Export(report *domain.Report, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}
