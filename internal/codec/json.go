package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"workforce/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports positions from JSON. Both {"source": ..., "positions": [...]}
// and a bare array of positions are accepted.
func (c *JSONCodec) Parse(r io.Reader) (*domain.PositionSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return domain.NewPositionSet(""), nil
	}

	if trimmed[0] == '[' {
		set := domain.NewPositionSet("")
		if err := json.Unmarshal(trimmed, &set.Positions); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return set, nil
	}

	var set domain.PositionSet
	if err := json.Unmarshal(trimmed, &set); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if set.Positions == nil {
		set.Positions = make([]domain.Position, 0)
	}

	return &set, nil
}

// Export exports a report to JSON
func (c *JSONCodec) Export(report *domain.Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
