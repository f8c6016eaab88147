package domain

import (
	"errors"
	"strings"
)

// ErrMissingSource is returned when a cross-page position has no source
var ErrMissingSource = errors.New("position source is required")

// Position is a single organizational role instance as produced by one view
type Position struct {
	ID          string `json:"id" yaml:"id"`
	Department  string `json:"department" yaml:"department"`
	Level       Level  `json:"level" yaml:"level"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	ProcessType string `json:"processType,omitempty" yaml:"processType,omitempty"`
	// Classification is the tag the source attached, if any. It is compared
	// against the computed classification and never used to compute it.
	Classification Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
	Source         string         `json:"source,omitempty" yaml:"source,omitempty"`
}

// HasExplicitClassification returns true if the source attached a classification tag
func (p Position) HasExplicitClassification() bool {
	return p.Classification != ""
}

// Field returns the value of a named field, used by rule conditions.
// Unknown field names return an empty string and false.
func (p Position) Field(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "id":
		return p.ID, true
	case "department":
		return p.Department, true
	case "level":
		return string(p.Level), true
	case "title":
		return p.Title, true
	case "subtitle":
		return p.Subtitle, true
	case "processtype", "process_type", "process":
		return p.ProcessType, true
	case "source":
		return p.Source, true
	}
	return "", false
}

// Normalized returns a copy with the department canonicalized
func (p Position) Normalized() Position {
	p.Department = NormalizeDepartment(p.Department)
	return p
}

// Label returns a short human-readable description for reports and logs
func (p Position) Label() string {
	var sb strings.Builder
	sb.WriteString(p.Department)
	sb.WriteString(" / ")
	sb.WriteString(string(p.Level))
	if p.Subtitle != "" {
		sb.WriteString(" (")
		sb.WriteString(p.Subtitle)
		sb.WriteString(")")
	}
	if p.Title != "" && p.Title != p.Subtitle {
		sb.WriteString(" ")
		sb.WriteString(p.Title)
	}
	return sb.String()
}

// CrossPagePosition is a position that must name the view it came from.
// It is the unit stored in the consistency registry.
type CrossPagePosition struct {
	Position
}

// NewCrossPagePosition wraps a position, requiring a non-empty source
func NewCrossPagePosition(p Position) (CrossPagePosition, error) {
	if strings.TrimSpace(p.Source) == "" {
		return CrossPagePosition{}, ErrMissingSource
	}
	return CrossPagePosition{Position: p}, nil
}

// PositionSet is a named list of positions, as exchanged with codecs
type PositionSet struct {
	Source    string     `json:"source,omitempty" yaml:"source,omitempty"`
	Positions []Position `json:"positions" yaml:"positions"`
}

// NewPositionSet creates an empty position set for a source
func NewPositionSet(source string) *PositionSet {
	return &PositionSet{
		Source:    source,
		Positions: make([]Position, 0),
	}
}

// Add appends a position
func (s *PositionSet) Add(p Position) {
	s.Positions = append(s.Positions, p)
}

// WithSource returns the positions stamped with the set's source.
// Positions that already carry a source keep it.
func (s *PositionSet) WithSource() []Position {
	out := make([]Position, len(s.Positions))
	for i, p := range s.Positions {
		if p.Source == "" {
			p.Source = s.Source
		}
		out[i] = p
	}
	return out
}
