package domain

import "strings"

// Classification is the workforce-accounting category assigned to a position
type Classification string

const (
	ClassificationDirect   Classification = "direct"   // Production labor
	ClassificationIndirect Classification = "indirect" // Production-support labor
	ClassificationOH       Classification = "OH"       // Overhead / management
)

// Classifications lists every valid classification in report order
var Classifications = []Classification{
	ClassificationDirect,
	ClassificationIndirect,
	ClassificationOH,
}

// IsValid returns true if c is one of the closed set of classifications
func (c Classification) IsValid() bool {
	switch c {
	case ClassificationDirect, ClassificationIndirect, ClassificationOH:
		return true
	}
	return false
}

// ParseClassification parses a classification tag, accepting any letter case.
// The second return value is false for unknown tags.
func ParseClassification(s string) (Classification, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct":
		return ClassificationDirect, true
	case "indirect":
		return ClassificationIndirect, true
	case "oh", "overhead":
		return ClassificationOH, true
	}
	return "", false
}

// Level is an organizational job level
type Level string

const (
	LevelPM   Level = "PM"
	LevelLM   Level = "LM"
	LevelGL   Level = "GL"
	LevelTL   Level = "TL"
	LevelTM   Level = "TM"
	LevelDEPT Level = "DEPT"

	// VSM and A.VSM are used by some views in place of PM and LM.
	// They are kept as distinct levels with the same rule outcome.
	LevelVSM  Level = "VSM"
	LevelAVSM Level = "A.VSM"
)

// Levels lists the known levels, leadership first
var Levels = []Level{LevelPM, LevelLM, LevelVSM, LevelAVSM, LevelGL, LevelTL, LevelTM, LevelDEPT}

// IsKnown returns true if the level is part of the fixed level vocabulary
func (l Level) IsKnown() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// IsLeadership returns true for plant-leadership levels (PM, LM and their VSM synonyms)
func (l Level) IsLeadership() bool {
	switch l {
	case LevelPM, LevelLM, LevelVSM, LevelAVSM:
		return true
	}
	return false
}

// Severity grades an inconsistency
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Confidence grades how trustworthy a recovered classification is
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ClassificationCounts tallies classifications by bucket
type ClassificationCounts struct {
	Direct   int `json:"direct" yaml:"direct"`
	Indirect int `json:"indirect" yaml:"indirect"`
	OH       int `json:"OH" yaml:"OH"`
}

// Add increments the bucket for c. Invalid classifications are ignored.
func (c *ClassificationCounts) Add(class Classification) {
	switch class {
	case ClassificationDirect:
		c.Direct++
	case ClassificationIndirect:
		c.Indirect++
	case ClassificationOH:
		c.OH++
	}
}

// Get returns the count for a bucket
func (c ClassificationCounts) Get(class Classification) int {
	switch class {
	case ClassificationDirect:
		return c.Direct
	case ClassificationIndirect:
		return c.Indirect
	case ClassificationOH:
		return c.OH
	}
	return 0
}

// Total returns the sum of all buckets
func (c ClassificationCounts) Total() int {
	return c.Direct + c.Indirect + c.OH
}
