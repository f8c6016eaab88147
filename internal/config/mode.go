package config

import "strings"

// RulesMode defines how a rules file combines with the built-in rule set
type RulesMode string

const (
	RulesModeMerge   RulesMode = "merge"   // file entries patch the built-in rules
	RulesModeReplace RulesMode = "replace" // file is the whole rule set
)

// ParseRulesMode converts a string to RulesMode, defaulting to RulesModeMerge
func ParseRulesMode(s string) RulesMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace":
		return RulesModeReplace
	default:
		return RulesModeMerge
	}
}

// IsValid returns true for a known mode
func (m RulesMode) IsValid() bool {
	return m == RulesModeMerge || m == RulesModeReplace
}

// Format names a report output format
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported output formats
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ParseFormat converts a string to Format. "md" is accepted for markdown.
// Unknown values return false.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "md" {
		return FormatMarkdown, true
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}
