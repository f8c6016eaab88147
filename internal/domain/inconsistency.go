package domain

import "fmt"

// SystemDepartment marks an inconsistency synthesized from an internal failure
const SystemDepartment = "SYSTEM"

// AllDepartments marks an aggregation mismatch that concerns the whole view
const AllDepartments = "ALL"

// Inconsistency records a position whose actual classification diverges from
// the expected classification of its cross-source group
type Inconsistency struct {
	PositionID             string         `json:"position_id,omitempty" yaml:"position_id,omitempty"`
	Department             string         `json:"department" yaml:"department"`
	Level                  Level          `json:"level" yaml:"level"`
	Title                  string         `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle               string         `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	ExpectedClassification Classification `json:"expected_classification" yaml:"expected_classification"`
	ActualClassification   Classification `json:"actual_classification" yaml:"actual_classification"`
	Source                 string         `json:"source,omitempty" yaml:"source,omitempty"` // view the divergent record came from
	Pages                  []string       `json:"pages" yaml:"pages"`                       // every view showing this position
	Reason                 string         `json:"reason" yaml:"reason"`
	Severity               Severity       `json:"severity" yaml:"severity"`
}

// IsSystem returns true for inconsistencies synthesized from internal failures
func (i Inconsistency) IsSystem() bool {
	return i.Department == SystemDepartment
}

// NewSystemInconsistency converts an internal failure into a report entry
func NewSystemInconsistency(err error) Inconsistency {
	return Inconsistency{
		Department: SystemDepartment,
		Pages:      []string{},
		Reason:     fmt.Sprintf("validation aborted: %v", err),
		Severity:   SeverityError,
	}
}

// AggregationMismatch records a divergence between the detailed view and an
// aggregation page
type AggregationMismatch struct {
	Department      string         `json:"department" yaml:"department"`
	Level           Level          `json:"level,omitempty" yaml:"level,omitempty"`
	DetailedCount   int            `json:"detailed_count" yaml:"detailed_count"`
	AggregatedCount int            `json:"aggregated_count" yaml:"aggregated_count"`
	Classification  Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
	Reason          string         `json:"reason" yaml:"reason"`
}

// Delta returns aggregated minus detailed
func (m AggregationMismatch) Delta() int {
	return m.AggregatedCount - m.DetailedCount
}
