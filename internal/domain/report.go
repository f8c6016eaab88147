package domain

import "time"

// ValidationSummary aggregates a consistency validation run
type ValidationSummary struct {
	TotalPositions        int                  `json:"total_positions" yaml:"total_positions"`
	ValidPositions        int                  `json:"valid_positions" yaml:"valid_positions"`
	InconsistentPositions int                  `json:"inconsistent_positions" yaml:"inconsistent_positions"`
	ClassificationCounts  ClassificationCounts `json:"classification_counts" yaml:"classification_counts"` // one per group
	PagesCovered          []string             `json:"pages_covered" yaml:"pages_covered"`
}

// ValidationReport is the result of a cross-source consistency check
type ValidationReport struct {
	RunID           string            `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	IsValid         bool              `json:"is_valid" yaml:"is_valid"`
	Inconsistencies []Inconsistency   `json:"inconsistencies" yaml:"inconsistencies"`
	Summary         ValidationSummary `json:"summary" yaml:"summary"`
	Timestamp       time.Time         `json:"timestamp" yaml:"timestamp"`
}

// AggregationValidationResult is the result of reconciling aggregation pages
// against the detailed view
type AggregationValidationResult struct {
	IsValid           bool                  `json:"is_valid" yaml:"is_valid"`
	DirectPageTotal   int                   `json:"direct_page_total" yaml:"direct_page_total"`
	IndirectPageTotal int                   `json:"indirect_page_total" yaml:"indirect_page_total"`
	OHPageTotal       int                   `json:"oh_page_total" yaml:"oh_page_total"` // OH members of the indirect page
	DetailedViewTotal int                   `json:"detailed_view_total" yaml:"detailed_view_total"`
	Expected          ClassificationCounts  `json:"expected" yaml:"expected"` // buckets recomputed from the detailed view
	Mismatches        []AggregationMismatch `json:"mismatches" yaml:"mismatches"`
	// Drift lists department and level combinations whose page count differs
	// from the detailed view. It is informational and does not affect IsValid.
	Drift []AggregationMismatch `json:"drift" yaml:"drift"`
}

// PositionValidationResult is the result of a single-position check
type PositionValidationResult struct {
	IsValid  bool     `json:"is_valid" yaml:"is_valid"`
	Issues   []string `json:"issues" yaml:"issues"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// ClassificationCheck is the result of validating a position's classification inputs
type ClassificationCheck struct {
	IsValid  bool     `json:"is_valid" yaml:"is_valid"`
	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// ClassifiedPosition is one entry of a batch classification
type ClassifiedPosition struct {
	Position       Position       `json:"position" yaml:"position"`
	Classification Classification `json:"classification" yaml:"classification"`
	Confidence     Confidence     `json:"confidence" yaml:"confidence"`
	Warnings       []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	UsedFallback   bool           `json:"used_fallback" yaml:"used_fallback"`
}

// BatchSummary tallies a batch classification
type BatchSummary struct {
	Total        int      `json:"total" yaml:"total"`
	Successful   int      `json:"successful" yaml:"successful"`
	WithWarnings int      `json:"with_warnings" yaml:"with_warnings"`
	WithFallback int      `json:"with_fallback" yaml:"with_fallback"`
	Errors       []string `json:"errors" yaml:"errors"`
}

// Report is the combined output handed to report consumers (CLI, exporters)
type Report struct {
	RunID       string                       `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time                    `json:"generated_at" yaml:"generated_at"`
	Consistency *ValidationReport            `json:"consistency,omitempty" yaml:"consistency,omitempty"`
	Aggregation *AggregationValidationResult `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	Positions   []ClassifiedPosition         `json:"positions,omitempty" yaml:"positions,omitempty"`
	Batch       *BatchSummary                `json:"batch,omitempty" yaml:"batch,omitempty"`
}

// IsValid returns false if any included check failed
func (r *Report) IsValid() bool {
	if r == nil {
		return true
	}
	if r.Consistency != nil && !r.Consistency.IsValid {
		return false
	}
	if r.Aggregation != nil && !r.Aggregation.IsValid {
		return false
	}
	return true
}
