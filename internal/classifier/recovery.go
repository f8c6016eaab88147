package classifier

import (
	"fmt"
	"strings"

	"workforce/internal/domain"
)

// RecoveryResult is a classification with a confidence grade and the
// warnings collected while producing it
type RecoveryResult struct {
	Classification domain.Classification `json:"classification"`
	Confidence     domain.Confidence     `json:"confidence"`
	Warnings       []string              `json:"warnings"`
	UsedFallback   bool                  `json:"used_fallback"`
	Decision       Decision              `json:"decision"`
}

// ClassifyWithRecovery classifies a position and grades the result:
// low when department or level is missing, medium when no explicit rule
// applied, high otherwise. It never fails.
func (e *Engine) ClassifyWithRecovery(p domain.Position) RecoveryResult {
	warnings := make([]string, 0)
	missing := false

	if strings.TrimSpace(p.Department) == "" {
		warnings = append(warnings, "missing department")
		missing = true
	}
	if strings.TrimSpace(string(p.Level)) == "" {
		warnings = append(warnings, "missing level")
		missing = true
	} else if !p.Level.IsKnown() {
		warnings = append(warnings, fmt.Sprintf("unrecognized level %q", p.Level))
	}

	d := e.Explain(p)
	usedFallback := d.Tier == TierFallback
	if usedFallback && !d.Recovered {
		warnings = append(warnings, fmt.Sprintf("no explicit rule for department %q at level %q; used heuristic fallback (%s)",
			domain.NormalizeDepartment(p.Department), p.Level, d.Reason))
	}
	if d.Recovered {
		warnings = append(warnings, "rule evaluation failed: "+d.Reason)
	}

	confidence := domain.ConfidenceHigh
	switch {
	case missing || d.Recovered:
		confidence = domain.ConfidenceLow
	case usedFallback || len(warnings) > 0:
		confidence = domain.ConfidenceMedium
	}

	return RecoveryResult{
		Classification: d.Classification,
		Confidence:     confidence,
		Warnings:       warnings,
		UsedFallback:   usedFallback,
		Decision:       d,
	}
}

// BatchResult is the outcome of BatchClassify
type BatchResult struct {
	Results []domain.ClassifiedPosition `json:"results"`
	Summary domain.BatchSummary         `json:"summary"`
}

// BatchClassify runs ClassifyWithRecovery over every position. A position
// missing department or level is reported in Summary.Errors but still gets
// a classification; a failure on one item never stops the rest.
func (e *Engine) BatchClassify(positions []domain.Position) BatchResult {
	result := BatchResult{
		Results: make([]domain.ClassifiedPosition, 0, len(positions)),
		Summary: domain.BatchSummary{
			Total:  len(positions),
			Errors: make([]string, 0),
		},
	}

	for i, p := range positions {
		item, err := e.classifyItem(p)
		if err != nil {
			result.Summary.Errors = append(result.Summary.Errors, fmt.Sprintf("%s: %v", itemLabel(i, p), err))
		} else {
			result.Summary.Successful++
		}
		if len(item.Warnings) > 0 {
			result.Summary.WithWarnings++
		}
		if item.UsedFallback {
			result.Summary.WithFallback++
		}
		result.Results = append(result.Results, item)
	}

	return result
}

func (e *Engine) classifyItem(p domain.Position) (item domain.ClassifiedPosition, err error) {
	defer func() {
		if r := recover(); r != nil {
			item = domain.ClassifiedPosition{
				Position:       p,
				Classification: domain.ClassificationIndirect,
				Confidence:     domain.ConfidenceLow,
				Warnings:       []string{fmt.Sprintf("classification failed: %v", r)},
				UsedFallback:   true,
			}
			err = fmt.Errorf("classification failed: %v", r)
		}
	}()

	rec := e.ClassifyWithRecovery(p)
	item = domain.ClassifiedPosition{
		Position:       p,
		Classification: rec.Classification,
		Confidence:     rec.Confidence,
		Warnings:       rec.Warnings,
		UsedFallback:   rec.UsedFallback,
	}

	var missing []string
	if strings.TrimSpace(p.Department) == "" {
		missing = append(missing, "department")
	}
	if strings.TrimSpace(string(p.Level)) == "" {
		missing = append(missing, "level")
	}
	if len(missing) > 0 {
		return item, fmt.Errorf("missing %s", strings.Join(missing, " and "))
	}
	return item, nil
}

func itemLabel(i int, p domain.Position) string {
	if p.ID != "" {
		return "position " + p.ID
	}
	return fmt.Sprintf("position #%d", i)
}

// ValidateClassification checks a position's classification inputs. Only a
// missing department or level is an error; an explicit classification that
// disagrees with the computed one is a warning.
func (e *Engine) ValidateClassification(p domain.Position) domain.ClassificationCheck {
	check := domain.ClassificationCheck{
		IsValid:  true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	if strings.TrimSpace(p.Department) == "" {
		check.Errors = append(check.Errors, "department is required")
	}
	if strings.TrimSpace(string(p.Level)) == "" {
		check.Errors = append(check.Errors, "level is required")
	}
	check.IsValid = len(check.Errors) == 0

	if !p.HasExplicitClassification() {
		return check
	}

	expected := e.ClassifyPosition(p)
	switch {
	case !p.Classification.IsValid():
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("unrecognized classification %q (expected %s)", p.Classification, expected))
	case p.Classification != expected:
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("classification mismatch: expected %s, got %s", expected, p.Classification))
	}

	return check
}
