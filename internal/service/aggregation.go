package service

import (
	"fmt"
	"sort"

	"workforce/internal/domain"
	"workforce/internal/logging"
)

// AggregationValidator reconciles the aggregation pages against the detailed
// view. The direct page must hold exactly the direct positions; the indirect
// page holds indirect and OH positions.
type AggregationValidator struct {
	classifier Classifier
	logger     logging.Logger
	eventBus   *EventBus
}

// NewAggregationValidator creates an aggregation validator. logger and
// eventBus may be nil.
func NewAggregationValidator(classifier Classifier, logger logging.Logger, eventBus *EventBus) *AggregationValidator {
	return &AggregationValidator{
		classifier: classifier,
		logger:     logging.Safe(logger),
		eventBus:   eventBus,
	}
}

type breakdownKey struct {
	department string
	level      domain.Level
}

// breakdown counts positions per department and level
type breakdown map[breakdownKey]int

func (b breakdown) add(p domain.Position) {
	b[breakdownKey{department: domain.NormalizeDepartment(p.Department), level: p.Level}]++
}

// ValidateAggregation compares page sizes, page membership and the overall
// total; only those decide validity. Per department and level count
// differences are collected in Drift. It never panics; nil slices are
// treated as empty pages.
func (v *AggregationValidator) ValidateAggregation(directPage, indirectPage, detailed []domain.Position) (result *domain.AggregationValidationResult) {
	result = &domain.AggregationValidationResult{
		DirectPageTotal:   len(directPage),
		IndirectPageTotal: len(indirectPage),
		DetailedViewTotal: len(detailed),
		Mismatches:        make([]domain.AggregationMismatch, 0),
		Drift:             make([]domain.AggregationMismatch, 0),
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			v.logger.LogSystemError(err, "validateAggregation")
			result.Mismatches = append(result.Mismatches, domain.AggregationMismatch{
				Department: domain.AllDepartments,
				Reason:     fmt.Sprintf("aggregation check aborted: %v", err),
			})
		}
		v.finish(result)
	}()

	detailedDirect := make(breakdown)
	detailedIndirect := make(breakdown)
	for _, p := range detailed {
		class, ok := v.classify(p)
		if !ok {
			continue
		}
		result.Expected.Add(class)
		if class == domain.ClassificationDirect {
			detailedDirect.add(p)
		} else {
			detailedIndirect.add(p)
		}
	}

	expectedIndirect := result.Expected.Indirect + result.Expected.OH
	if len(directPage) != result.Expected.Direct {
		v.add(result, domain.AggregationMismatch{
			Department:      domain.AllDepartments,
			DetailedCount:   result.Expected.Direct,
			AggregatedCount: len(directPage),
			Classification:  domain.ClassificationDirect,
			Reason: fmt.Sprintf("direct page lists %d positions but the detailed view has %d direct",
				len(directPage), result.Expected.Direct),
		})
	}
	if len(indirectPage) != expectedIndirect {
		v.add(result, domain.AggregationMismatch{
			Department:      domain.AllDepartments,
			DetailedCount:   expectedIndirect,
			AggregatedCount: len(indirectPage),
			Classification:  domain.ClassificationIndirect,
			Reason: fmt.Sprintf("indirect page lists %d positions but the detailed view has %d indirect and OH",
				len(indirectPage), expectedIndirect),
		})
	}

	pageDirect := make(breakdown)
	for _, p := range directPage {
		pageDirect.add(p)
		class, ok := v.classify(p)
		if !ok || class == domain.ClassificationDirect {
			continue
		}
		key := breakdownKey{department: domain.NormalizeDepartment(p.Department), level: p.Level}
		v.add(result, domain.AggregationMismatch{
			Department:      key.department,
			Level:           p.Level,
			DetailedCount:   detailedDirect[key],
			AggregatedCount: 1,
			Classification:  class,
			Reason:          fmt.Sprintf("%s is %s but appears on the direct page", p.Label(), class),
		})
	}

	pageIndirect := make(breakdown)
	for _, p := range indirectPage {
		pageIndirect.add(p)
		class, ok := v.classify(p)
		if !ok {
			continue
		}
		if class == domain.ClassificationOH {
			result.OHPageTotal++
		}
		if class == domain.ClassificationIndirect || class == domain.ClassificationOH {
			continue
		}
		key := breakdownKey{department: domain.NormalizeDepartment(p.Department), level: p.Level}
		v.add(result, domain.AggregationMismatch{
			Department:      key.department,
			Level:           p.Level,
			DetailedCount:   detailedIndirect[key],
			AggregatedCount: 1,
			Classification:  class,
			Reason:          fmt.Sprintf("%s is %s but appears on the indirect page", p.Label(), class),
		})
	}

	v.compareBreakdown(result, "direct", domain.ClassificationDirect, detailedDirect, pageDirect)
	v.compareBreakdown(result, "indirect", domain.ClassificationIndirect, detailedIndirect, pageIndirect)

	if len(detailed) != len(directPage)+len(indirectPage) {
		v.add(result, domain.AggregationMismatch{
			Department:      domain.AllDepartments,
			DetailedCount:   len(detailed),
			AggregatedCount: len(directPage) + len(indirectPage),
			Reason: fmt.Sprintf("detailed view has %d positions but the aggregation pages list %d (%d direct + %d indirect)",
				len(detailed), len(directPage)+len(indirectPage), len(directPage), len(indirectPage)),
		})
	}

	return result
}

// compareBreakdown records department and level combinations whose page
// count differs from the detailed view as drift
func (v *AggregationValidator) compareBreakdown(result *domain.AggregationValidationResult, page string, class domain.Classification, detailed, onPage breakdown) {
	keys := make([]breakdownKey, 0, len(detailed)+len(onPage))
	seen := make(map[breakdownKey]bool)
	for _, b := range []breakdown{detailed, onPage} {
		for k := range b {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].department != keys[j].department {
			return keys[i].department < keys[j].department
		}
		return keys[i].level < keys[j].level
	})

	for _, k := range keys {
		if detailed[k] == onPage[k] {
			continue
		}
		result.Drift = append(result.Drift, domain.AggregationMismatch{
			Department:      k.department,
			Level:           k.level,
			DetailedCount:   detailed[k],
			AggregatedCount: onPage[k],
			Classification:  class,
			Reason: fmt.Sprintf("%s page lists %d %s %s positions, detailed view has %d",
				page, onPage[k], k.department, k.level, detailed[k]),
		})
	}
}

func (v *AggregationValidator) classify(p domain.Position) (class domain.Classification, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.LogSystemError(fmt.Errorf("%v", r), "classify position "+p.ID)
			class, ok = "", false
		}
	}()
	return v.classifier.ClassifyPosition(p), true
}

func (v *AggregationValidator) add(result *domain.AggregationValidationResult, m domain.AggregationMismatch) {
	result.Mismatches = append(result.Mismatches, m)
	v.eventBus.Publish(Event{Type: EventAggregationMismatch, Payload: m})
}

func (v *AggregationValidator) finish(result *domain.AggregationValidationResult) {
	result.IsValid = len(result.Mismatches) == 0

	details := map[string]any{
		"detailed":   result.DetailedViewTotal,
		"direct":     result.DirectPageTotal,
		"indirect":   result.IndirectPageTotal,
		"mismatches": len(result.Mismatches),
		"drift":      len(result.Drift),
	}
	if result.IsValid && len(result.Drift) > 0 {
		v.logger.LogWarning("aggregation page breakdown drifts from detailed view", details)
	} else if result.IsValid {
		v.logger.LogInfo("aggregation pages match detailed view", details)
	} else {
		v.logger.LogWarning("aggregation mismatches found", details)
	}
	v.eventBus.Publish(Event{Type: EventAggregationValidated, Payload: details})
}
