package classifier

import (
	"strings"

	"workforce/internal/domain"
)

// fallback classifies positions no explicit rule covers, using keyword
// heuristics on the department name. It is total.
func fallback(p domain.Position) Decision {
	class, reason := fallbackClassification(p)
	return Decision{
		Classification: class,
		Tier:           TierFallback,
		Reason:         reason,
	}
}

func fallbackClassification(p domain.Position) (domain.Classification, string) {
	dept := p.Department
	lower := strings.ToLower(dept)

	if p.Level.IsLeadership() {
		return domain.ClassificationOH, "leadership level"
	}
	if containsFold(AdministrativeDepartments, dept) {
		return domain.ClassificationOH, "administrative department"
	}
	if strings.Contains(lower, "production") {
		if p.Level == domain.LevelTM {
			return domain.ClassificationDirect, "production team member"
		}
		return domain.ClassificationIndirect, "production support"
	}
	if strings.Contains(lower, "quality") {
		if p.Level == domain.LevelGL {
			return domain.ClassificationOH, "quality group leader"
		}
		return domain.ClassificationIndirect, "quality staff"
	}
	if strings.EqualFold(dept, "CE") {
		if mentions(p, "mixing") {
			return domain.ClassificationDirect, "CE mixing"
		}
		return domain.ClassificationOH, "CE staff"
	}
	if strings.Contains(lower, "market") {
		return domain.ClassificationIndirect, "market department"
	}
	if strings.Contains(lower, "material") {
		if dept == "Sub Material" {
			return domain.ClassificationOH, "sub material"
		}
		return domain.ClassificationIndirect, "material department"
	}
	if containsFold(SeparatedProcessDepartments, dept) {
		return domain.ClassificationIndirect, "separated process"
	}

	switch p.Level {
	case domain.LevelGL, domain.LevelTL, domain.LevelTM:
		return domain.ClassificationIndirect, "default for level " + string(p.Level)
	case domain.LevelDEPT:
		return domain.ClassificationOH, "department placeholder"
	}
	return domain.ClassificationIndirect, "default"
}

func mentions(p domain.Position, needle string) bool {
	return strings.Contains(strings.ToLower(p.Subtitle), needle) ||
		strings.Contains(strings.ToLower(p.Title), needle)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
