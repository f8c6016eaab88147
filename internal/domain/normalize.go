package domain

import "strings"

// DepartmentAliases maps legacy and shorthand department names to their canonical name
var DepartmentAliases = map[string]string{
	"RawMaterial":  "Raw Material",
	"FGWH":         "FG WH",
	"ACC":          "ACC Market",
	"PL":           "P&L Market",
	"SubMaterial":  "Sub Material",
	"BottomMarket": "Bottom Market",
}

// NormalizeDepartment canonicalizes a department label.
// Only the first line is kept ("Plant Production\n(Outsole degreasing)" is
// "Plant Production"), then known aliases are replaced. Empty input is
// returned unchanged.
func NormalizeDepartment(raw string) string {
	if raw == "" {
		return raw
	}

	first := raw
	if i := strings.IndexAny(raw, "\r\n"); i >= 0 {
		first = raw[:i]
	}
	first = strings.TrimSpace(first)

	if canonical, ok := DepartmentAliases[first]; ok {
		return canonical
	}
	return first
}
