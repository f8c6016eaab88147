package classifier

import "workforce/internal/domain"

// AdministrativeDepartments are treated as overhead by the fallback heuristic
var AdministrativeDepartments = []string{
	"Admin",
	"Admin Team",
	"Administration",
	"General Affairs",
	"HR",
	"Human Resources",
	"Finance",
	"Accounting",
	"IT",
	"Purchasing",
	"Legal",
	"EHS",
	"Compliance",
	"Plant Management",
}

// SeparatedProcessDepartments run a cross-cutting process outside the main
// production line; the fallback heuristic classifies them as indirect
var SeparatedProcessDepartments = []string{
	"No-sew",
	"HF Welding",
	"Separated",
	"Outsole Degreasing",
	"Embroidery",
	"Printing",
}

// lineDepartment is a production line department: TM is direct labor,
// every other level supports the line
func lineDepartment() DepartmentRule {
	return DepartmentRule{
		Default: domain.ClassificationIndirect,
		Conditions: []Condition{
			{Field: "level", Operator: OpEquals, Value: string(domain.LevelTM), Classification: domain.ClassificationDirect},
		},
	}
}

func flat(class domain.Classification) DepartmentRule {
	return DepartmentRule{Default: class}
}

// tmContains matches TM positions of a department whose subtitle or title contains needle
func tmContains(department, needle string) *Match {
	return &Match{
		All: []FieldMatch{
			{Fields: []string{"department"}, Operator: OpEquals, Value: department},
			{Fields: []string{"level"}, Operator: OpEquals, Value: string(domain.LevelTM)},
		},
		Any: []FieldMatch{
			{Fields: []string{"subtitle", "title"}, Operator: OpContains, Value: needle},
		},
	}
}

// DefaultRules returns the plant's initial rule data
func DefaultRules() Rules {
	return Rules{
		Departments: map[string]DepartmentRule{
			"Plant Production": lineDepartment(),
			"Cutting":          lineDepartment(),
			"Stitching":        lineDepartment(),
			"Assembly":         lineDepartment(),
			"Stockfit":         lineDepartment(),
			"Outsole": {
				Default: domain.ClassificationIndirect,
				Conditions: []Condition{
					{Field: "subtitle", Operator: OpContains, Value: "degreasing", Classification: domain.ClassificationIndirect},
					{Field: "level", Operator: OpEquals, Value: string(domain.LevelTM), Classification: domain.ClassificationDirect},
				},
			},
			"CE": flat(domain.ClassificationOH),
			"Quality": {
				Default: domain.ClassificationIndirect,
				Conditions: []Condition{
					{Field: "level", Operator: OpEquals, Value: string(domain.LevelGL), Classification: domain.ClassificationOH},
				},
			},
			"FG WH":         flat(domain.ClassificationIndirect),
			"Raw Material":  flat(domain.ClassificationIndirect),
			"Sub Material":  flat(domain.ClassificationOH),
			"ACC Market":    flat(domain.ClassificationIndirect),
			"P&L Market":    flat(domain.ClassificationIndirect),
			"Bottom Market": flat(domain.ClassificationIndirect),
			"IE":            flat(domain.ClassificationIndirect),
			"Planning":      flat(domain.ClassificationIndirect),
			"Maintenance":   flat(domain.ClassificationIndirect),
			"No-sew":        flat(domain.ClassificationIndirect),
			"HF Welding":    flat(domain.ClassificationIndirect),
			"Admin Team":    flat(domain.ClassificationOH),
			"HR":            flat(domain.ClassificationOH),
			"Finance":       flat(domain.ClassificationOH),
			"EHS":           flat(domain.ClassificationOH),
		},
		Levels: map[domain.Level]domain.Classification{
			domain.LevelPM:   domain.ClassificationOH,
			domain.LevelLM:   domain.ClassificationOH,
			domain.LevelVSM:  domain.ClassificationOH,
			domain.LevelAVSM: domain.ClassificationOH,
		},
		Processes: map[string]domain.Classification{
			"No-sew":     domain.ClassificationIndirect,
			"HF Welding": domain.ClassificationIndirect,
		},
		Exceptions: []ExceptionRule{
			{
				Name:           "ce-mixing",
				When:           tmContains("CE", "Mixing"),
				Classification: domain.ClassificationDirect,
				Priority:       100,
				Reason:         "CE mixing operators work the production line",
			},
			{
				Name:           "fgwh-shipping",
				When:           tmContains("FG WH", "Shipping"),
				Classification: domain.ClassificationOH,
				Priority:       100,
				Reason:         "FG WH shipping team is booked as overhead",
			},
			{
				Name:           "production-no-sew",
				When:           tmContains("Plant Production", "no-sew"),
				Classification: domain.ClassificationIndirect,
				Priority:       90,
				Reason:         "no-sew is a separated process supporting the line",
			},
			{
				Name:           "production-hf-welding",
				When:           tmContains("Plant Production", "HF Welding"),
				Classification: domain.ClassificationIndirect,
				Priority:       90,
				Reason:         "HF welding is a separated process supporting the line",
			},
		},
	}
}

// DefaultRuleSet returns the initial rule set
func DefaultRuleSet() *RuleSet {
	return NewRuleSet(DefaultRules())
}
