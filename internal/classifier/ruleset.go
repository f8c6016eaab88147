package classifier

import (
	"sort"
	"strings"

	"workforce/internal/domain"
)

// Operator is a string comparison used by rule conditions.
// All operators compare case-insensitively.
type Operator string

const (
	OpEquals     Operator = "equals"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
)

// Operators lists the supported operators
var Operators = []Operator{OpEquals, OpContains, OpStartsWith, OpEndsWith}

// IsValid returns true for supported operators
func (o Operator) IsValid() bool {
	for _, op := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Apply compares actual against want. An empty want only matches through
// equals, so a blank rule value can never match every position.
func (o Operator) Apply(actual, want string) bool {
	a := strings.ToLower(strings.TrimSpace(actual))
	w := strings.ToLower(strings.TrimSpace(want))

	if o == OpEquals {
		return a == w
	}
	if w == "" {
		return false
	}

	switch o {
	case OpContains:
		return strings.Contains(a, w)
	case OpStartsWith:
		return strings.HasPrefix(a, w)
	case OpEndsWith:
		return strings.HasSuffix(a, w)
	}
	return false
}

// Condition overrides a department's default classification when Field
// satisfies Operator against Value
type Condition struct {
	Field          string
	Operator       Operator
	Value          string
	Classification domain.Classification
}

func (c Condition) matches(p domain.Position) bool {
	return matchField(p, c.Field, c.Operator, c.Value)
}

// DepartmentRule classifies a department: the first matching condition wins,
// otherwise Default applies
type DepartmentRule struct {
	Default    domain.Classification
	Conditions []Condition
}

// FieldMatch matches when any of Fields satisfies Operator against Value
type FieldMatch struct {
	Fields   []string
	Operator Operator
	Value    string
}

func (f FieldMatch) matches(p domain.Position) bool {
	for _, field := range f.Fields {
		if matchField(p, field, f.Operator, f.Value) {
			return true
		}
	}
	return false
}

// Match is a declarative exception predicate. Every All entry must match,
// and when Any is non-empty at least one of its entries must match.
// An empty Match never matches.
type Match struct {
	All []FieldMatch
	Any []FieldMatch
}

// Evaluate reports whether the position satisfies the match
func (m Match) Evaluate(p domain.Position) bool {
	if len(m.All) == 0 && len(m.Any) == 0 {
		return false
	}
	for _, fm := range m.All {
		if !fm.matches(p) {
			return false
		}
	}
	if len(m.Any) == 0 {
		return true
	}
	for _, fm := range m.Any {
		if fm.matches(p) {
			return true
		}
	}
	return false
}

// ExceptionRule overrides every other tier for the positions it matches.
// Predicate takes precedence over When when both are set.
type ExceptionRule struct {
	Name           string
	When           *Match
	Predicate      func(domain.Position) bool
	Classification domain.Classification
	Priority       int
	Reason         string
}

func (r ExceptionRule) matches(p domain.Position) bool {
	if r.Predicate != nil {
		return r.Predicate(p)
	}
	if r.When != nil {
		return r.When.Evaluate(p)
	}
	return false
}

// Rules is the plain-data form of a rule set, used to build and patch RuleSets
type Rules struct {
	Departments map[string]DepartmentRule
	Levels      map[domain.Level]domain.Classification
	Processes   map[string]domain.Classification
	Exceptions  []ExceptionRule
}

// RuleSet is an immutable, evaluation-ready rule set. Build one with
// NewRuleSet; derive changed copies with Merge.
type RuleSet struct {
	departments map[string]DepartmentRule
	deptIndex   map[string]string // lower-case name -> canonical key
	levels      map[domain.Level]domain.Classification
	processes   map[string]domain.Classification // keyed by lower-case process type
	processKeys map[string]string                // lower-case -> declared name
	declared    []ExceptionRule                  // declaration order
	exceptions  []ExceptionRule                  // priority desc, declaration order on ties
}

// NewRuleSet copies r into a new RuleSet. Department names are normalized and
// exceptions are ordered by priority once, here.
func NewRuleSet(r Rules) *RuleSet {
	rs := &RuleSet{
		departments: make(map[string]DepartmentRule, len(r.Departments)),
		deptIndex:   make(map[string]string, len(r.Departments)),
		levels:      make(map[domain.Level]domain.Classification, len(r.Levels)),
		processes:   make(map[string]domain.Classification, len(r.Processes)),
		processKeys: make(map[string]string, len(r.Processes)),
		declared:    make([]ExceptionRule, len(r.Exceptions)),
		exceptions:  make([]ExceptionRule, len(r.Exceptions)),
	}

	for name, rule := range r.Departments {
		key := domain.NormalizeDepartment(name)
		rs.departments[key] = copyDepartmentRule(rule)
		rs.deptIndex[strings.ToLower(key)] = key
	}
	for level, class := range r.Levels {
		rs.levels[level] = class
	}
	for name, class := range r.Processes {
		lower := strings.ToLower(strings.TrimSpace(name))
		rs.processes[lower] = class
		rs.processKeys[lower] = name
	}

	copy(rs.declared, r.Exceptions)
	copy(rs.exceptions, r.Exceptions)
	sort.SliceStable(rs.exceptions, func(i, j int) bool {
		return rs.exceptions[i].Priority > rs.exceptions[j].Priority
	})

	return rs
}

// Rules returns a deep copy of the rule set's data. Exceptions are returned
// in declaration order.
func (rs *RuleSet) Rules() Rules {
	out := Rules{
		Departments: make(map[string]DepartmentRule, len(rs.departments)),
		Levels:      make(map[domain.Level]domain.Classification, len(rs.levels)),
		Processes:   make(map[string]domain.Classification, len(rs.processes)),
		Exceptions:  make([]ExceptionRule, len(rs.declared)),
	}
	for name, rule := range rs.departments {
		out.Departments[name] = copyDepartmentRule(rule)
	}
	for level, class := range rs.levels {
		out.Levels[level] = class
	}
	for lower, class := range rs.processes {
		out.Processes[rs.processKeys[lower]] = class
	}
	copy(out.Exceptions, rs.declared)
	return out
}

// Merge returns a new RuleSet with patch applied on top of rs. Map entries in
// patch replace entries with the same key; exceptions replace existing
// exceptions of the same name and are otherwise appended. rs is unchanged.
func (rs *RuleSet) Merge(patch Rules) *RuleSet {
	base := rs.Rules()

	for name, rule := range patch.Departments {
		base.Departments[domain.NormalizeDepartment(name)] = rule
	}
	for level, class := range patch.Levels {
		base.Levels[level] = class
	}
	for name, class := range patch.Processes {
		lower := strings.ToLower(strings.TrimSpace(name))
		for existing := range base.Processes {
			if strings.ToLower(strings.TrimSpace(existing)) == lower {
				delete(base.Processes, existing)
			}
		}
		base.Processes[name] = class
	}

	byName := make(map[string]int, len(base.Exceptions))
	for i, ex := range base.Exceptions {
		if ex.Name != "" {
			byName[ex.Name] = i
		}
	}
	for _, ex := range patch.Exceptions {
		if i, ok := byName[ex.Name]; ok && ex.Name != "" {
			base.Exceptions[i] = ex
			continue
		}
		base.Exceptions = append(base.Exceptions, ex)
	}

	return NewRuleSet(base)
}

// Department looks up the rule for a normalized department name
func (rs *RuleSet) Department(name string) (DepartmentRule, bool) {
	if rule, ok := rs.departments[name]; ok {
		return rule, true
	}
	if key, ok := rs.deptIndex[strings.ToLower(strings.TrimSpace(name))]; ok {
		return rs.departments[key], true
	}
	return DepartmentRule{}, false
}

// Level looks up the unconditional rule for a level
func (rs *RuleSet) Level(level domain.Level) (domain.Classification, bool) {
	class, ok := rs.levels[level]
	return class, ok
}

// Process looks up the rule for a process type
func (rs *RuleSet) Process(processType string) (domain.Classification, bool) {
	class, ok := rs.processes[strings.ToLower(strings.TrimSpace(processType))]
	return class, ok
}

// Exceptions returns the exception rules in evaluation order
func (rs *RuleSet) Exceptions() []ExceptionRule {
	out := make([]ExceptionRule, len(rs.exceptions))
	copy(out, rs.exceptions)
	return out
}

// DepartmentNames returns the departments with explicit rules, sorted
func (rs *RuleSet) DepartmentNames() []string {
	names := make([]string, 0, len(rs.departments))
	for name := range rs.departments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyDepartmentRule(rule DepartmentRule) DepartmentRule {
	conds := make([]Condition, len(rule.Conditions))
	copy(conds, rule.Conditions)
	return DepartmentRule{Default: rule.Default, Conditions: conds}
}

// matchField applies op to a position field. The department field is compared
// in normalized form on both sides.
func matchField(p domain.Position, field string, op Operator, value string) bool {
	actual, ok := p.Field(field)
	if !ok {
		return false
	}
	if strings.EqualFold(field, "department") {
		actual = domain.NormalizeDepartment(actual)
		value = domain.NormalizeDepartment(value)
	}
	return op.Apply(actual, value)
}
