package loader

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"workforce/internal/classifier"
	"workforce/internal/domain"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownOperator is returned for conditions with an unsupported operator
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrUnknownField is returned for conditions on a field positions do not have
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownClassification is returned for classifications outside direct, indirect, OH
	ErrUnknownClassification = errors.New("unknown classification")
	// ErrUnknownLevel is returned for level rules on a level outside the level vocabulary
	ErrUnknownLevel = errors.New("unknown level")
)

// RuleSetYAML represents the rule file structure
type RuleSetYAML struct {
	Version     string                        `yaml:"version,omitempty"`
	Departments map[string]*DepartmentRuleYAML `yaml:"departments,omitempty"`
	Levels      map[string]string             `yaml:"levels,omitempty"`
	Processes   map[string]string             `yaml:"processes,omitempty"`
	Exceptions  []ExceptionRuleYAML           `yaml:"exceptions,omitempty"`
}

// DepartmentRuleYAML represents a department rule
type DepartmentRuleYAML struct {
	Default    string          `yaml:"default"`
	Conditions []ConditionYAML `yaml:"conditions,omitempty"`
}

// ConditionYAML represents a department condition
type ConditionYAML struct {
	Field          string `yaml:"field"`
	Operator       string `yaml:"operator"`
	Value          string `yaml:"value"`
	Classification string `yaml:"classification"`
}

// ExceptionRuleYAML represents an exception rule
type ExceptionRuleYAML struct {
	Name           string     `yaml:"name"`
	Priority       int        `yaml:"priority"`
	Classification string     `yaml:"classification"`
	Reason         string     `yaml:"reason,omitempty"`
	Match          *MatchYAML `yaml:"match,omitempty"`
	Custom         bool       `yaml:"custom,omitempty"` // predicate defined in code; skipped on load
}

// MatchYAML represents a declarative exception predicate
type MatchYAML struct {
	All []FieldMatchYAML `yaml:"all,omitempty"`
	Any []FieldMatchYAML `yaml:"any,omitempty"`
}

// FieldMatchYAML matches one or more fields. Field is shorthand for a
// single-element Fields.
type FieldMatchYAML struct {
	Field    string   `yaml:"field,omitempty"`
	Fields   []string `yaml:"fields,omitempty"`
	Operator string   `yaml:"operator"`
	Value    string   `yaml:"value"`
}

// LoadYAML loads rules from a YAML file
func LoadYAML(path string) (classifier.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return classifier.Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	return ParseYAML(data)
}

// ParseYAML parses rules from YAML bytes
func ParseYAML(data []byte) (classifier.Rules, error) {
	var y RuleSetYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return classifier.Rules{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	return convertYAMLToRules(&y)
}

func convertYAMLToRules(y *RuleSetYAML) (classifier.Rules, error) {
	rules := classifier.Rules{
		Departments: make(map[string]classifier.DepartmentRule, len(y.Departments)),
		Levels:      make(map[domain.Level]domain.Classification, len(y.Levels)),
		Processes:   make(map[string]domain.Classification, len(y.Processes)),
	}

	for name, d := range y.Departments {
		if d == nil {
			return rules, fmt.Errorf("department %q: empty rule", name)
		}
		def, err := parseClassification(d.Default)
		if err != nil {
			return rules, fmt.Errorf("department %q: %w", name, err)
		}
		rule := classifier.DepartmentRule{Default: def}
		for i, c := range d.Conditions {
			cond, err := convertCondition(c)
			if err != nil {
				return rules, fmt.Errorf("department %q condition %d: %w", name, i, err)
			}
			rule.Conditions = append(rule.Conditions, cond)
		}
		rules.Departments[name] = rule
	}

	for level, c := range y.Levels {
		class, err := parseClassification(c)
		if err != nil {
			return rules, fmt.Errorf("level %q: %w", level, err)
		}
		known, err := parseLevel(level)
		if err != nil {
			return rules, err
		}
		rules.Levels[known] = class
	}

	for process, c := range y.Processes {
		class, err := parseClassification(c)
		if err != nil {
			return rules, fmt.Errorf("process %q: %w", process, err)
		}
		rules.Processes[process] = class
	}

	for i, e := range y.Exceptions {
		if e.Custom && e.Match == nil {
			continue
		}
		ex, err := convertException(e)
		if err != nil {
			return rules, fmt.Errorf("exception %d (%s): %w", i, e.Name, err)
		}
		rules.Exceptions = append(rules.Exceptions, ex)
	}

	return rules, nil
}

// parseLevel resolves a level key case-insensitively against the level vocabulary
func parseLevel(s string) (domain.Level, error) {
	trimmed := strings.TrimSpace(s)
	for _, l := range domain.Levels {
		if strings.EqualFold(string(l), trimmed) {
			return l, nil
		}
	}
	return "", fmt.Errorf("level %q: %w", s, ErrUnknownLevel)
}

func convertCondition(c ConditionYAML) (classifier.Condition, error) {
	if err := checkField(c.Field); err != nil {
		return classifier.Condition{}, err
	}
	op, err := parseOperator(c.Operator)
	if err != nil {
		return classifier.Condition{}, err
	}
	class, err := parseClassification(c.Classification)
	if err != nil {
		return classifier.Condition{}, err
	}
	return classifier.Condition{
		Field:          c.Field,
		Operator:       op,
		Value:          c.Value,
		Classification: class,
	}, nil
}

func convertException(e ExceptionRuleYAML) (classifier.ExceptionRule, error) {
	if e.Name == "" {
		return classifier.ExceptionRule{}, errors.New("name is required")
	}
	if e.Match == nil {
		return classifier.ExceptionRule{}, errors.New("match is required")
	}
	class, err := parseClassification(e.Classification)
	if err != nil {
		return classifier.ExceptionRule{}, err
	}

	match := &classifier.Match{}
	for _, fm := range e.Match.All {
		m, err := convertFieldMatch(fm)
		if err != nil {
			return classifier.ExceptionRule{}, err
		}
		match.All = append(match.All, m)
	}
	for _, fm := range e.Match.Any {
		m, err := convertFieldMatch(fm)
		if err != nil {
			return classifier.ExceptionRule{}, err
		}
		match.Any = append(match.Any, m)
	}
	if len(match.All) == 0 && len(match.Any) == 0 {
		return classifier.ExceptionRule{}, errors.New("match has no conditions")
	}

	return classifier.ExceptionRule{
		Name:           e.Name,
		When:           match,
		Classification: class,
		Priority:       e.Priority,
		Reason:         e.Reason,
	}, nil
}

func convertFieldMatch(fm FieldMatchYAML) (classifier.FieldMatch, error) {
	fields := fm.Fields
	if fm.Field != "" {
		fields = append([]string{fm.Field}, fields...)
	}
	if len(fields) == 0 {
		return classifier.FieldMatch{}, fmt.Errorf("%w: no field given", ErrUnknownField)
	}
	for _, f := range fields {
		if err := checkField(f); err != nil {
			return classifier.FieldMatch{}, err
		}
	}
	op, err := parseOperator(fm.Operator)
	if err != nil {
		return classifier.FieldMatch{}, err
	}
	return classifier.FieldMatch{Fields: fields, Operator: op, Value: fm.Value}, nil
}

func checkField(name string) error {
	if _, ok := (domain.Position{}).Field(name); !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	return nil
}

func parseOperator(s string) (classifier.Operator, error) {
	for _, op := range classifier.Operators {
		if strings.EqualFold(string(op), strings.TrimSpace(s)) {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownOperator, s)
}

func parseClassification(s string) (domain.Classification, error) {
	class, ok := domain.ParseClassification(s)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownClassification, s)
	}
	return class, nil
}

// ExportYAML exports a rule set to YAML. Exceptions defined by a code
// predicate are written with custom: true and no match.
func ExportYAML(rs *classifier.RuleSet) ([]byte, error) {
	rules := rs.Rules()
	y := RuleSetYAML{
		Version:     "1",
		Departments: make(map[string]*DepartmentRuleYAML, len(rules.Departments)),
		Levels:      make(map[string]string, len(rules.Levels)),
		Processes:   make(map[string]string, len(rules.Processes)),
	}

	for name, d := range rules.Departments {
		dy := &DepartmentRuleYAML{Default: string(d.Default)}
		for _, c := range d.Conditions {
			dy.Conditions = append(dy.Conditions, ConditionYAML{
				Field:          c.Field,
				Operator:       string(c.Operator),
				Value:          c.Value,
				Classification: string(c.Classification),
			})
		}
		y.Departments[name] = dy
	}
	for level, class := range rules.Levels {
		y.Levels[string(level)] = string(class)
	}
	for process, class := range rules.Processes {
		y.Processes[process] = string(class)
	}

	for _, e := range rules.Exceptions {
		ey := ExceptionRuleYAML{
			Name:           e.Name,
			Priority:       e.Priority,
			Classification: string(e.Classification),
			Reason:         e.Reason,
		}
		switch {
		case e.Predicate != nil:
			ey.Custom = true
		case e.When != nil:
			ey.Match = &MatchYAML{
				All: exportFieldMatches(e.When.All),
				Any: exportFieldMatches(e.When.Any),
			}
		}
		y.Exceptions = append(y.Exceptions, ey)
	}

	data, err := yaml.Marshal(&y)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rules YAML: %w", err)
	}
	return data, nil
}

func exportFieldMatches(in []classifier.FieldMatch) []FieldMatchYAML {
	out := make([]FieldMatchYAML, 0, len(in))
	for _, fm := range in {
		out = append(out, FieldMatchYAML{
			Fields:   append([]string(nil), fm.Fields...),
			Operator: string(fm.Operator),
			Value:    fm.Value,
		})
	}
	return out
}
