package classifier

import (
	"fmt"
	"sync/atomic"

	"workforce/internal/domain"
)

// Tier names the stage of the decision that produced a classification
type Tier string

const (
	TierException         Tier = "exception"
	TierLevel             Tier = "level"
	TierProcess           Tier = "process"
	TierDepartment        Tier = "department"         // a department condition matched
	TierDepartmentDefault Tier = "department_default" // no condition matched
	TierFallback          Tier = "fallback"
)

// Decision is a classification together with where it came from
type Decision struct {
	Classification domain.Classification `json:"classification"`
	Tier           Tier                  `json:"tier"`
	Rule           string                `json:"rule,omitempty"`
	Reason         string                `json:"reason"`
	Recovered      bool                  `json:"recovered,omitempty"` // a panic was absorbed on the way
}

// Engine classifies positions against a RuleSet. The rule set is held behind
// an atomic pointer and replaced wholesale, so an Engine is safe for
// concurrent use.
type Engine struct {
	rules atomic.Pointer[RuleSet]
}

// NewEngine creates an engine. A nil rule set selects DefaultRuleSet.
func NewEngine(rs *RuleSet) *Engine {
	if rs == nil {
		rs = DefaultRuleSet()
	}
	e := &Engine{}
	e.rules.Store(rs)
	return e
}

// Rules returns the current rule set
func (e *Engine) Rules() *RuleSet {
	return e.rules.Load()
}

// Replace swaps in a new rule set. A nil rule set is ignored.
func (e *Engine) Replace(rs *RuleSet) {
	if rs == nil {
		return
	}
	e.rules.Store(rs)
}

// Update merges patch into the current rule set and swaps the result in
func (e *Engine) Update(patch Rules) *RuleSet {
	for {
		current := e.rules.Load()
		next := current.Merge(patch)
		if e.rules.CompareAndSwap(current, next) {
			return next
		}
	}
}

// KnownDepartments returns the departments with explicit rules
func (e *Engine) KnownDepartments() []string {
	return e.rules.Load().DepartmentNames()
}

// Classify classifies a position given as loose fields
func (e *Engine) Classify(department string, level domain.Level, processType, subtitle, title string) domain.Classification {
	return e.ClassifyPosition(domain.Position{
		Department:  department,
		Level:       level,
		ProcessType: processType,
		Subtitle:    subtitle,
		Title:       title,
	})
}

// ClassifyPosition classifies a position. It always returns a valid
// classification and never panics.
func (e *Engine) ClassifyPosition(p domain.Position) domain.Classification {
	return e.Explain(p).Classification
}

// Explain classifies a position and reports which tier and rule decided.
// Tiers are tried in order: exception, level, process, department, fallback.
// A tier that panics is skipped.
func (e *Engine) Explain(p domain.Position) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			d = Decision{
				Classification: domain.ClassificationIndirect,
				Tier:           TierFallback,
				Reason:         fmt.Sprintf("classification failed: %v", r),
				Recovered:      true,
			}
		}
	}()

	p = p.Normalized()
	rs := e.rules.Load()
	recovered := false

	tiers := []func(*RuleSet, domain.Position) (Decision, bool){
		exceptionTier,
		levelTier,
		processTier,
		departmentTier,
	}
	for _, tier := range tiers {
		decision, ok, panicked := tryTier(tier, rs, p)
		recovered = recovered || panicked
		if ok && decision.Classification.IsValid() {
			decision.Recovered = recovered
			return decision
		}
	}

	decision := fallback(p)
	decision.Recovered = recovered
	return decision
}

func tryTier(tier func(*RuleSet, domain.Position) (Decision, bool), rs *RuleSet, p domain.Position) (d Decision, ok bool, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			d, ok, panicked = Decision{}, false, true
		}
	}()
	d, ok = tier(rs, p)
	return d, ok, false
}

// exceptionTier returns the first matching exception. Exceptions are stored
// by priority with declaration order on ties, so the first match is the
// highest-priority, earliest-declared one.
func exceptionTier(rs *RuleSet, p domain.Position) (Decision, bool) {
	for _, ex := range rs.exceptions {
		if !safeMatch(ex.matches, p) || !ex.Classification.IsValid() {
			continue
		}
		reason := ex.Reason
		if reason == "" {
			reason = fmt.Sprintf("exception %s", ex.Name)
		}
		return Decision{
			Classification: ex.Classification,
			Tier:           TierException,
			Rule:           ex.Name,
			Reason:         reason,
		}, true
	}
	return Decision{}, false
}

func levelTier(rs *RuleSet, p domain.Position) (Decision, bool) {
	class, ok := rs.Level(p.Level)
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Classification: class,
		Tier:           TierLevel,
		Rule:           string(p.Level),
		Reason:         fmt.Sprintf("level %s is always %s", p.Level, class),
	}, true
}

func processTier(rs *RuleSet, p domain.Position) (Decision, bool) {
	if p.ProcessType == "" {
		return Decision{}, false
	}
	class, ok := rs.Process(p.ProcessType)
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Classification: class,
		Tier:           TierProcess,
		Rule:           p.ProcessType,
		Reason:         fmt.Sprintf("process %s is %s", p.ProcessType, class),
	}, true
}

func departmentTier(rs *RuleSet, p domain.Position) (Decision, bool) {
	rule, ok := rs.Department(p.Department)
	if !ok {
		return Decision{}, false
	}

	for _, cond := range rule.Conditions {
		if !safeMatch(cond.matches, p) || !cond.Classification.IsValid() {
			continue
		}
		return Decision{
			Classification: cond.Classification,
			Tier:           TierDepartment,
			Rule:           p.Department,
			Reason:         fmt.Sprintf("%s: %s %s %q", p.Department, cond.Field, cond.Operator, cond.Value),
		}, true
	}

	return Decision{
		Classification: rule.Default,
		Tier:           TierDepartmentDefault,
		Rule:           p.Department,
		Reason:         fmt.Sprintf("%s defaults to %s", p.Department, rule.Default),
	}, true
}

// safeMatch evaluates a predicate, treating a panic as non-match
func safeMatch(pred func(domain.Position) bool, p domain.Position) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()
	return pred(p)
}
