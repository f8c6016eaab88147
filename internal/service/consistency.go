package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"workforce/internal/domain"
	"workforce/internal/logging"
)

// ConsistencyValidator checks that a position is classified the same way in
// every view that shows it. Views register their positions under a source
// name; ValidateConsistency regroups them by structural identity.
type ConsistencyValidator struct {
	classifier Classifier
	logger     logging.Logger
	eventBus   *EventBus
	now        func() time.Time
	newID      func() string

	mu       sync.Mutex
	registry map[string][]domain.CrossPagePosition
}

// NewConsistencyValidator creates a validator with an empty registry.
// logger and eventBus may be nil.
func NewConsistencyValidator(classifier Classifier, logger logging.Logger, eventBus *EventBus) *ConsistencyValidator {
	return &ConsistencyValidator{
		classifier: classifier,
		logger:     logging.Safe(logger),
		eventBus:   eventBus,
		now:        time.Now,
		newID:      uuid.NewString,
		registry:   make(map[string][]domain.CrossPagePosition),
	}
}

// RegisterPositions replaces the positions registered for source. Every
// position is stamped with source.
func (v *ConsistencyValidator) RegisterPositions(source string, positions []domain.Position) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return domain.ErrMissingSource
	}

	entries := make([]domain.CrossPagePosition, 0, len(positions))
	for _, p := range positions {
		p.Source = source
		entry, err := domain.NewCrossPagePosition(p)
		if err != nil {
			return fmt.Errorf("register %s: %w", source, err)
		}
		entries = append(entries, entry)
	}

	v.mu.Lock()
	v.registry[source] = entries
	v.mu.Unlock()

	v.logger.LogInfo("registered positions", map[string]any{"source": source, "count": len(entries)})
	v.eventBus.Publish(Event{
		Type:    EventRegistryUpdated,
		Payload: map[string]any{"source": source, "count": len(entries)},
	})
	return nil
}

// ClearPositions empties the registry
func (v *ConsistencyValidator) ClearPositions() {
	v.mu.Lock()
	v.registry = make(map[string][]domain.CrossPagePosition)
	v.mu.Unlock()

	v.eventBus.Publish(Event{Type: EventRegistryCleared})
}

// Sources returns the registered source names, sorted
func (v *ConsistencyValidator) Sources() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return sortedSources(v.registry)
}

// snapshot copies the registry under the lock so validation never observes a
// partial registration
func (v *ConsistencyValidator) snapshot() (map[string][]domain.CrossPagePosition, []string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := make(map[string][]domain.CrossPagePosition, len(v.registry))
	for source, entries := range v.registry {
		cp := make([]domain.CrossPagePosition, len(entries))
		copy(cp, entries)
		snap[source] = cp
	}
	return snap, sortedSources(v.registry)
}

// groupKey identifies the same logical position across sources
type groupKey struct {
	department string
	level      domain.Level
	subtitle   string
	title      string
}

func (k groupKey) String() string {
	return fmt.Sprintf("%s/%s subtitle=%q title=%q", k.department, k.level, k.subtitle, k.title)
}

// positionGroup is every registered record of one logical position
type positionGroup struct {
	key     groupKey
	members []domain.CrossPagePosition
}

// ValidateConsistency groups every registered position by normalized
// department, level, subtitle and title, and reports members whose explicit
// or computed classification differs from the group's expected one. It never
// panics; an internal failure becomes a SYSTEM inconsistency.
func (v *ConsistencyValidator) ValidateConsistency() (report *domain.ValidationReport) {
	snap, sources := v.snapshot()

	report = &domain.ValidationReport{
		RunID:           v.newID(),
		IsValid:         true,
		Inconsistencies: make([]domain.Inconsistency, 0),
		Summary: domain.ValidationSummary{
			PagesCovered: sources,
		},
		Timestamp: v.now(),
	}
	for _, source := range sources {
		report.Summary.TotalPositions += len(snap[source])
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			v.logger.LogSystemError(err, "validateConsistency")
			report.Inconsistencies = append(report.Inconsistencies, domain.NewSystemInconsistency(err))
			v.finish(report)
		}
	}()

	for _, group := range v.group(snap, sources) {
		v.checkGroup(group, report)
	}

	v.finish(report)
	return report
}

func (v *ConsistencyValidator) finish(report *domain.ValidationReport) {
	n := len(report.Inconsistencies)
	report.IsValid = n == 0
	report.Summary.InconsistentPositions = n
	report.Summary.ValidPositions = report.Summary.TotalPositions - n

	details := map[string]any{
		"positions":       report.Summary.TotalPositions,
		"inconsistencies": n,
		"pages":           len(report.Summary.PagesCovered),
	}
	if n > 0 {
		v.logger.LogWarning("classification inconsistencies found", details)
	} else {
		v.logger.LogInfo("classification consistent across pages", details)
	}
	v.eventBus.Publish(Event{Type: EventConsistencyValidated, Payload: report.Summary})
}

// group buckets positions by structural key, in first-seen order over
// sorted sources. Malformed positions are logged and left out.
func (v *ConsistencyValidator) group(snap map[string][]domain.CrossPagePosition, sources []string) []*positionGroup {
	index := make(map[groupKey]*positionGroup)
	var groups []*positionGroup

	for _, source := range sources {
		for _, entry := range snap[source] {
			key, err := structuralKey(entry.Position)
			if err != nil {
				v.logger.LogSystemError(fmt.Errorf("skip position %q from %s: %w", entry.ID, source, err), "validateConsistency")
				continue
			}
			g, ok := index[key]
			if !ok {
				g = &positionGroup{key: key}
				index[key] = g
				groups = append(groups, g)
			}
			g.members = append(g.members, entry)
		}
	}
	return groups
}

// checkGroup tallies the group's expected classification and records an
// inconsistency for each divergent member. A failure is confined to the group
// and reported as a SYSTEM inconsistency.
func (v *ConsistencyValidator) checkGroup(g *positionGroup, report *domain.ValidationReport) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("group %s: %v", g.key, r)
			v.logger.LogSystemError(err, "validateConsistency")
			report.Inconsistencies = append(report.Inconsistencies, domain.NewSystemInconsistency(err))
		}
	}()

	expected := v.classifier.ClassifyPosition(g.members[0].Position)
	report.Summary.ClassificationCounts.Add(expected)

	if len(g.members) < 2 {
		return
	}

	pages := groupPages(g)
	for _, member := range g.members {
		actual, ok := v.actualClassification(member)
		if !ok || actual == expected {
			continue
		}

		inc := domain.Inconsistency{
			PositionID:             member.ID,
			Department:             domain.NormalizeDepartment(member.Department),
			Level:                  member.Level,
			Title:                  member.Title,
			Subtitle:               member.Subtitle,
			ExpectedClassification: expected,
			ActualClassification:   actual,
			Source:                 member.Source,
			Pages:                  pages,
			Reason: fmt.Sprintf("%s is %s on %s but %s is expected (shown on %s)",
				member.Label(), actual, member.Source, expected, strings.Join(pages, ", ")),
			Severity: domain.SeverityError,
		}
		report.Inconsistencies = append(report.Inconsistencies, inc)
		v.eventBus.Publish(Event{Type: EventInconsistencyDetected, Payload: inc})
	}
}

// actualClassification is the member's explicit tag if present, else the
// engine's result
func (v *ConsistencyValidator) actualClassification(member domain.CrossPagePosition) (class domain.Classification, ok bool) {
	if member.HasExplicitClassification() {
		return member.Classification, true
	}
	defer func() {
		if r := recover(); r != nil {
			v.logger.LogSystemError(fmt.Errorf("%v", r), "classify position "+member.ID)
			class, ok = "", false
		}
	}()
	return v.classifier.ClassifyPosition(member.Position), true
}

// ValidatePosition checks one position on its own. Missing department or
// level is an issue; an unknown department or a mismatching explicit
// classification is a warning.
func (v *ConsistencyValidator) ValidatePosition(p domain.Position) domain.PositionValidationResult {
	result := domain.PositionValidationResult{
		Issues:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	dept := domain.NormalizeDepartment(p.Department)
	if strings.TrimSpace(dept) == "" {
		result.Issues = append(result.Issues, "department is required")
	}
	if strings.TrimSpace(string(p.Level)) == "" {
		result.Issues = append(result.Issues, "level is required")
	} else if !p.Level.IsKnown() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unrecognized level %q", p.Level))
	}

	if dept != "" && !v.isKnownDepartment(dept) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unrecognized department %q", dept))
	}

	if p.HasExplicitClassification() {
		check := v.classifier.ValidateClassification(p)
		result.Warnings = append(result.Warnings, check.Warnings...)
	}

	result.IsValid = len(result.Issues) == 0
	return result
}

func (v *ConsistencyValidator) isKnownDepartment(dept string) bool {
	for _, known := range v.classifier.KnownDepartments() {
		if strings.EqualFold(known, dept) {
			return true
		}
	}
	return false
}

// structuralKey builds the group key of a position from its normalized
// department, level, subtitle and title
func structuralKey(p domain.Position) (groupKey, error) {
	dept := domain.NormalizeDepartment(p.Department)
	if dept == "" {
		return groupKey{}, fmt.Errorf("missing department")
	}
	if strings.TrimSpace(string(p.Level)) == "" {
		return groupKey{}, fmt.Errorf("missing level")
	}
	return groupKey{department: dept, level: p.Level, subtitle: p.Subtitle, title: p.Title}, nil
}

func groupPages(g *positionGroup) []string {
	seen := make(map[string]bool)
	pages := make([]string, 0)
	for _, m := range g.members {
		if !seen[m.Source] {
			seen[m.Source] = true
			pages = append(pages, m.Source)
		}
	}
	sort.Strings(pages)
	return pages
}

func sortedSources(registry map[string][]domain.CrossPagePosition) []string {
	sources := make([]string, 0, len(registry))
	for source := range registry {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}
