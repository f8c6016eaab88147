package service

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/internal/classifier"
	"workforce/internal/domain"
)

func newConsistency(t *testing.T) (*ConsistencyValidator, *recordingLogger) {
	t.Helper()
	logger := &recordingLogger{}
	return NewConsistencyValidator(classifier.NewEngine(nil), logger, nil), logger
}

func TestConsistencyCEMixingAcrossPages(t *testing.T) {
	v, logger := newConsistency(t)

	require.NoError(t, v.RegisterPositions("page1", []domain.Position{
		tagged(pos("CE", domain.LevelTM, "Mixing"), domain.ClassificationDirect),
	}))
	require.NoError(t, v.RegisterPositions("page2", []domain.Position{
		tagged(pos("CE", domain.LevelTM, "Mixing"), domain.ClassificationOH),
	}))

	report := v.ValidateConsistency()

	assert.False(t, report.IsValid)
	require.Len(t, report.Inconsistencies, 1)
	inc := report.Inconsistencies[0]
	assert.Equal(t, domain.ClassificationDirect, inc.ExpectedClassification)
	assert.Equal(t, domain.ClassificationOH, inc.ActualClassification)
	assert.Equal(t, []string{"page1", "page2"}, inc.Pages)
	assert.Equal(t, "page2", inc.Source)
	assert.Equal(t, domain.SeverityError, inc.Severity)
	assert.NotEmpty(t, inc.Reason)

	assert.Equal(t, 2, report.Summary.TotalPositions)
	assert.Equal(t, 1, report.Summary.InconsistentPositions)
	assert.Equal(t, 1, report.Summary.ValidPositions)
	assert.Equal(t, []string{"page1", "page2"}, report.Summary.PagesCovered)
	assert.Equal(t, domain.ClassificationCounts{Direct: 1}, report.Summary.ClassificationCounts)
	assert.NotEmpty(t, logger.warnings)
}

func TestConsistencyEmptyRegistry(t *testing.T) {
	v, _ := newConsistency(t)

	report := v.ValidateConsistency()

	assert.True(t, report.IsValid)
	assert.Equal(t, 0, report.Summary.TotalPositions)
	assert.Empty(t, report.Inconsistencies)
	assert.NotNil(t, report.Inconsistencies)
	assert.Equal(t, domain.ClassificationCounts{}, report.Summary.ClassificationCounts)
	assert.NotEmpty(t, report.RunID)
}

func TestConsistencyIsDeterministic(t *testing.T) {
	v, _ := newConsistency(t)

	require.NoError(t, v.RegisterPositions("page2", []domain.Position{
		tagged(pos("Cutting", domain.LevelTM, ""), domain.ClassificationIndirect),
		tagged(pos("FG WH", domain.LevelTM, "Shipping"), domain.ClassificationIndirect),
	}))
	require.NoError(t, v.RegisterPositions("page1", []domain.Position{
		pos("Cutting", domain.LevelTM, ""),
		pos("FGWH", domain.LevelTM, "Shipping"),
		pos("HR", domain.LevelTM, ""),
	}))

	first := v.ValidateConsistency()
	second := v.ValidateConsistency()

	require.Len(t, first.Inconsistencies, 2)
	if diff := cmp.Diff(first.Inconsistencies, second.Inconsistencies); diff != "" {
		t.Errorf("inconsistencies differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Summary, second.Summary); diff != "" {
		t.Errorf("summary differs between runs (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestConsistencyFixedClockAndID(t *testing.T) {
	v, _ := newConsistency(t)
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return at }
	v.newID = func() string { return "run-1" }

	report := v.ValidateConsistency()
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, at, report.Timestamp)
}

func TestConsistencyCountsGroupsNotPositions(t *testing.T) {
	v, _ := newConsistency(t)

	require.NoError(t, v.RegisterPositions("page1", []domain.Position{
		pos("Cutting", domain.LevelTM, ""),
		pos("Cutting", domain.LevelTM, "Line A"),
	}))
	require.NoError(t, v.RegisterPositions("page2", []domain.Position{
		pos("Cutting", domain.LevelTM, ""),
		pos("HR", domain.LevelGL, ""),
	}))

	report := v.ValidateConsistency()

	assert.True(t, report.IsValid)
	assert.Equal(t, 4, report.Summary.TotalPositions)
	assert.Equal(t, domain.ClassificationCounts{Direct: 2, OH: 1}, report.Summary.ClassificationCounts)
}

func TestConsistencyExpectedIgnoresExplicitTag(t *testing.T) {
	v, _ := newConsistency(t)

	require.NoError(t, v.RegisterPositions("a", []domain.Position{
		tagged(pos("Cutting", domain.LevelTM, ""), domain.ClassificationOH),
	}))
	require.NoError(t, v.RegisterPositions("b", []domain.Position{
		pos("Cutting", domain.LevelTM, ""),
	}))

	report := v.ValidateConsistency()

	require.Len(t, report.Inconsistencies, 1)
	assert.Equal(t, "a", report.Inconsistencies[0].Source)
	assert.Equal(t, domain.ClassificationDirect, report.Inconsistencies[0].ExpectedClassification)
}

func TestConsistencySkipsMalformedPositions(t *testing.T) {
	v, logger := newConsistency(t)

	require.NoError(t, v.RegisterPositions("page1", []domain.Position{
		{ID: "broken", Level: domain.LevelTM},
		{ID: "nolevel", Department: "Cutting"},
		pos("Cutting", domain.LevelTM, ""),
	}))

	report := v.ValidateConsistency()

	assert.True(t, report.IsValid)
	assert.Equal(t, 3, report.Summary.TotalPositions)
	assert.Equal(t, domain.ClassificationCounts{Direct: 1}, report.Summary.ClassificationCounts)
	assert.Len(t, logger.errors, 2)
}

func TestConsistencyPanickingClassifier(t *testing.T) {
	logger := &recordingLogger{}
	v := NewConsistencyValidator(panickingClassifier{}, logger, nil)

	require.NoError(t, v.RegisterPositions("page1", []domain.Position{pos("Cutting", domain.LevelTM, "")}))
	require.NoError(t, v.RegisterPositions("page2", []domain.Position{pos("Cutting", domain.LevelTM, "")}))

	var report *domain.ValidationReport
	require.NotPanics(t, func() { report = v.ValidateConsistency() })

	assert.False(t, report.IsValid)
	require.Len(t, report.Inconsistencies, 1)
	assert.True(t, report.Inconsistencies[0].IsSystem())
	assert.NotEmpty(t, logger.errors)
}

func TestConsistencyPanickingLogger(t *testing.T) {
	v := NewConsistencyValidator(classifier.NewEngine(nil), panickingLogger{}, nil)

	require.NotPanics(t, func() {
		require.NoError(t, v.RegisterPositions("page1", []domain.Position{
			tagged(pos("CE", domain.LevelTM, "Mixing"), domain.ClassificationOH),
		}))
		require.NoError(t, v.RegisterPositions("page2", []domain.Position{
			pos("CE", domain.LevelTM, "Mixing"),
		}))
	})

	report := v.ValidateConsistency()
	assert.False(t, report.IsValid)
	assert.Len(t, report.Inconsistencies, 1)
}

func TestRegisterPositions(t *testing.T) {
	v, _ := newConsistency(t)

	assert.ErrorIs(t, v.RegisterPositions("  ", nil), domain.ErrMissingSource)

	require.NoError(t, v.RegisterPositions("page1", []domain.Position{
		pos("Cutting", domain.LevelTM, ""),
		pos("HR", domain.LevelTM, ""),
	}))
	require.NoError(t, v.RegisterPositions("page1", []domain.Position{
		pos("Cutting", domain.LevelTM, ""),
	}))
	require.NoError(t, v.RegisterPositions("page2", nil))

	assert.Equal(t, []string{"page1", "page2"}, v.Sources())
	assert.Equal(t, 1, v.ValidateConsistency().Summary.TotalPositions)

	v.ClearPositions()
	assert.Empty(t, v.Sources())
	assert.Equal(t, 0, v.ValidateConsistency().Summary.TotalPositions)
}

func TestRegisterPositionsStampsSource(t *testing.T) {
	v, _ := newConsistency(t)

	p := pos("Cutting", domain.LevelTM, "")
	p.Source = "elsewhere"
	require.NoError(t, v.RegisterPositions("page1", []domain.Position{p}))

	snap, _ := v.snapshot()
	require.Len(t, snap["page1"], 1)
	assert.Equal(t, "page1", snap["page1"][0].Source)
}

func TestValidatePosition(t *testing.T) {
	v, _ := newConsistency(t)

	tests := []struct {
		name     string
		pos      domain.Position
		valid    bool
		issues   int
		warnings int
	}{
		{"valid", pos("Cutting", domain.LevelTM, ""), true, 0, 0},
		{"alias", pos("FGWH", domain.LevelTM, ""), true, 0, 0},
		{"missing fields", domain.Position{}, false, 2, 0},
		{"unknown department", pos("Laser Lab", domain.LevelTM, ""), true, 0, 1},
		{"unknown level", pos("Cutting", "CEO", ""), true, 0, 1},
		{"mismatching tag", tagged(pos("Cutting", domain.LevelTM, ""), domain.ClassificationOH), true, 0, 1},
		{"matching tag", tagged(pos("Cutting", domain.LevelTM, ""), domain.ClassificationDirect), true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidatePosition(tt.pos)
			assert.Equal(t, tt.valid, res.IsValid)
			assert.Len(t, res.Issues, tt.issues)
			assert.Len(t, res.Warnings, tt.warnings)
		})
	}
}

func TestConsistencyPublishesEvents(t *testing.T) {
	bus := NewEventBus()
	events := make(chan Event, 16)
	bus.Subscribe(events)

	v := NewConsistencyValidator(classifier.NewEngine(nil), nil, bus)
	require.NoError(t, v.RegisterPositions("page1", []domain.Position{
		tagged(pos("CE", domain.LevelTM, "Mixing"), domain.ClassificationOH),
	}))
	require.NoError(t, v.RegisterPositions("page2", []domain.Position{
		pos("CE", domain.LevelTM, "Mixing"),
	}))
	v.ValidateConsistency()
	v.ClearPositions()
	close(events)

	var types []EventType
	for e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{
		EventRegistryUpdated,
		EventRegistryUpdated,
		EventInconsistencyDetected,
		EventConsistencyValidated,
		EventRegistryCleared,
	}, types)
}

func TestConsistencyKeepsSeparatorInTextDistinct(t *testing.T) {
	v, _ := newConsistency(t)

	first := domain.Position{Department: "Cutting", Level: domain.LevelTM, Subtitle: "A|B", Classification: domain.ClassificationDirect}
	second := domain.Position{Department: "Cutting", Level: domain.LevelTM, Subtitle: "A", Title: "B|", Classification: domain.ClassificationOH}
	require.NoError(t, v.RegisterPositions("page1", []domain.Position{first}))
	require.NoError(t, v.RegisterPositions("page2", []domain.Position{second}))

	report := v.ValidateConsistency()

	assert.True(t, report.IsValid)
	assert.Empty(t, report.Inconsistencies)
	assert.Equal(t, domain.ClassificationCounts{Direct: 2}, report.Summary.ClassificationCounts)
}
