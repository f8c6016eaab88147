// Package report runs the classification and validation checks for one
// invocation and assembles their results into a domain.Report.
package report

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"workforce/internal/classifier"
	"workforce/internal/domain"
	"workforce/internal/logging"
	"workforce/internal/metrics"
	"workforce/internal/service"
)

// Input is everything one report covers. Empty parts are skipped.
type Input struct {
	// Sources maps a view name to the positions it shows; checked for
	// cross-source consistency
	Sources map[string][]domain.Position
	// Direct, Indirect and Detailed are the aggregation pages and the
	// detailed view they must agree with
	Direct   []domain.Position
	Indirect []domain.Position
	Detailed []domain.Position
	// Classify is batch-classified with confidence grading
	Classify []domain.Position
}

// HasAggregation returns true if any aggregation input was given
func (in Input) HasAggregation() bool {
	return in.Direct != nil || in.Indirect != nil || in.Detailed != nil
}

// Builder composes the engine and validators into reports
type Builder struct {
	engine      *classifier.Engine
	consistency *service.ConsistencyValidator
	aggregation *service.AggregationValidator
	metrics     *metrics.Recorder
	logger      logging.Logger
	now         func() time.Time
	newID       func() string

	// Build clears and refills the consistency registry
	mu sync.Mutex
}

// NewBuilder creates a report builder. recorder, logger and eventBus may be nil.
func NewBuilder(engine *classifier.Engine, recorder *metrics.Recorder, logger logging.Logger, eventBus *service.EventBus) *Builder {
	if engine == nil {
		engine = classifier.NewEngine(nil)
	}
	logger = logging.Safe(logger)
	return &Builder{
		engine:      engine,
		consistency: service.NewConsistencyValidator(engine, logger, eventBus),
		aggregation: service.NewAggregationValidator(engine, logger, eventBus),
		metrics:     recorder,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Engine returns the classification engine the builder uses
func (b *Builder) Engine() *classifier.Engine {
	return b.engine
}

// Build runs every check the input has data for
func (b *Builder) Build(in Input) (*domain.Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	report := &domain.Report{
		RunID:       b.newID(),
		GeneratedAt: b.now(),
	}

	if len(in.Sources) > 0 {
		b.consistency.ClearPositions()
		names := make([]string, 0, len(in.Sources))
		for name := range in.Sources {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := b.consistency.RegisterPositions(name, in.Sources[name]); err != nil {
				return nil, fmt.Errorf("register source: %w", err)
			}
		}
		report.Consistency = b.consistency.ValidateConsistency()
		b.metrics.ObserveConsistency(report.Consistency)
	}

	if in.HasAggregation() {
		report.Aggregation = b.aggregation.ValidateAggregation(in.Direct, in.Indirect, in.Detailed)
		b.metrics.ObserveAggregation(report.Aggregation)
	}

	if len(in.Classify) > 0 {
		batch := b.engine.BatchClassify(in.Classify)
		for _, r := range batch.Results {
			b.metrics.ObserveClassification(r.Classification, r.UsedFallback)
		}
		report.Positions = batch.Results
		summary := batch.Summary
		report.Batch = &summary
	}

	b.logger.LogInfo("report built", map[string]any{
		"run_id": report.RunID,
		"valid":  report.IsValid(),
	})
	return report, nil
}

// ExitCode maps a report to a process exit status: 0 when every included
// check passed, 1 otherwise
func ExitCode(report *domain.Report) int {
	if report.IsValid() {
		return 0
	}
	return 1
}
