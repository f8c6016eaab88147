package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/internal/domain"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.ObserveClassification(domain.ClassificationDirect, false)
	r.ObserveClassification(domain.ClassificationDirect, false)
	r.ObserveClassification(domain.ClassificationOH, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.classifications.WithLabelValues("direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.classifications.WithLabelValues("OH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks))

	r.ObserveConsistency(&domain.ValidationReport{
		IsValid:         false,
		Inconsistencies: []domain.Inconsistency{{Department: "CE"}, {Department: "HR"}},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(r.inconsistencies))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("consistency", "invalid")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.lastValid.WithLabelValues("consistency")))

	r.ObserveAggregation(&domain.AggregationValidationResult{IsValid: true})
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("aggregation", "valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lastValid.WithLabelValues("aggregation")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveClassification(domain.ClassificationDirect, true)
		r.ObserveConsistency(&domain.ValidationReport{})
		r.ObserveAggregation(&domain.AggregationValidationResult{})
	})
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveClassification(domain.ClassificationIndirect, false)

	path := filepath.Join(t.TempDir(), "workforce.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `workforce_classifications_total{classification="indirect"} 1`))
}
