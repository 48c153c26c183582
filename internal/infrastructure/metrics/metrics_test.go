package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/usecase/batch"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairOutcomes(t *testing.T) {
	m := New()

	m.PairProcessed(batch.OutcomeCreated)
	m.PairProcessed(batch.OutcomeCreated)
	m.PairProcessed(batch.OutcomeFailed)

	assert.InDelta(t, 2, testutil.ToFloat64(m.PairsTotal.WithLabelValues("created")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PairsTotal.WithLabelValues("failed")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.PairsTotal.WithLabelValues("updated")), 0)
}

func TestRunFinished(t *testing.T) {
	m := New()

	m.RunFinished(&batch.Report{Duration: 2 * time.Second}, nil)
	m.RunFinished(&batch.Report{}, context.Canceled)
	m.RunFinished(nil, errors.New("load profiles: boom"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.RunsTotal.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RunsTotal.WithLabelValues("cancelled")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccess), 0.0)
}

func TestCheckpointGauge(t *testing.T) {
	m := New()
	m.CheckpointSaved(4242)
	assert.InDelta(t, 4242, testutil.ToFloat64(m.CheckpointIndex), 0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.PairProcessed(batch.OutcomeBelowThreshold)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `matcher_pairs_total{outcome="below_threshold"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
