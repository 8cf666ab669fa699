package metrics

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdelta/internal/application/ports"
)

func TestPipeline_Counters(t *testing.T) {
	p := New()

	p.FetchRound(1, 10, time.Second)
	p.FetchRound(2, 3, time.Second)
	p.FetchItem(ports.OutcomeFetched)
	p.FetchItem(ports.OutcomeFetched)
	p.FetchItem(ports.OutcomeDropped)
	p.ArtifactWritten("pivot", 40)
	p.ArtifactWritten("pivot", 2)
	p.TaskFinished("diff", nil, time.Second)
	p.TaskFinished("diff", errors.New("boom"), time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(p.fetchRounds))
	assert.Equal(t, float64(2), testutil.ToFloat64(p.fetchItems.WithLabelValues(ports.OutcomeFetched)))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.fetchItems.WithLabelValues(ports.OutcomeDropped)))
	assert.Equal(t, float64(42), testutil.ToFloat64(p.artifactRows.WithLabelValues("pivot")))
	assert.Equal(t, float64(2), testutil.ToFloat64(p.artifacts.WithLabelValues("pivot")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.tasks.WithLabelValues("diff", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.tasks.WithLabelValues("diff", "error")))
}

func TestPipeline_RegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.FetchItem(ports.OutcomeRetried)

	assert.Equal(t, float64(1), testutil.ToFloat64(a.fetchItems.WithLabelValues(ports.OutcomeRetried)))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.fetchItems.WithLabelValues(ports.OutcomeRetried)))
}

func TestPipeline_WriteTextfile(t *testing.T) {
	p := New()
	p.ArtifactWritten("snapshot", 5)

	path := filepath.Join(t.TempDir(), "stockdelta.prom")
	require.NoError(t, p.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `stockdelta_artifact_rows_total{kind="snapshot"} 5`)
}

func TestPipeline_WriteTextfileDisabled(t *testing.T) {
	assert.NoError(t, New().WriteTextfile(""))
}

func TestPipeline_Handler(t *testing.T) {
	p := New()
	p.TaskFinished("pivot", nil, time.Second)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `stockdelta_tasks_total{result="ok",task="pivot"} 1`)
}
