package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/models"
)

func TestRunner_EveryAndStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32
	New(ctx, zap.NewNop()).Every(5*time.Millisecond, "tick_test", func(context.Context) error {
		n.Add(1)
		return nil
	})
	require.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}

func TestRunner_CountsErrorsAndPanics(t *testing.T) {
	r := New(context.Background(), nil)
	r.runOnce("fail_test", func(context.Context) error { return errors.New("nope") })
	r.runOnce("panic_test", func(context.Context) error { panic("boom") })
	r.runOnce("ok_test", func(context.Context) error { return nil })
	assert.Equal(t, 1.0, testutil.ToFloat64(jobRuns.WithLabelValues("fail_test", outcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(jobRuns.WithLabelValues("panic_test", outcomePanic)))
	assert.Equal(t, 0.0, testutil.ToFloat64(jobRuns.WithLabelValues("panic_test", outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(jobRuns.WithLabelValues("ok_test", outcomeOK)))
	assert.Greater(t, testutil.ToFloat64(jobLastSuccess.WithLabelValues("ok_test")), 0.0)
	assert.Zero(t, testutil.ToFloat64(jobLastSuccess.WithLabelValues("fail_test")))
}

type lister struct{ rows []models.GradeSummary }

func (l lister) AllByScore(context.Context) ([]models.GradeSummary, error) { return l.rows, nil }
func (l lister) AllByClass(context.Context) ([]models.GradeSummary, error) { return l.rows, nil }

func TestExportSorts(t *testing.T) {
	dir := t.TempDir()
	job := ExportSorts(lister{rows: []models.GradeSummary{{Name: "stu0", ClassName: "1", TotalScore: 80}}}, dir)
	require.NoError(t, job(context.Background()))
	for _, name := range []string{"sort1.txt", "sort2.txt"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(b), "stu0")
		assert.Equal(t, 1.0, testutil.ToFloat64(exportedRows.WithLabelValues(name)))
	}
}
