package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingPull/pkg/logger"
)

type countingJob struct {
	runs atomic.Int64
	fail bool
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	if j.fail {
		return assert.AnError
	}
	return nil
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return New(time.UTC, log)
}

func TestAddJobRejectsBadExpression(t *testing.T) {
	s := newTestScheduler(t)
	err := s.AddJob("not a cron line", &countingJob{})
	assert.Error(t, err)
}

func TestScheduledJobRuns(t *testing.T) {
	s := newTestScheduler(t)
	job := &countingJob{}
	require.NoError(t, s.AddJob("@every 50ms", job))

	s.Start()
	time.Sleep(220 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, job.runs.Load(), int64(2))
}

func TestRunNow(t *testing.T) {
	s := newTestScheduler(t)

	ok := &countingJob{}
	require.NoError(t, s.RunNow(ok))
	assert.Equal(t, int64(1), ok.runs.Load())

	failing := &countingJob{fail: true}
	assert.Error(t, s.RunNow(failing))
}

func TestMarketTriggerExpressionsParse(t *testing.T) {
	s := newTestScheduler(t)
	for _, expr := range []string{
		"0 7 * * MON-FRI",
		"30 9 * * MON-FRI",
		"0 12 * * MON-FRI",
		"45 14 * * MON-FRI",
	} {
		assert.NoError(t, s.AddJob(expr, &countingJob{}), expr)
	}
}
