package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	err      error
	runs     atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }
func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_AddRemove(t *testing.T) {
	s := New(logger.NewNop(), time.UTC)

	job := &countingJob{name: "a", schedule: "0 0 9 * * MON-FRI"}
	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job), "duplicate name")

	bad := &countingJob{name: "bad", schedule: "not a cron"}
	assert.Error(t, s.AddJob(bad))

	// five-field expressions are rejected: seconds field is required
	short := &countingJob{name: "short", schedule: "0 9 * * MON-FRI"}
	assert.Error(t, s.AddJob(short))

	assert.Equal(t, []string{"a"}, s.GetAllJobs())

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
}

func TestScheduler_RunJobSync_NoRetry(t *testing.T) {
	s := New(logger.NewNop(), time.UTC)

	failing := &countingJob{name: "fail", schedule: "@every 1h", err: errors.New("provider down")}
	ok := &countingJob{name: "ok", schedule: "@every 1h"}
	require.NoError(t, s.AddJob(failing))
	require.NoError(t, s.AddJob(ok))

	result, err := s.RunJobSync(context.Background(), "fail")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "provider down", result.Error)
	assert.Equal(t, int32(1), failing.runs.Load())

	result, err = s.RunJobSync(context.Background(), "ok")
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = s.RunJobSync(context.Background(), "missing")
	assert.Error(t, err)

	stats := s.GetJobStats()
	assert.Equal(t, 1, stats["fail"].FailureCount)
	assert.NotNil(t, stats["fail"].LastFailure)
	assert.Equal(t, 1.0, stats["ok"].SuccessRate)
	assert.NotNil(t, stats["ok"].LastSuccess)

	history, err := s.GetJobHistory("fail")
	require.NoError(t, err)
	assert.Len(t, history.Results, 1)
}

func TestScheduler_NextRunUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	s := New(logger.NewNop(), loc)
	require.NoError(t, s.AddJob(&countingJob{name: "open", schedule: "0 0 9 * * *"}))

	s.Start()
	defer s.Stop()

	// entries get their next time once the cron loop has started
	require.Eventually(t, func() bool {
		next, _ := s.NextRun("open")
		return !next.IsZero()
	}, time.Second, 10*time.Millisecond)

	next, err := s.NextRun("open")
	require.NoError(t, err)
	assert.Equal(t, 9, next.In(loc).Hour())
	assert.Equal(t, 0, next.In(loc).Minute())

	_, err = s.NextRun("missing")
	assert.Error(t, err)
}

func TestScheduler_RunJobAsync(t *testing.T) {
	s := New(logger.NewNop(), time.UTC)
	job := &countingJob{name: "a", schedule: "@every 1h"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("a"))
	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())
	assert.Empty(t, h.GetLatestResults(5))

	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Len(t, h.GetFailedResults(), maxHistory/2)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}
