package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeJob counts its runs and optionally fails.
type fakeJob struct {
	name string
	err  error
	runs atomic.Int64
}

func (j *fakeJob) Name() string        { return j.name }
func (j *fakeJob) Description() string { return "test job" }

func (j *fakeJob) Run(_ context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestRegister(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	err := s.Register(&fakeJob{name: "a"}, NewIntervalSchedule(time.Hour))
	assert.NoError(t, err)

	err = s.Register(&fakeJob{name: "a"}, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Hour)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&fakeJob{name: "b"}, nil), ErrNilSchedule)

	infos := s.ListJobs()
	assert.Len(t, infos, 1)
	assert.Equal(t, "a", infos[0].Name)
	assert.True(t, infos[0].Enabled)
	assert.Equal(t, "@every 1h0m0s", infos[0].Schedule)
	assert.False(t, infos[0].NextRun.IsZero())
}

func TestEnableDisable(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	assert.NoError(t, s.Register(&fakeJob{name: "a"}, NewIntervalSchedule(time.Hour)))

	assert.NoError(t, s.DisableJob("a"))
	assert.False(t, s.ListJobs()[0].Enabled)

	assert.NoError(t, s.EnableJob("a"))
	assert.True(t, s.ListJobs()[0].Enabled)

	assert.ErrorIs(t, s.DisableJob("ghost"), ErrJobNotFound)
	assert.ErrorIs(t, s.EnableJob("ghost"), ErrJobNotFound)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	assert.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestRunNow(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	job := &fakeJob{name: "a"}
	assert.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "a")
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1), job.runs.Load())

	_, err = s.RunNow(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestRunNow_RecordsFailure(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	job := &fakeJob{name: "a", err: errors.New("boom")}
	assert.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "a")
	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "a", s.ListJobs()[0].LastResult.JobName)

	snapshot := s.GetMetrics().Snapshot()
	assert.Equal(t, int64(1), snapshot.TotalExecutions)
	assert.Equal(t, int64(1), snapshot.TotalFailures)
	assert.Equal(t, 0.0, snapshot.SuccessRate)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordExecution("a", 100*time.Millisecond, true)
	m.RecordExecution("a", 300*time.Millisecond, true)
	m.RecordExecution("b", 200*time.Millisecond, false)

	snapshot := m.Snapshot()
	assert.Equal(t, int64(3), snapshot.TotalExecutions)
	assert.Equal(t, int64(2), snapshot.TotalSuccesses)
	assert.Equal(t, int64(1), snapshot.TotalFailures)
	assert.InDelta(t, 0.667, snapshot.SuccessRate, 0.001)
	assert.Equal(t, 200*time.Millisecond, snapshot.AverageDuration)
	assert.Equal(t, int64(2), m.ExecutionsByJob["a"])
	assert.Equal(t, int64(1), m.FailuresByJob["b"])
}
