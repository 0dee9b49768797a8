package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/datasource"
	"github.com/yourusername/pitwall/internal/metrics"
)

type fakeRefresher struct {
	mu      sync.Mutex
	current int
	calls   [][]int
	err     error
}

func (f *fakeRefresher) Update(_ context.Context, seasons []int) (*datasource.UpdateReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, seasons)
	if f.err != nil {
		return nil, f.err
	}
	return &datasource.UpdateReport{Seasons: seasons, Races: len(seasons)}, nil
}

func (f *fakeRefresher) CurrentSeason() int { return f.current }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunDataRefresh(t *testing.T) {
	ref := &fakeRefresher{current: 2024}
	s := NewScheduler(ref, quietLogger())

	before := testutil.ToFloat64(metrics.ScheduledJobsTotal.WithLabelValues(JobDataRefresh, "success"))
	report, err := s.RunDataRefresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int{2023, 2024}, report.Seasons)
	require.Len(t, ref.calls, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ScheduledJobsTotal.WithLabelValues(JobDataRefresh, "success")))
}

func TestRunDataRefreshFailure(t *testing.T) {
	ref := &fakeRefresher{current: 2024, err: errors.New("upstream down")}
	s := NewScheduler(ref, quietLogger())

	before := testutil.ToFloat64(metrics.ScheduledJobsTotal.WithLabelValues(JobDataRefresh, "error"))
	_, err := s.RunDataRefresh(context.Background(), 0)
	assert.ErrorContains(t, err, "upstream down")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ScheduledJobsTotal.WithLabelValues(JobDataRefresh, "error")))

	_, err = s.RunDataRefresh(context.Background(), -1)
	assert.Error(t, err)
}

func TestScheduleLifecycle(t *testing.T) {
	s := NewScheduler(&fakeRefresher{current: 2024}, quietLogger())

	assert.Error(t, s.Start(), "start without jobs")
	assert.Error(t, s.ScheduleDataRefresh("not a cron", 1))

	require.NoError(t, s.ScheduleDataRefresh("0 6 * * 1", 1))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Len(t, s.Entries(), 1)
	assert.False(t, s.NextRun().IsZero())

	assert.Error(t, s.ScheduleDataRefresh("@daily", 1), "schedule while running")
	assert.Error(t, s.Start())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())
	require.NoError(t, s.Stop())
}
