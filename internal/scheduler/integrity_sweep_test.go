package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/tasks"
)

type recordingEnqueuer struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (r *recordingEnqueuer) Enqueue(task backlite.Task) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.tasks = append(r.tasks, task)
	return "task-1", nil
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("not a schedule"))
	assert.Error(t, ValidateCronSchedule("0 0 3 * * *"), "seconds field is not accepted")
}

func TestNextRunTime(t *testing.T) {
	from := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	next, err := NextRunTime("0 3 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC), next)
}

func TestIntegritySweepScheduler_StartStop(t *testing.T) {
	s := NewIntegritySweepScheduler(&recordingEnqueuer{}, "0 3 * * *", nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.GetNextRunTime())

	require.NoError(t, s.Start(context.Background()), "starting twice is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestIntegritySweepScheduler_InvalidSchedule(t *testing.T) {
	s := NewIntegritySweepScheduler(&recordingEnqueuer{}, "every day", nil)
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestIntegritySweepScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewIntegritySweepScheduler(&recordingEnqueuer{}, "0 3 * * *", nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestIntegritySweepScheduler_RunNow(t *testing.T) {
	t.Run("enqueues a scheduled sweep", func(t *testing.T) {
		enq := &recordingEnqueuer{}
		s := NewIntegritySweepScheduler(enq, "0 3 * * *", nil)

		assert.Equal(t, "task-1", s.RunNow())
		require.Len(t, enq.tasks, 1)
		assert.Equal(t, tasks.SweepOrphanLinksTask{Trigger: "schedule"}, enq.tasks[0])
	})

	t.Run("enqueue failure is logged", func(t *testing.T) {
		s := NewIntegritySweepScheduler(&recordingEnqueuer{err: errors.New("queue closed")}, "0 3 * * *", nil)
		assert.Empty(t, s.RunNow())
	})
}
