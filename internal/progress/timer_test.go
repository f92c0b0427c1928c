package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestStartAdvancesLinearly(t *testing.T) {
	timer := New()
	timer.Start(epoch, time.Second)

	assert.Equal(t, Running, timer.State())
	assert.InDelta(t, 0, timer.Fraction(epoch), 1e-9)
	assert.InDelta(t, 0.25, timer.Fraction(epoch.Add(250*time.Millisecond)), 1e-9)
	assert.InDelta(t, 1, timer.Fraction(epoch.Add(2*time.Second)), 1e-9)
}

func TestPollFiresExactlyOnce(t *testing.T) {
	fired := 0
	timer := New(WithOnComplete(func(uint64) { fired++ }))
	timer.Start(epoch, time.Second)

	require.False(t, timer.Poll(epoch.Add(999*time.Millisecond)))
	require.True(t, timer.Poll(epoch.Add(time.Second)))
	require.False(t, timer.Poll(epoch.Add(2*time.Second)))

	assert.Equal(t, 1, fired)
	assert.Equal(t, Stopped, timer.State())
	assert.InDelta(t, 1, timer.Fraction(epoch.Add(3*time.Second)), 1e-9)
}

func TestResumeUsesRemainingDuration(t *testing.T) {
	timer := New()
	timer.Start(epoch, time.Second)

	pausedAt := epoch.Add(300 * time.Millisecond)
	require.True(t, timer.Pause(pausedAt))
	assert.InDelta(t, 0.3, timer.Fraction(pausedAt.Add(time.Hour)), 1e-9)
	assert.Equal(t, 700*time.Millisecond, timer.Remaining(pausedAt))

	resumedAt := pausedAt.Add(5 * time.Second)
	require.True(t, timer.Resume(resumedAt))
	assert.Equal(t, resumedAt.Add(700*time.Millisecond), timer.Deadline())

	assert.False(t, timer.Poll(resumedAt.Add(699*time.Millisecond)))
	assert.InDelta(t, 0.65, timer.Fraction(resumedAt.Add(350*time.Millisecond)), 1e-9)
	assert.True(t, timer.Poll(resumedAt.Add(700*time.Millisecond)))
}

func TestRepeatedPauseResumeCompletesOnce(t *testing.T) {
	fired := 0
	timer := New(WithOnComplete(func(uint64) { fired++ }))
	now := epoch
	timer.Start(now, time.Second)

	for i := 0; i < 4; i++ {
		now = now.Add(200 * time.Millisecond)
		require.True(t, timer.Pause(now))
		now = now.Add(time.Minute)
		require.True(t, timer.Resume(now))
	}
	assert.InDelta(t, 0.8, timer.Fraction(now), 1e-9)

	assert.False(t, timer.Poll(now.Add(199*time.Millisecond)))
	assert.True(t, timer.Poll(now.Add(200*time.Millisecond)))
	assert.False(t, timer.Poll(now.Add(time.Second)))
	assert.Equal(t, 1, fired)
}

func TestReentrantCallsAreNoOps(t *testing.T) {
	timer := New()
	assert.False(t, timer.Pause(epoch))
	assert.False(t, timer.Resume(epoch))

	timer.Start(epoch, time.Second)
	assert.False(t, timer.Resume(epoch))
	require.True(t, timer.Pause(epoch.Add(100*time.Millisecond)))
	assert.False(t, timer.Pause(epoch.Add(200*time.Millisecond)))
	assert.InDelta(t, 0.1, timer.Fraction(epoch.Add(time.Second)), 1e-9)
}

func TestCancelSuppressesCompletion(t *testing.T) {
	fired := 0
	timer := New(WithOnComplete(func(uint64) { fired++ }))
	timer.Start(epoch, time.Second)
	timer.Cancel()

	assert.False(t, timer.Poll(epoch.Add(5*time.Second)))
	assert.Equal(t, 0, fired)
	assert.Equal(t, Stopped, timer.State())
	assert.Zero(t, timer.Fraction(epoch))
}

func TestStartSupersedesInFlightRun(t *testing.T) {
	var runs []uint64
	timer := New(WithOnComplete(func(run uint64) { runs = append(runs, run) }))
	first := timer.Start(epoch, time.Second)
	second := timer.Start(epoch.Add(900*time.Millisecond), time.Second)
	require.NotEqual(t, first, second)

	assert.False(t, timer.Poll(epoch.Add(time.Second)))
	assert.True(t, timer.Poll(epoch.Add(1900*time.Millisecond)))
	assert.Equal(t, []uint64{second}, runs)
}

func TestZeroDurationCompletesImmediately(t *testing.T) {
	timer := New()
	timer.Start(epoch, 0)
	assert.InDelta(t, 1, timer.Fraction(epoch), 1e-9)
	assert.True(t, timer.Poll(epoch))
}
