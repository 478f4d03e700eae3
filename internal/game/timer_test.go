package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghelleks/botany-battle-sub000/internal/clock"
	"github.com/ghelleks/botany-battle-sub000/internal/game"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

var timerTestBase = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestTimer_StartRejectsNonPositiveDuration(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)

	assert.False(t, timer.Start(0), "zero duration should not start")
	assert.False(t, timer.Start(-5*time.Second), "negative duration should not start")
	assert.Equal(t, game.TimerIdle, timer.State(), "timer should stay idle")

	assert.True(t, timer.Start(60*time.Second))
	assert.Equal(t, game.TimerActive, timer.State())
}

func TestTimer_StartOnlyFromIdle(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)

	require.True(t, timer.Start(60*time.Second))
	assert.False(t, timer.Start(30*time.Second), "start while active should be a no-op")

	timer.Pause()
	assert.False(t, timer.Start(30*time.Second), "start while paused should be a no-op")

	timer.Stop()
	assert.True(t, timer.Start(30*time.Second), "start after stop should work")
}

func TestTimer_CountdownTick(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	clk.Advance(10 * time.Second)
	snap := timer.Tick()

	assert.Equal(t, 10.0, snap.TotalTime)
	assert.Equal(t, 50.0, snap.TimeRemaining)
	assert.Equal(t, 0.0, snap.PausedTime)
	assert.False(t, snap.IsExpired)
	assert.Equal(t, game.TimerActive, timer.State())
}

func TestTimer_CountdownExpires(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	clk.Advance(60 * time.Second)
	snap := timer.Tick()

	assert.True(t, snap.IsExpired)
	assert.Equal(t, 0.0, snap.TimeRemaining)
	assert.Equal(t, 60.0, snap.TotalTime)
	assert.Equal(t, game.TimerCompleted, timer.State())

	// The terminal snapshot is frozen; more wall time changes nothing.
	clk.Advance(30 * time.Second)
	later := timer.Snapshot()
	assert.Equal(t, 60.0, later.TotalTime)
	assert.True(t, later.IsExpired)
}

func TestTimer_PauseResumeRoundTrip(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(120*time.Second))

	clk.Advance(10 * time.Second)
	require.True(t, timer.Pause())

	// Paused time must not leak into elapsed time, however long it lasts.
	clk.Advance(45 * time.Second)
	require.True(t, timer.Resume())

	clk.Advance(5 * time.Second)
	require.True(t, timer.Pause())
	clk.Advance(300 * time.Second)
	require.True(t, timer.Resume())

	snap := timer.Tick()
	assert.Equal(t, 15.0, snap.TotalTime, "elapsed should only count active stretches")
	assert.Equal(t, 345.0, snap.PausedTime)
	assert.Equal(t, 105.0, snap.TimeRemaining)
}

func TestTimer_SnapshotWhilePausedFreezesElapsed(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	clk.Advance(20 * time.Second)
	require.True(t, timer.Pause())

	clk.Advance(100 * time.Second)
	snap := timer.Snapshot()

	assert.Equal(t, 20.0, snap.TotalTime, "elapsed should freeze at the pause point")
	assert.Equal(t, 100.0, snap.PausedTime, "paused total should include the in-flight pause")
	assert.False(t, snap.IsExpired)
}

func TestTimer_PauseIsNoOpUnlessActive(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)

	assert.False(t, timer.Pause(), "pause while idle")

	require.True(t, timer.Start(60*time.Second))
	require.True(t, timer.Pause())
	assert.False(t, timer.Pause(), "pause while already paused")
	assert.Equal(t, game.TimerPaused, timer.State())

	timer.Complete()
	assert.False(t, timer.Pause(), "pause while completed")
}

func TestTimer_ResumeIsNoOpUnlessPaused(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)

	assert.False(t, timer.Resume(), "resume while idle")

	require.True(t, timer.Start(60*time.Second))
	assert.False(t, timer.Resume(), "resume while active")

	timer.Complete()
	assert.False(t, timer.Resume(), "resume while completed")
}

func TestTimer_StopResetsFromAnyState(t *testing.T) {
	clk := clock.NewManual(timerTestBase)

	states := []struct {
		name    string
		arrange func(*game.Timer)
	}{
		{"idle", func(*game.Timer) {}},
		{"active", func(tm *game.Timer) {
			tm.Start(60 * time.Second)
			clk.Advance(10 * time.Second)
		}},
		{"paused", func(tm *game.Timer) {
			tm.Start(60 * time.Second)
			clk.Advance(10 * time.Second)
			tm.Pause()
		}},
		{"completed", func(tm *game.Timer) {
			tm.Start(60 * time.Second)
			clk.Advance(60 * time.Second)
			tm.Tick()
		}},
	}

	for _, tt := range states {
		t.Run(tt.name, func(t *testing.T) {
			timer := game.NewTimer(clk)
			tt.arrange(timer)

			timer.Stop()

			snap := timer.Snapshot()
			assert.Equal(t, game.TimerIdle, timer.State())
			assert.Equal(t, 0.0, snap.TotalTime)
			assert.Equal(t, 0.0, snap.PausedTime)
			assert.False(t, timer.IsRunning())
			assert.False(t, timer.IsPaused())
		})
	}
}

func TestTimer_SetTimeRemainingExtends(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	clk.Advance(20 * time.Second)
	snap := timer.SetTimeRemaining(100 * time.Second)

	assert.Equal(t, 100.0, snap.TimeRemaining)
	assert.Equal(t, 20.0, snap.TotalTime)
	assert.Equal(t, game.TimerActive, timer.State())
}

func TestTimer_SetTimeRemainingZeroForcesExpiry(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	clk.Advance(20 * time.Second)
	snap := timer.SetTimeRemaining(0)

	assert.True(t, snap.IsExpired)
	assert.Equal(t, 0.0, snap.TimeRemaining)
	assert.Equal(t, game.TimerCompleted, timer.State())
}

func TestTimer_SetTimeRemainingNegativeClampsToZero(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	clk.Advance(5 * time.Second)
	snap := timer.SetTimeRemaining(-30 * time.Second)

	assert.True(t, snap.IsExpired, "negative override clamps to zero and completes")
	assert.Equal(t, game.TimerCompleted, timer.State())
}

func TestTimer_SetTimeRemainingIgnoredOnStopwatch(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.StartStopwatch())

	clk.Advance(10 * time.Second)
	snap := timer.SetTimeRemaining(30 * time.Second)

	assert.Equal(t, 0.0, snap.TimeRemaining, "count-up timers have no remaining time")
	assert.Equal(t, game.TimerActive, timer.State())
}

func TestTimer_AddTimeOnlyPositive(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	assert.True(t, timer.AddTime(30*time.Second))
	assert.False(t, timer.AddTime(0))
	assert.False(t, timer.AddTime(-10*time.Second))

	snap := timer.Snapshot()
	assert.Equal(t, 90.0, snap.TimeRemaining)
}

func TestTimer_AddTimeIgnoredOnStopwatch(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.StartStopwatch())

	assert.False(t, timer.AddTime(30*time.Second))
}

func TestTimer_StopwatchCountsUp(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.StartStopwatch())

	clk.Advance(500 * time.Second)
	snap := timer.Tick()

	assert.Equal(t, 500.0, snap.TotalTime)
	assert.Equal(t, 0.0, snap.TimeRemaining)
	assert.False(t, snap.IsExpired, "a count-up timer never expires on its own")
	assert.Equal(t, game.TimerActive, timer.State())
}

func TestTimer_CompleteFreezesStopwatch(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.StartStopwatch())

	clk.Advance(85 * time.Second)
	snap := timer.Complete()

	assert.Equal(t, 85.0, snap.TotalTime)
	assert.Equal(t, game.TimerCompleted, timer.State())

	clk.Advance(60 * time.Second)
	assert.Equal(t, 85.0, timer.Snapshot().TotalTime)
}

func TestTimer_ClockRollbackClampsElapsed(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	clk.Set(timerTestBase.Add(-30 * time.Second))
	snap := timer.Snapshot()

	assert.Equal(t, 0.0, snap.TotalTime, "rolled-back clock should clamp, not go negative")
	assert.Equal(t, 60.0, snap.TimeRemaining)
}

func TestRestoreTimer_ActiveRecord(t *testing.T) {
	clk := clock.NewManual(timerTestBase.Add(100 * time.Second))
	rec := &models.TimerStateRecord{
		SessionID:     "s1",
		Mode:          models.ModeBeatTheClock,
		StartedAt:     timerTestBase,
		PausedSeconds: 30,
		WasActive:     true,
		LastSavedAt:   timerTestBase.Add(40 * time.Second),
		RoundDuration: 300,
	}

	timer := game.RestoreTimer(clk, rec)

	snap := timer.Snapshot()
	assert.Equal(t, game.TimerActive, timer.State())
	assert.Equal(t, 70.0, snap.TotalTime, "elapsed = now - start - paused")
	assert.Equal(t, 230.0, snap.TimeRemaining)
}

func TestRestoreTimer_PausedRecordFreezesElapsed(t *testing.T) {
	// Restored long after the checkpoint: the gap counts as pause time.
	clk := clock.NewManual(timerTestBase.Add(500 * time.Second))
	rec := &models.TimerStateRecord{
		SessionID:     "s1",
		Mode:          models.ModeSpeedrun,
		StartedAt:     timerTestBase,
		PausedSeconds: 20,
		WasActive:     false,
		LastSavedAt:   timerTestBase.Add(50 * time.Second),
	}

	timer := game.RestoreTimer(clk, rec)

	require.Equal(t, game.TimerPaused, timer.State())
	assert.Equal(t, 30.0, timer.Snapshot().TotalTime, "elapsed frozen at the checkpoint instant")

	require.True(t, timer.Resume())
	clk.Advance(10 * time.Second)
	snap := timer.Tick()
	assert.Equal(t, 40.0, snap.TotalTime)
	assert.Equal(t, 470.0, snap.PausedTime, "downtime since the checkpoint counts as pause")
}

func TestTimer_CheckpointStateIncludesInFlightPause(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(60*time.Second))

	clk.Advance(10 * time.Second)
	require.True(t, timer.Pause())
	clk.Advance(5 * time.Second)

	startedAt, pausedSeconds, active := timer.CheckpointState()

	assert.Equal(t, timerTestBase, startedAt)
	assert.Equal(t, 5.0, pausedSeconds)
	assert.False(t, active)
}

func TestTimer_CheckpointRoundTripThroughRestore(t *testing.T) {
	clk := clock.NewManual(timerTestBase)
	timer := game.NewTimer(clk)
	require.True(t, timer.Start(90*time.Second))

	clk.Advance(25 * time.Second)
	require.True(t, timer.Pause())
	clk.Advance(7 * time.Second)

	startedAt, pausedSeconds, active := timer.CheckpointState()
	rec := &models.TimerStateRecord{
		SessionID:     "s1",
		Mode:          models.ModeBeatTheClock,
		StartedAt:     startedAt,
		PausedSeconds: pausedSeconds,
		WasActive:     active,
		LastSavedAt:   clk.Now(),
		RoundDuration: 90,
	}

	clk.Advance(1000 * time.Second)
	restored := game.RestoreTimer(clk, rec)

	assert.Equal(t, 25.0, restored.Snapshot().TotalTime, "restore should reproduce the frozen elapsed time")
	assert.Equal(t, 65.0, restored.Snapshot().TimeRemaining)
}
