package game

import (
	"sync"
	"time"

	"github.com/ghelleks/botany-battle-sub000/internal/clock"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

// TimerState is the state machine position of a Timer.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerActive
	TimerPaused
	TimerCompleted
)

func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "idle"
	case TimerActive:
		return "active"
	case TimerPaused:
		return "paused"
	case TimerCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Timer is a pausable countdown or count-up clock. A countdown timer
// (fixed duration) expires on its own during Tick; a count-up timer runs
// until Complete or Stop. All methods are safe for concurrent use, and
// transitions invalid for the current state are no-ops so that racing
// callers (double-taps, late ticks) cannot corrupt the clock.
//
// Elapsed play time is always derived as now - startedAt - pausedTotal,
// which is the same arithmetic recovery applies to a persisted checkpoint.
type Timer struct {
	mu           sync.Mutex
	clk          clock.Clock
	state        TimerState
	duration     time.Duration // countdown length; 0 means count up
	startedAt    time.Time
	pausedAt     time.Time     // set while Paused
	pausedTotal  time.Duration // completed pause intervals
	finalElapsed time.Duration // frozen at completion
	finalPaused  time.Duration
}

// NewTimer creates an Idle timer reading time from clk. A nil clk falls
// back to the system clock.
func NewTimer(clk clock.Clock) *Timer {
	if clk == nil {
		clk = clock.System
	}
	return &Timer{clk: clk}
}

// RestoreTimer rebuilds a timer from a persisted checkpoint. A record
// that was active resumes counting immediately, so the downtime since the
// checkpoint counts as play time. A record that was paused comes back
// paused with elapsed time frozen at the checkpoint instant, so the
// downtime counts as pause time once the caller resumes it.
func RestoreTimer(clk clock.Clock, rec *models.TimerStateRecord) *Timer {
	t := NewTimer(clk)
	t.duration = secondsToDuration(rec.RoundDuration)
	t.startedAt = rec.StartedAt
	t.pausedTotal = secondsToDuration(rec.PausedSeconds)
	if rec.WasActive {
		t.state = TimerActive
	} else {
		t.state = TimerPaused
		t.pausedAt = rec.LastSavedAt
	}
	return t
}

// Start begins a countdown of the given duration. Valid only from Idle;
// a duration <= 0 leaves the timer Idle. Returns whether it started.
func (t *Timer) Start(duration time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerIdle || duration <= 0 {
		return false
	}
	t.beginLocked(duration)
	return true
}

// StartStopwatch begins counting up with no fixed duration. Valid only
// from Idle. Returns whether it started.
func (t *Timer) StartStopwatch() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerIdle {
		return false
	}
	t.beginLocked(0)
	return true
}

func (t *Timer) beginLocked(duration time.Duration) {
	t.duration = duration
	t.startedAt = t.clk.Now()
	t.pausedAt = time.Time{}
	t.pausedTotal = 0
	t.finalElapsed = 0
	t.finalPaused = 0
	t.state = TimerActive
}

// Pause freezes the elapsed counter. Valid only from Active; any other
// state is a no-op. Returns whether the state changed.
func (t *Timer) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerActive {
		return false
	}
	t.pausedAt = t.clk.Now()
	t.state = TimerPaused
	return true
}

// Resume continues counting after a pause. Valid only from Paused; any
// other state is a no-op. Returns whether the state changed.
func (t *Timer) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerPaused {
		return false
	}
	if gap := t.clk.Now().Sub(t.pausedAt); gap > 0 {
		t.pausedTotal += gap
	}
	t.pausedAt = time.Time{}
	t.state = TimerActive
	return true
}

// Tick recomputes the snapshot from the clock. A countdown timer whose
// remaining time has reached zero transitions to Completed and the
// returned snapshot is terminal. Outside Active this is a plain read.
func (t *Timer) Tick() models.TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clk.Now()
	snap := t.snapshotLocked(now)
	if t.state == TimerActive && t.duration > 0 && snap.IsExpired {
		t.completeLocked(now)
		snap = t.snapshotLocked(now)
	}
	return snap
}

// Complete freezes the timer in the Completed state, locking in the
// current elapsed and paused totals. Used when the session ends for a
// reason other than countdown expiry (question target reached, manual
// finish). No-op from Idle.
func (t *Timer) Complete() models.TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clk.Now()
	if t.state == TimerActive || t.state == TimerPaused {
		t.completeLocked(now)
	}
	return t.snapshotLocked(now)
}

// Stop forcibly returns the timer to Idle from any state, clearing all
// counters. A stopped timer can be started again.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = TimerIdle
	t.duration = 0
	t.startedAt = time.Time{}
	t.pausedAt = time.Time{}
	t.pausedTotal = 0
	t.finalElapsed = 0
	t.finalPaused = 0
}

// SetTimeRemaining overrides the remaining time of a live countdown.
// Negative values clamp to 0, and 0 forces expiry and completion. On a
// count-up, Idle, or Completed timer this is a plain read.
func (t *Timer) SetTimeRemaining(v time.Duration) models.TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clk.Now()
	if t.duration <= 0 || (t.state != TimerActive && t.state != TimerPaused) {
		return t.snapshotLocked(now)
	}
	if v < 0 {
		v = 0
	}
	t.duration = t.elapsedLocked(now) + v
	if v == 0 {
		t.completeLocked(now)
	}
	return t.snapshotLocked(now)
}

// AddTime extends a live countdown by delta. Non-positive deltas are
// ignored so time can never be shortened through this call. Returns
// whether the delta was applied.
func (t *Timer) AddTime(delta time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if delta <= 0 || t.duration <= 0 {
		return false
	}
	if t.state != TimerActive && t.state != TimerPaused {
		return false
	}
	t.duration += delta
	return true
}

// Snapshot returns the current timer view without driving any transition.
func (t *Timer) Snapshot() models.TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(t.clk.Now())
}

// State returns the current state machine position.
func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsRunning reports whether the timer is Active.
func (t *Timer) IsRunning() bool {
	return t.State() == TimerActive
}

// IsPaused reports whether the timer is Paused.
func (t *Timer) IsPaused() bool {
	return t.State() == TimerPaused
}

// CheckpointState returns the fields a durable checkpoint needs. The
// paused total includes an in-flight pause interval, so restoring a
// paused checkpoint with the save instant as the pause point reproduces
// the frozen elapsed time exactly.
func (t *Timer) CheckpointState() (startedAt time.Time, pausedSeconds float64, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	paused := t.pausedLocked(t.clk.Now())
	return t.startedAt, paused.Seconds(), t.state == TimerActive
}

func (t *Timer) completeLocked(now time.Time) {
	t.finalElapsed = t.elapsedLocked(now)
	t.finalPaused = t.pausedLocked(now)
	t.pausedAt = time.Time{}
	t.state = TimerCompleted
}

func (t *Timer) elapsedLocked(now time.Time) time.Duration {
	var elapsed time.Duration
	switch t.state {
	case TimerActive:
		elapsed = now.Sub(t.startedAt) - t.pausedTotal
	case TimerPaused:
		elapsed = t.pausedAt.Sub(t.startedAt) - t.pausedTotal
	case TimerCompleted:
		elapsed = t.finalElapsed
	}
	// Clock rollback can drive the raw arithmetic negative; the timer
	// clamps and leaves flagging to the validator.
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

func (t *Timer) pausedLocked(now time.Time) time.Duration {
	switch t.state {
	case TimerPaused:
		if gap := now.Sub(t.pausedAt); gap > 0 {
			return t.pausedTotal + gap
		}
		return t.pausedTotal
	case TimerCompleted:
		return t.finalPaused
	default:
		return t.pausedTotal
	}
}

func (t *Timer) snapshotLocked(now time.Time) models.TimerSnapshot {
	elapsed := t.elapsedLocked(now)
	snap := models.TimerSnapshot{
		TotalTime:  elapsed.Seconds(),
		PausedTime: t.pausedLocked(now).Seconds(),
	}
	if t.duration > 0 {
		remaining := t.duration - elapsed
		if remaining < 0 {
			remaining = 0
		}
		snap.TimeRemaining = remaining.Seconds()
		snap.IsExpired = remaining == 0
	}
	return snap
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
