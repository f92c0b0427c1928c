// Package progress drives the normalized [0,1] playback value of the active
// story.
//
// Timer is poll-driven: it never sleeps or spawns goroutines. The owner
// calls Poll with the current time on every frame and acts on the
// completion report, which keeps completion on the same serialized queue as
// every other input.
package progress

import (
	"math"
	"time"
)

// State is the timer lifecycle.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Timer advances a fraction linearly from 0 to 1 over a duration.
type Timer struct {
	state    State
	duration time.Duration

	// Current segment: the fraction advances from base to 1 over
	// remaining, starting at segmentStart.
	base         float64
	remaining    time.Duration
	segmentStart time.Time

	frozen float64
	run    uint64

	onComplete func(run uint64)
}

// Option configures a Timer.
type Option func(*Timer)

// WithOnComplete registers a callback invoked from Poll exactly once per
// run that reaches the end. The argument is the run number returned by
// Start.
func WithOnComplete(fn func(run uint64)) Option {
	return func(t *Timer) {
		t.onComplete = fn
	}
}

// New returns a stopped timer.
func New(opts ...Option) *Timer {
	t := &Timer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start cancels any in-flight run, resets the fraction to 0 and begins a new
// run of duration d. It returns the run number.
func (t *Timer) Start(now time.Time, d time.Duration) uint64 {
	t.run++
	t.state = Running
	t.duration = d
	t.base = 0
	t.frozen = 0
	t.remaining = d
	t.segmentStart = now
	return t.run
}

// Pause freezes the fraction. It is a no-op unless the timer is running.
func (t *Timer) Pause(now time.Time) bool {
	if t.state != Running {
		return false
	}
	t.frozen = t.fractionAt(now)
	t.state = Paused
	return true
}

// Resume continues from the frozen fraction over the remaining duration,
// duration × (1 − frozen). It is a no-op unless the timer is paused.
func (t *Timer) Resume(now time.Time) bool {
	if t.state != Paused {
		return false
	}
	t.base = t.frozen
	t.remaining = scale(t.duration, 1-t.frozen)
	t.segmentStart = now
	t.state = Running
	return true
}

// Cancel stops the timer from any state and resets the fraction to 0
// without firing completion.
func (t *Timer) Cancel() {
	t.state = Stopped
	t.base = 0
	t.frozen = 0
	t.remaining = 0
}

// Poll reports whether the current run completed at now. It returns true
// exactly once per run; the timer is Stopped afterwards with fraction 1.
func (t *Timer) Poll(now time.Time) bool {
	if t.state != Running {
		return false
	}
	if now.Before(t.Deadline()) {
		return false
	}
	t.state = Stopped
	t.frozen = 1
	if t.onComplete != nil {
		t.onComplete(t.run)
	}
	return true
}

// Fraction returns the playback fraction at now.
func (t *Timer) Fraction(now time.Time) float64 {
	switch t.state {
	case Running:
		return t.fractionAt(now)
	default:
		return t.frozen
	}
}

// Deadline is when the current running segment reaches 1. Zero when the
// timer is not running.
func (t *Timer) Deadline() time.Time {
	if t.state != Running {
		return time.Time{}
	}
	return t.segmentStart.Add(t.remaining)
}

// Remaining is the playback time left in the current run.
func (t *Timer) Remaining(now time.Time) time.Duration {
	switch t.state {
	case Running:
		left := t.Deadline().Sub(now)
		if left < 0 {
			return 0
		}
		return left
	case Paused:
		return scale(t.duration, 1-t.frozen)
	default:
		return 0
	}
}

// State returns the lifecycle state.
func (t *Timer) State() State { return t.state }

// Duration returns the full duration of the current run.
func (t *Timer) Duration() time.Duration { return t.duration }

// Run returns the current run number.
func (t *Timer) Run() uint64 { return t.run }

func (t *Timer) fractionAt(now time.Time) float64 {
	if t.remaining <= 0 {
		return 1
	}
	elapsed := now.Sub(t.segmentStart)
	if elapsed <= 0 {
		return t.base
	}
	value := t.base + (1-t.base)*float64(elapsed)/float64(t.remaining)
	if value > 1 {
		return 1
	}
	return value
}

func scale(d time.Duration, factor float64) time.Duration {
	return time.Duration(math.Round(float64(d) * factor))
}
