package gesture

import "time"

// Tracker synthesizes pointer events from bare positions, for hosts whose
// input layer reports only press/move/release coordinates.
type Tracker struct {
	down             bool
	originX, originY float64
	lastX, lastY     float64
	lastAt           time.Time
	vx, vy           float64
}

// Down reports whether the pointer is pressed.
func (t *Tracker) Down() bool { return t.down }

// Press starts a gesture at (x, y).
func (t *Tracker) Press(x, y float64, now time.Time) PointerEvent {
	t.down = true
	t.originX, t.originY = x, y
	t.lastX, t.lastY = x, y
	t.lastAt = now
	t.vx, t.vy = 0, 0
	return PointerEvent{Phase: PhaseStart, X: x, Y: y, Time: now}
}

// Move reports pointer motion. ok is false when no gesture is in progress.
func (t *Tracker) Move(x, y float64, now time.Time) (PointerEvent, bool) {
	if !t.down {
		return PointerEvent{}, false
	}
	t.sample(x, y, now)
	return t.event(PhaseActive, x, y, now), true
}

// Release ends the gesture at (x, y).
func (t *Tracker) Release(x, y float64, now time.Time) (PointerEvent, bool) {
	if !t.down {
		return PointerEvent{}, false
	}
	t.sample(x, y, now)
	t.down = false
	return t.event(PhaseEnd, x, y, now), true
}

// Cancel abandons the gesture.
func (t *Tracker) Cancel(now time.Time) (PointerEvent, bool) {
	if !t.down {
		return PointerEvent{}, false
	}
	t.down = false
	return PointerEvent{Phase: PhaseCancel, X: t.lastX, Y: t.lastY, Time: now}, true
}

func (t *Tracker) sample(x, y float64, now time.Time) {
	dt := now.Sub(t.lastAt).Seconds()
	if dt <= 0 {
		dt = time.Millisecond.Seconds()
	}
	if x != t.lastX || y != t.lastY {
		t.vx = (x - t.lastX) / dt
		t.vy = (y - t.lastY) / dt
	}
	t.lastX, t.lastY = x, y
	t.lastAt = now
}

func (t *Tracker) event(phase Phase, x, y float64, now time.Time) PointerEvent {
	return PointerEvent{
		Phase:        phase,
		X:            x,
		Y:            y,
		TranslationX: x - t.originX,
		TranslationY: y - t.originY,
		VelocityX:    t.vx,
		VelocityY:    t.vy,
		Time:         now,
	}
}
