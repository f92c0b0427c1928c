// Package motion animates scalar values over time for offset transitions.
package motion

import "time"

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(float64) float64

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// EaseInOutQuad accelerates through the first half and decelerates through
// the second.
func EaseInOutQuad(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	return 1 - (-2*p+2)*(-2*p+2)/2
}

// Value is a scalar that is either settled or animating toward a target.
type Value struct {
	from     float64
	to       float64
	start    time.Time
	duration time.Duration
	easing   Easing
}

// NewValue returns a settled value.
func NewValue(v float64) Value {
	return Value{from: v, to: v, easing: EaseInOutQuad}
}

// Set jumps to v, cancelling any animation.
func (v *Value) Set(x float64) {
	v.from = x
	v.to = x
	v.duration = 0
}

// AnimateTo starts an animation from the value at now toward target. A
// non-positive duration jumps immediately.
func (v *Value) AnimateTo(now time.Time, target float64, d time.Duration) {
	if d <= 0 {
		v.Set(target)
		return
	}
	v.from = v.At(now)
	v.to = target
	v.start = now
	v.duration = d
	if v.easing == nil {
		v.easing = EaseInOutQuad
	}
}

// At returns the value at now.
func (v Value) At(now time.Time) float64 {
	if v.duration <= 0 {
		return v.to
	}
	elapsed := now.Sub(v.start)
	if elapsed >= v.duration {
		return v.to
	}
	if elapsed <= 0 {
		return v.from
	}
	p := float64(elapsed) / float64(v.duration)
	easing := v.easing
	if easing == nil {
		easing = Linear
	}
	return v.from + (v.to-v.from)*easing(p)
}

// Animating reports whether the value is still moving at now.
func (v Value) Animating(now time.Time) bool {
	return v.duration > 0 && now.Sub(v.start) < v.duration
}

// EndsAt returns when the current animation settles. Zero for a settled
// value.
func (v Value) EndsAt() time.Time {
	if v.duration <= 0 {
		return time.Time{}
	}
	return v.start.Add(v.duration)
}
