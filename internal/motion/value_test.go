package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSettledValue(t *testing.T) {
	v := NewValue(42)
	assert.Equal(t, 42.0, v.At(epoch))
	assert.False(t, v.Animating(epoch))
	assert.True(t, v.EndsAt().IsZero())
}

func TestAnimateToInterpolates(t *testing.T) {
	v := NewValue(0)
	v.AnimateTo(epoch, 100, time.Second)

	assert.Equal(t, 0.0, v.At(epoch))
	assert.InDelta(t, 50, v.At(epoch.Add(500*time.Millisecond)), 1e-9)
	assert.True(t, v.Animating(epoch.Add(999*time.Millisecond)))
	assert.False(t, v.Animating(epoch.Add(time.Second)))
	assert.Equal(t, 100.0, v.At(epoch.Add(2*time.Second)))
	assert.Equal(t, epoch.Add(time.Second), v.EndsAt())
}

func TestAnimateToRetargetsFromCurrentValue(t *testing.T) {
	v := NewValue(0)
	v.AnimateTo(epoch, 100, time.Second)
	mid := epoch.Add(500 * time.Millisecond)
	v.AnimateTo(mid, 0, time.Second)
	assert.InDelta(t, 50, v.At(mid), 1e-9)
	assert.Equal(t, 0.0, v.At(mid.Add(time.Second)))
}

func TestZeroDurationJumps(t *testing.T) {
	v := NewValue(10)
	v.AnimateTo(epoch, 20, 0)
	assert.Equal(t, 20.0, v.At(epoch))
	assert.False(t, v.Animating(epoch))
}

func TestEaseInOutQuadEndpoints(t *testing.T) {
	assert.InDelta(t, 0, EaseInOutQuad(0), 1e-9)
	assert.InDelta(t, 0.5, EaseInOutQuad(0.5), 1e-9)
	assert.InDelta(t, 1, EaseInOutQuad(1), 1e-9)
	assert.Less(t, EaseInOutQuad(0.25), 0.25)
}
