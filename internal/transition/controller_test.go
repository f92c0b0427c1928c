package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/navigator"
)

type recordingHost struct {
	calls []string
}

func (h *recordingHost) OnLoad()               { h.calls = append(h.calls, "load") }
func (h *recordingHost) OnShow(storyID string) { h.calls = append(h.calls, "show:"+storyID) }
func (h *recordingHost) OnHide(storyID string) { h.calls = append(h.calls, "hide:"+storyID) }

var geometry = navigator.Geometry{Width: 400, Height: 800}

func idle() navigator.State {
	return navigator.State{Phase: navigator.PhaseIdle, Geometry: geometry, OffsetY: 800}
}

func playing(offsetX float64, storyID string) navigator.State {
	return navigator.State{
		Phase:    navigator.PhasePlaying,
		Visible:  true,
		Geometry: geometry,
		OffsetX:  offsetX,
		DisplayX: offsetX,
		StoryID:  storyID,
	}
}

func newController(host Host) *Controller {
	nop := logging.Nop()
	return NewController(host, &nop)
}

func kinds(requests []Request) []RequestKind {
	out := make([]RequestKind, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.Kind)
	}
	return out
}

func TestBecomingVisibleSignalsHostAndEnters(t *testing.T) {
	host := &recordingHost{}
	c := newController(host)

	next := playing(0, "s1")
	next.OffsetY = 800
	requests := c.Observe(idle(), next)

	assert.Equal(t, []string{"show:s1", "load"}, host.calls)
	require.Len(t, requests, 1)
	assert.Equal(t, Request{Kind: RequestEntry, From: 800, To: 0, Opacity: 1}, requests[0])
}

func TestClosingRequestsExitAndHidesOnceSettled(t *testing.T) {
	host := &recordingHost{}
	c := newController(host)

	open := playing(400, "s2")
	closing := open
	closing.Phase = navigator.PhaseClosing

	requests := c.Observe(open, closing)
	assert.Equal(t, []RequestKind{RequestExit}, kinds(requests))
	assert.Empty(t, host.calls, "hide waits for the exit animation")

	hidden := closing
	hidden.Phase = navigator.PhaseIdle
	hidden.Visible = false
	hidden.OffsetY = 800
	assert.Empty(t, c.Observe(closing, hidden))
	assert.Equal(t, []string{"hide:s2"}, host.calls)
}

func TestImmediateCloseStillRequestsExit(t *testing.T) {
	host := &recordingHost{}
	c := newController(host)

	hidden := playing(0, "s1")
	hidden.Phase = navigator.PhaseIdle
	hidden.Visible = false

	requests := c.Observe(playing(0, "s1"), hidden)
	assert.Equal(t, []RequestKind{RequestExit}, kinds(requests))
	assert.Equal(t, []string{"hide:s1"}, host.calls)
}

func TestVerticalDragFeedbackAndRestore(t *testing.T) {
	c := newController(nil)

	start := playing(0, "s1")
	start.Phase = navigator.PhasePaused
	drag := start
	drag.Phase = navigator.PhaseDraggingVertical
	drag.OffsetY = 200

	requests := c.Observe(start, drag)
	require.Len(t, requests, 1)
	assert.Equal(t, RequestDismissFeedback, requests[0].Kind)
	assert.InDelta(t, 0.75, requests[0].Opacity, 1e-9)

	restored := playing(0, "s1")
	requests = c.Observe(drag, restored)
	require.Len(t, requests, 1)
	assert.Equal(t, Request{Kind: RequestRestore, From: 200, To: 0, Opacity: 1}, requests[0])
}

func TestPageChangeRequestsSlide(t *testing.T) {
	c := newController(nil)

	requests := c.Observe(playing(0, "a"), playing(400, "b"))
	require.Len(t, requests, 1)
	assert.Equal(t, RequestSlide, requests[0].Kind)
	assert.Equal(t, 0.0, requests[0].From)
	assert.Equal(t, 400.0, requests[0].To)
}

func TestHorizontalDragDoesNotRequestSlide(t *testing.T) {
	c := newController(nil)

	drag := playing(120, "a")
	drag.Phase = navigator.PhaseDraggingHorizontal
	assert.Empty(t, c.Observe(playing(0, "a"), drag))

	settled := playing(0, "a")
	requests := c.Observe(drag, settled)
	assert.Equal(t, []RequestKind{RequestSlide}, kinds(requests), "snap back animates to the page")
}

func TestUnchangedStateIsQuiet(t *testing.T) {
	host := &recordingHost{}
	c := newController(host)

	assert.Empty(t, c.Observe(playing(0, "a"), playing(0, "a")))
	assert.Empty(t, c.Observe(idle(), idle()))
	assert.Empty(t, host.calls)
}

func TestHostFuncsSkipsNilFields(t *testing.T) {
	var shown string
	h := HostFuncs{Show: func(id string) { shown = id }}
	assert.NotPanics(t, func() {
		h.OnLoad()
		h.OnShow("x")
		h.OnHide("x")
	})
	assert.Equal(t, "x", shown)
	assert.Equal(t, "dismiss-feedback", RequestDismissFeedback.String())
}
