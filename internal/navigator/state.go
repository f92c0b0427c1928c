package navigator

import (
	"math"
	"time"
)

// Phase is the viewer's navigation phase.
type Phase int

const (
	// PhaseIdle means the viewer is closed.
	PhaseIdle Phase = iota
	PhasePlaying
	PhasePaused
	PhaseDraggingVertical
	PhaseDraggingHorizontal
	// PhaseClosing runs the exit animation; it becomes Idle when the
	// animation settles.
	PhaseClosing
)

var phaseNames = [...]string{
	PhaseIdle:               "idle",
	PhasePlaying:            "playing",
	PhasePaused:             "paused",
	PhaseDraggingVertical:   "dragging-vertical",
	PhaseDraggingHorizontal: "dragging-horizontal",
	PhaseClosing:            "closing",
}

func (p Phase) String() string {
	if int(p) >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Open reports whether the phase accepts navigation.
func (p Phase) Open() bool {
	return p != PhaseIdle && p != PhaseClosing
}

// Dragging reports whether a drag owns the offsets.
func (p Phase) Dragging() bool {
	return p == PhaseDraggingVertical || p == PhaseDraggingHorizontal
}

// Geometry is the viewport size in logical pixels.
type Geometry struct {
	Width  float64
	Height float64
}

// State is a snapshot of the navigation state at one instant.
type State struct {
	Phase   Phase
	Visible bool

	Geometry Geometry

	// OffsetX is the live horizontal offset. It follows the pointer
	// during a horizontal drag and otherwise sits on a page boundary.
	OffsetX float64
	// DisplayX is OffsetX as the render layer should draw it, including
	// slide animations.
	DisplayX float64
	// OffsetY is the vertical dismiss offset: 0 fully shown, Height fully
	// hidden.
	OffsetY float64

	UserIndex  int
	UserID     string
	StoryID    string
	StoryIndex int
	StoryCount int

	// Progress is the playback fraction of the active story.
	Progress float64
	// Remaining is the playback time left, frozen while paused.
	Remaining time.Duration
	// Run changes every time a story starts a fresh playback run.
	Run uint64
}

// Opacity is the background opacity implied by the vertical offset.
func (s State) Opacity() float64 {
	return OpacityAt(s.OffsetY, s.Geometry.Height)
}

// OpacityAt maps a vertical offset to background opacity, 1 at the top and
// 0 once the sheet has slid a full height.
func OpacityAt(y, height float64) float64 {
	if height <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, 1-y/height))
}

// PageIndex returns round(offset/width) clamped to [0, count-1].
func PageIndex(offset, width float64, count int) int {
	if width <= 0 || count <= 0 {
		return 0
	}
	index := int(math.Round(offset / width))
	if index < 0 {
		return 0
	}
	if index > count-1 {
		return count - 1
	}
	return index
}
