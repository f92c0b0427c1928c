// Package gesture classifies a raw single-pointer input stream into the
// commands consumed by the navigation state machine.
package gesture

import (
	"math"
	"time"
)

// Design constants shared by every host.
const (
	// LongPressDuration is the hold time at or beyond which a motionless
	// gesture is a long-press rather than a tap.
	LongPressDuration = 500 * time.Millisecond

	// TapSlop is the motion, in logical pixels, below which a gesture can
	// still be a tap.
	TapSlop = 5.0
)

// Phase is the position of a pointer event in its gesture.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseActive
	PhaseEnd
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseActive:
		return "active"
	case PhaseEnd:
		return "end"
	case PhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerEvent is one raw input sample. Positions and translations are in
// logical pixels; translation is measured from the gesture's start and
// velocity in pixels per second.
type PointerEvent struct {
	Phase        Phase
	X, Y         float64
	TranslationX float64
	TranslationY float64
	VelocityX    float64
	VelocityY    float64
	Time         time.Time
}

// Axis is the drag direction a gesture locked onto.
type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "none"
	}
}

// CommandKind enumerates what the interpreter asks of the state machine.
type CommandKind int

const (
	// CommandBegin freezes playback at the start of any gesture.
	CommandBegin CommandKind = iota + 1
	// CommandDragHorizontal moves the page offset; Translation is the
	// pointer's horizontal translation.
	CommandDragHorizontal
	// CommandDragVertical moves the dismiss offset; Translation is the
	// pointer's vertical translation.
	CommandDragVertical
	// CommandSettleHorizontal ends a horizontal drag.
	CommandSettleHorizontal
	// CommandSettleVertical ends a vertical drag; Translation is the final
	// vertical translation.
	CommandSettleVertical
	CommandTapLeft
	CommandTapRight
	// CommandRelease ends a long-press hold.
	CommandRelease
	// CommandCancel abandons the gesture; the machine restores the
	// pre-gesture page and resumes.
	CommandCancel
)

var commandNames = map[CommandKind]string{
	CommandBegin:            "begin",
	CommandDragHorizontal:   "drag-horizontal",
	CommandDragVertical:     "drag-vertical",
	CommandSettleHorizontal: "settle-horizontal",
	CommandSettleVertical:   "settle-vertical",
	CommandTapLeft:          "tap-left",
	CommandTapRight:         "tap-right",
	CommandRelease:          "release",
	CommandCancel:           "cancel",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one instruction for the navigation state machine.
type Command struct {
	Kind        CommandKind
	Translation float64
}

// Terminal reports whether the command ends a gesture.
func (c Command) Terminal() bool {
	switch c.Kind {
	case CommandSettleHorizontal, CommandSettleVertical, CommandTapLeft,
		CommandTapRight, CommandRelease, CommandCancel:
		return true
	default:
		return false
	}
}

// Interpreter turns pointer events into commands. It holds only
// gesture-local state, cleared at the end of every gesture.
type Interpreter struct {
	width float64

	active    bool
	axis      Axis
	pressedAt time.Time
	motion    float64
}

// NewInterpreter returns an interpreter for a viewer of the given width.
func NewInterpreter(width float64) *Interpreter {
	return &Interpreter{width: width}
}

// SetWidth updates the viewer width used to split taps.
func (i *Interpreter) SetWidth(width float64) { i.width = width }

// Active reports whether a gesture is in progress.
func (i *Interpreter) Active() bool { return i.active }

// Axis returns the locked axis of the gesture in progress.
func (i *Interpreter) Axis() Axis { return i.axis }

// Handle consumes one pointer event and returns the commands it produces.
// Events that arrive outside a gesture (active or end without start) are
// dropped.
func (i *Interpreter) Handle(ev PointerEvent) []Command {
	switch ev.Phase {
	case PhaseStart:
		i.reset()
		i.active = true
		i.pressedAt = ev.Time
		return []Command{{Kind: CommandBegin}}

	case PhaseActive:
		if !i.active {
			return nil
		}
		return i.track(ev)

	case PhaseEnd:
		if !i.active {
			return nil
		}
		cmds := i.track(ev)
		cmds = append(cmds, i.finish(ev))
		i.reset()
		return cmds

	case PhaseCancel:
		if !i.active {
			return nil
		}
		i.reset()
		return []Command{{Kind: CommandCancel}}
	}
	return nil
}

func (i *Interpreter) track(ev PointerEvent) []Command {
	i.motion = math.Max(i.motion, math.Hypot(ev.TranslationX, ev.TranslationY))

	if i.axis == AxisNone {
		if i.motion < TapSlop {
			return nil
		}
		i.axis = lockAxis(ev)
	}

	switch i.axis {
	case AxisVertical:
		return []Command{{Kind: CommandDragVertical, Translation: ev.TranslationY}}
	default:
		return []Command{{Kind: CommandDragHorizontal, Translation: ev.TranslationX}}
	}
}

func (i *Interpreter) finish(ev PointerEvent) Command {
	switch i.axis {
	case AxisVertical:
		return Command{Kind: CommandSettleVertical, Translation: ev.TranslationY}
	case AxisHorizontal:
		return Command{Kind: CommandSettleHorizontal, Translation: ev.TranslationX}
	}

	if ev.Time.Sub(i.pressedAt) >= LongPressDuration {
		return Command{Kind: CommandRelease}
	}
	if ev.X < i.width/2 {
		return Command{Kind: CommandTapLeft}
	}
	return Command{Kind: CommandTapRight}
}

func (i *Interpreter) reset() {
	i.active = false
	i.axis = AxisNone
	i.pressedAt = time.Time{}
	i.motion = 0
}

// lockAxis picks the dominant axis by velocity, falling back to translation
// when the event carries no velocity. Ties go horizontal.
func lockAxis(ev PointerEvent) Axis {
	vx, vy := math.Abs(ev.VelocityX), math.Abs(ev.VelocityY)
	if vx == 0 && vy == 0 {
		vx, vy = math.Abs(ev.TranslationX), math.Abs(ev.TranslationY)
	}
	if vx < vy {
		return AxisVertical
	}
	return AxisHorizontal
}
