// Package navigator is the navigation state machine of the stories viewer.
//
// A Machine owns the active user (derived from the horizontal offset), the
// active story, the progress timer and the dismiss offset. It is not safe
// for concurrent use: every call must come from the single consumer that
// serializes gestures, ticks and programmatic commands.
package navigator

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/reel/internal/gesture"
	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/motion"
	"github.com/tOgg1/reel/internal/progress"
	"github.com/tOgg1/reel/internal/timeline"
)

// DismissThreshold is the vertical drag translation, in logical pixels,
// beyond which releasing closes the viewer.
const DismissThreshold = 100.0

// DefaultAnimationDuration matches the slide and entry/exit animations.
const DefaultAnimationDuration = 300 * time.Millisecond

// DefaultGeometry is used when the host supplies no viewport.
var DefaultGeometry = Geometry{Width: 390, Height: 844}

// Config configures a Machine.
type Config struct {
	Geometry          Geometry
	AnimationDuration time.Duration
	Now               func() time.Time
	Logger            *zerolog.Logger
}

// Machine is the navigation state machine.
type Machine struct {
	timeline *timeline.Timeline
	timer    *progress.Timer
	geometry Geometry
	anim     time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	phase   Phase
	visible bool

	offsetX  float64
	pageX    float64
	displayX motion.Value
	offsetY  motion.Value
	storyID  string

	// originX is the offset when the current gesture began.
	originX float64
}

// New returns an idle machine over tl.
func New(tl *timeline.Timeline, cfg Config) *Machine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	geometry := cfg.Geometry
	if geometry.Width <= 0 || geometry.Height <= 0 {
		geometry = DefaultGeometry
	}
	logger := logging.Component("navigator")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Machine{
		timeline: tl,
		timer:    progress.New(),
		geometry: geometry,
		anim:     cfg.AnimationDuration,
		now:      now,
		logger:   logger,
		displayX: motion.NewValue(0),
		offsetY:  motion.NewValue(geometry.Height),
	}
}

// Timeline returns the timeline the machine navigates.
func (m *Machine) Timeline() *timeline.Timeline { return m.timeline }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// UserIndex is the active user: round(offsetX / width), clamped.
func (m *Machine) UserIndex() int {
	return PageIndex(m.offsetX, m.geometry.Width, m.timeline.UserCount())
}

// State returns a snapshot at the machine's current time.
func (m *Machine) State() State {
	now := m.now()
	index := m.UserIndex()
	user, _ := m.timeline.User(index)
	return State{
		Phase:      m.phase,
		Visible:    m.visible,
		Geometry:   m.geometry,
		OffsetX:    m.offsetX,
		DisplayX:   m.displayX.At(now),
		OffsetY:    m.offsetY.At(now),
		UserIndex:  index,
		UserID:     user.ID,
		StoryID:    m.storyID,
		StoryIndex: m.timeline.StoryIndex(index, m.storyID),
		StoryCount: len(user.Stories),
		Progress:   m.timer.Fraction(now),
		Remaining:  m.timer.Remaining(now),
		Run:        m.timer.Run(),
	}
}

// Open shows the viewer at userID (Idle → Playing). An empty userID opens at
// the first user. Unknown users and an already open viewer are no-ops.
func (m *Machine) Open(userID string) bool {
	if m.phase != PhaseIdle {
		m.noop("open", "viewer already open")
		return false
	}
	index := 0
	if userID != "" {
		index = m.timeline.IndexOfUser(userID)
		if index == timeline.NotFound {
			m.noop("open", "unknown user")
			return false
		}
	}

	now := m.now()
	m.setPage(float64(index) * m.geometry.Width)
	m.displayX.Set(m.pageX)
	m.storyID = m.timeline.StoryAt(index)
	m.visible = true
	m.offsetY.Set(m.geometry.Height)
	m.offsetY.AnimateTo(now, 0, m.anim)
	m.startFresh(now)
	m.logger.Debug().Str("user_id", m.timeline.UserID(index)).Str("story_id", m.storyID).Msg("viewer opened")
	return true
}

// Show is the host's programmatic entry point: it opens a closed viewer at
// userID, or jumps an open one to userID.
func (m *Machine) Show(userID string, animated bool) bool {
	if m.phase == PhaseIdle {
		return m.Open(userID)
	}
	return m.JumpToUser(userID, animated)
}

// JumpToUser moves to userID's page, resumes that user at its seen story and
// restarts playback. Unknown users, a closed viewer and a target equal to
// the current page are no-ops; mid-drag, the current page is the one under
// the finger.
func (m *Machine) JumpToUser(userID string, animated bool) bool {
	if !m.phase.Open() {
		m.noop("jump", "viewer not open")
		return false
	}
	index := m.timeline.IndexOfUser(userID)
	if index == timeline.NotFound {
		m.noop("jump", "unknown user")
		return false
	}
	return m.jumpToIndex(index, animated)
}

// AdvanceStory moves to the next story, then the next user, then closes.
func (m *Machine) AdvanceStory() bool {
	if !m.phase.Open() {
		return false
	}
	index := m.UserIndex()
	if next, ok := m.timeline.NextStory(index, m.storyID); ok {
		m.storyID = next
		m.startFresh(m.now())
		return true
	}
	if index+1 < m.timeline.UserCount() {
		return m.jumpToIndex(index+1, true)
	}
	return m.Close()
}

// RetreatStory moves to the previous story, then the previous user. It is a
// no-op on the first story of the first user.
func (m *Machine) RetreatStory() bool {
	if !m.phase.Open() {
		return false
	}
	index := m.UserIndex()
	if prev, ok := m.timeline.PreviousStory(index, m.storyID); ok {
		m.storyID = prev
		m.startFresh(m.now())
		return true
	}
	if index > 0 {
		return m.jumpToIndex(index-1, true)
	}
	m.noop("retreat", "first story of first user")
	return false
}

// PauseForHold freezes playback (Playing → Paused).
func (m *Machine) PauseForHold() bool {
	if m.phase != PhasePlaying {
		return false
	}
	m.timer.Pause(m.now())
	m.phase = PhasePaused
	m.logger.Debug().Str("story_id", m.storyID).Msg("playback paused")
	return true
}

// ResumeFromHold continues playback from the frozen fraction
// (Paused → Playing).
func (m *Machine) ResumeFromHold() bool {
	if m.phase != PhasePaused {
		return false
	}
	m.resume(m.now())
	return true
}

// Close starts the exit animation (→ Closing). The machine becomes Idle once
// the animation settles, or immediately when animations are disabled.
func (m *Machine) Close() bool {
	if !m.phase.Open() {
		return false
	}
	now := m.now()
	m.commitGesture(now)
	m.timer.Cancel()
	m.phase = PhaseClosing
	m.offsetY.AnimateTo(now, m.geometry.Height, m.anim)
	m.logger.Debug().Str("story_id", m.storyID).Msg("viewer closing")
	if !m.offsetY.Animating(now) {
		m.finishClose()
	}
	return true
}

// Tick advances animations and the progress timer. Timer completion while
// playing advances the story.
func (m *Machine) Tick() {
	now := m.now()
	switch m.phase {
	case PhaseClosing:
		if !m.offsetY.Animating(now) {
			m.finishClose()
		}
	case PhasePlaying:
		if m.timer.Poll(now) {
			m.logger.Debug().Str("story_id", m.storyID).Msg("story completed")
			m.AdvanceStory()
		}
	}
}

// NextDeadline is the earliest time Tick has work to do, or zero.
func (m *Machine) NextDeadline() time.Time {
	switch m.phase {
	case PhaseClosing:
		return m.offsetY.EndsAt()
	case PhasePlaying:
		return m.timer.Deadline()
	}
	return time.Time{}
}

// Resize applies a new viewport, keeping the active user on its page.
func (m *Machine) Resize(geometry Geometry) {
	if geometry.Width <= 0 || geometry.Height <= 0 {
		return
	}
	index := PageIndex(m.pageX, m.geometry.Width, m.timeline.UserCount())
	m.geometry = geometry
	m.setPage(float64(index) * geometry.Width)
	m.displayX.Set(m.pageX)
	if !m.visible {
		m.offsetY.Set(geometry.Height)
	}
	if m.phase.Dragging() {
		m.originX = m.pageX
	}
}

// Apply executes one gesture command.
func (m *Machine) Apply(cmd gesture.Command) {
	switch cmd.Kind {
	case gesture.CommandBegin:
		m.beginGesture()
	case gesture.CommandDragHorizontal:
		m.dragHorizontal(cmd.Translation)
	case gesture.CommandDragVertical:
		m.dragVertical(cmd.Translation)
	case gesture.CommandSettleHorizontal:
		m.settleHorizontal()
	case gesture.CommandSettleVertical:
		m.settleVertical(cmd.Translation)
	case gesture.CommandTapLeft:
		if m.phase.Open() && !m.RetreatStory() {
			m.resume(m.now())
		}
	case gesture.CommandTapRight:
		m.AdvanceStory()
	case gesture.CommandRelease:
		m.ResumeFromHold()
	case gesture.CommandCancel:
		m.cancelGesture()
	}
}

func (m *Machine) beginGesture() {
	if !m.phase.Open() {
		return
	}
	m.originX = m.offsetX
	m.timer.Pause(m.now())
	if m.phase == PhasePlaying {
		m.phase = PhasePaused
	}
}

func (m *Machine) dragHorizontal(translation float64) {
	switch m.phase {
	case PhasePlaying, PhasePaused:
		m.timer.Pause(m.now())
		m.originX = m.offsetX
		m.phase = PhaseDraggingHorizontal
	case PhaseDraggingHorizontal:
	default:
		return
	}

	maxOffset := m.geometry.Width * float64(m.timeline.UserCount()-1)
	before := m.UserIndex()
	m.offsetX = math.Max(0, math.Min(m.originX-translation, maxOffset))
	m.displayX.Set(m.offsetX)
	if after := m.UserIndex(); after != before {
		m.storyID = m.timeline.StoryAt(after)
	}
}

func (m *Machine) dragVertical(translation float64) {
	switch m.phase {
	case PhasePlaying, PhasePaused:
		m.timer.Pause(m.now())
		m.phase = PhaseDraggingVertical
	case PhaseDraggingVertical:
	default:
		return
	}
	m.offsetY.Set(math.Max(0, translation/2))
}

func (m *Machine) settleHorizontal() {
	if m.phase != PhaseDraggingHorizontal {
		return
	}
	displacement := m.offsetX - m.originX
	origin := PageIndex(m.originX, m.geometry.Width, m.timeline.UserCount())

	target := origin
	switch {
	case displacement > 0:
		target = origin + 1
	case displacement < 0:
		target = origin - 1
	}
	if target != origin && m.jumpToIndex(target, true) {
		return
	}
	m.snapBack()
}

func (m *Machine) settleVertical(translation float64) {
	if m.phase != PhaseDraggingVertical {
		return
	}
	if translation > DismissThreshold {
		m.Close()
		return
	}
	now := m.now()
	m.offsetY.AnimateTo(now, 0, m.anim)
	m.resume(now)
}

func (m *Machine) cancelGesture() {
	switch m.phase {
	case PhaseDraggingHorizontal:
		m.snapBack()
	case PhaseDraggingVertical:
		now := m.now()
		m.offsetY.AnimateTo(now, 0, m.anim)
		m.resume(now)
	case PhasePaused:
		m.resume(m.now())
	}
}

// snapBack returns a horizontal drag to the committed page and resumes.
func (m *Machine) snapBack() {
	now := m.now()
	m.offsetX = m.pageX
	m.displayX.AnimateTo(now, m.pageX, m.anim)
	m.storyID = m.timeline.StoryAt(m.UserIndex())
	m.resume(now)
}

func (m *Machine) jumpToIndex(index int, animated bool) bool {
	if index < 0 || index >= m.timeline.UserCount() {
		m.noop("jump", "no such user")
		return false
	}
	target := float64(index) * m.geometry.Width
	if target == m.pageX && (m.phase != PhaseDraggingHorizontal || m.UserIndex() == index) {
		m.noop("jump", "already on target page")
		return false
	}

	now := m.now()
	m.setPage(target)
	if animated {
		m.displayX.AnimateTo(now, target, m.anim)
	} else {
		m.displayX.Set(target)
	}
	m.storyID = m.timeline.StoryAt(index)
	m.startFresh(now)
	m.logger.Debug().Str("user_id", m.timeline.UserID(index)).Str("story_id", m.storyID).Msg("jumped to user")
	return true
}

// startFresh restarts the timer for the active story and records it as the
// user's resume point.
func (m *Machine) startFresh(now time.Time) {
	m.commitGesture(now)
	index := m.UserIndex()
	m.timer.Cancel()
	m.timer.Start(now, m.timeline.Duration(index, m.storyID))
	m.timeline.MarkSeen(m.timeline.UserID(index), m.storyID)
	m.phase = PhasePlaying
}

// commitGesture settles an in-flight drag before a programmatic transition.
// A horizontal drag commits the page under the finger; a vertical one lifts
// the sheet back up. Further drag commands start a new drag from there.
func (m *Machine) commitGesture(now time.Time) {
	switch m.phase {
	case PhaseDraggingHorizontal:
		page := float64(m.UserIndex()) * m.geometry.Width
		m.setPage(page)
		m.displayX.AnimateTo(now, page, m.anim)
	case PhaseDraggingVertical:
		m.offsetY.AnimateTo(now, 0, m.anim)
	}
}

func (m *Machine) resume(now time.Time) {
	if !m.phase.Open() {
		return
	}
	m.timer.Resume(now)
	m.phase = PhasePlaying
}

func (m *Machine) finishClose() {
	m.phase = PhaseIdle
	m.visible = false
	m.offsetY.Set(m.geometry.Height)
	m.logger.Debug().Str("story_id", m.storyID).Msg("viewer hidden")
}

func (m *Machine) setPage(offset float64) {
	m.offsetX = offset
	m.pageX = offset
}

func (m *Machine) noop(op, reason string) {
	m.logger.Debug().Str("op", op).Str("reason", reason).Str("phase", m.phase.String()).Msg("navigation no-op")
}
