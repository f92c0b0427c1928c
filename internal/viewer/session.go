// Package viewer composes the stories engine: navigation state machine,
// gesture interpreter, transition controller and event publisher.
//
// Session is the synchronous fold used by hosts that already serialize
// their input (a bubbletea program). Viewer wraps a Session with its own
// single-consumer queue and tick loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tOgg1/reel/internal/events"
	"github.com/tOgg1/reel/internal/gesture"
	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/models"
	"github.com/tOgg1/reel/internal/navigator"
	"github.com/tOgg1/reel/internal/timeline"
	"github.com/tOgg1/reel/internal/transition"
)

// DefaultDuration is the playback duration of stories without their own.
const DefaultDuration = 5 * time.Second

// Options configures a Session.
type Options struct {
	Deck models.Deck
	// Cursor carries seen state across sessions. Nil starts empty.
	Cursor            *timeline.SeenCursor
	Duration          time.Duration
	AnimationDuration time.Duration
	Geometry          navigator.Geometry
	Host              transition.Host
	// Publisher defaults to a fresh in-memory publisher.
	Publisher events.Publisher
	Now       func() time.Time
	Logger    *zerolog.Logger
}

// Command is a programmatic navigation request.
type Command int

const (
	CommandAdvance Command = iota + 1
	CommandRetreat
	CommandHold
	CommandRelease
	CommandClose
)

func (c Command) String() string {
	switch c {
	case CommandAdvance:
		return "advance"
	case CommandRetreat:
		return "retreat"
	case CommandHold:
		return "hold"
	case CommandRelease:
		return "release"
	case CommandClose:
		return "close"
	default:
		return "unknown"
	}
}

// Session folds inputs into navigation state one at a time. It is not safe
// for concurrent use.
type Session struct {
	machine     *navigator.Machine
	interpreter *gesture.Interpreter
	controller  *transition.Controller
	publisher   events.Publisher
	now         func() time.Time

	base   zerolog.Logger
	logger zerolog.Logger

	id       string
	entered  string
	requests []transition.Request
}

// NewSession validates the deck and returns a closed session.
func NewSession(opts Options) (*Session, error) {
	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	tl, err := timeline.New(opts.Deck, duration, opts.Cursor)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	base := logging.Component("viewer")
	navLogger := logging.Component("navigator")
	trLogger := logging.Component("transition")
	if opts.Logger != nil {
		base, navLogger, trLogger = *opts.Logger, *opts.Logger, *opts.Logger
	}
	geometry := opts.Geometry
	if geometry.Width <= 0 || geometry.Height <= 0 {
		geometry = navigator.DefaultGeometry
	}

	s := &Session{
		machine: navigator.New(tl, navigator.Config{
			Geometry:          geometry,
			AnimationDuration: opts.AnimationDuration,
			Now:               now,
			Logger:            &navLogger,
		}),
		interpreter: gesture.NewInterpreter(geometry.Width),
		controller:  transition.NewController(opts.Host, &trLogger),
		publisher:   opts.Publisher,
		now:         now,
		base:        base,
		logger:      base,
	}
	if s.publisher == nil {
		s.publisher = events.NewInMemoryPublisher(events.WithObserver(s.trace))
	}
	return s, nil
}

// ID is the id of the current open period, or "" before the first open.
// A new id is assigned every time the viewer becomes visible.
func (s *Session) ID() string { return s.id }

// Timeline returns the session's timeline.
func (s *Session) Timeline() *timeline.Timeline { return s.machine.Timeline() }

// State returns the navigation state at the session clock's current time.
func (s *Session) State() navigator.State { return s.machine.State() }

// NextDeadline is the earliest time a Tick has work to do, or zero.
func (s *Session) NextDeadline() time.Time { return s.machine.NextDeadline() }

// Show opens the viewer at userID, or jumps an open viewer to userID.
func (s *Session) Show(userID string, animated bool) bool {
	var ok bool
	s.fold(func(m *navigator.Machine) { ok = m.Show(userID, animated) })
	return ok
}

// Close starts the exit animation.
func (s *Session) Close() bool {
	var ok bool
	s.fold(func(m *navigator.Machine) { ok = m.Close() })
	return ok
}

// Command applies a programmatic navigation request.
func (s *Session) Command(cmd Command) bool {
	var ok bool
	s.fold(func(m *navigator.Machine) {
		switch cmd {
		case CommandAdvance:
			ok = m.AdvanceStory()
		case CommandRetreat:
			ok = m.RetreatStory()
		case CommandHold:
			ok = m.PauseForHold()
		case CommandRelease:
			ok = m.ResumeFromHold()
		case CommandClose:
			ok = m.Close()
		}
	})
	if !ok {
		s.logger.Debug().Stringer("command", cmd).Msg("command had no effect")
	}
	return ok
}

// Pointer feeds one raw pointer event through the gesture interpreter.
func (s *Session) Pointer(ev gesture.PointerEvent) {
	cmds := s.interpreter.Handle(ev)
	if len(cmds) == 0 {
		return
	}
	s.fold(func(m *navigator.Machine) {
		for _, cmd := range cmds {
			m.Apply(cmd)
		}
	})
	if last := cmds[len(cmds)-1]; last.Terminal() {
		s.logger.Debug().Stringer("command", last.Kind).Float64("translation", last.Translation).Msg("gesture ended")
	}
}

// Tick advances animations and the progress timer.
func (s *Session) Tick() {
	s.fold(func(m *navigator.Machine) { m.Tick() })
}

// Resize applies a new viewport.
func (s *Session) Resize(geometry navigator.Geometry) {
	s.interpreter.SetWidth(geometry.Width)
	s.fold(func(m *navigator.Machine) { m.Resize(geometry) })
}

// DrainRequests returns and clears the pending animation requests.
func (s *Session) DrainRequests() []transition.Request {
	out := s.requests
	s.requests = nil
	return out
}

// Subscribe registers handler for events matching filter and returns the
// subscription id.
func (s *Session) Subscribe(filter events.Filter, handler events.EventHandler) (string, error) {
	id := uuid.NewString()
	if err := s.publisher.Subscribe(id, filter, handler); err != nil {
		return "", fmt.Errorf("subscribe: %w", err)
	}
	return id, nil
}

// Unsubscribe removes a subscription.
func (s *Session) Unsubscribe(id string) error {
	if err := s.publisher.Unsubscribe(id); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", id, err)
	}
	return nil
}

func (s *Session) fold(step func(m *navigator.Machine)) {
	prev := s.machine.State()
	step(s.machine)
	next := s.machine.State()

	if !prev.Visible && next.Visible {
		s.id = uuid.NewString()
		s.logger = logging.WithSession(s.base, s.id)
		s.logger.Info().
			Str("user_id", next.UserID).
			Int("subscribers", s.publisher.SubscriberCount()).
			Msg("viewer opened")
	}

	s.requests = append(s.requests, s.controller.Observe(prev, next)...)
	for _, eventType := range s.changes(prev, next) {
		s.publisher.Publish(&events.Event{
			Type:      eventType,
			SessionID: s.id,
			UserID:    next.UserID,
			StoryID:   next.StoryID,
			Progress:  next.Progress,
			Timestamp: s.now(),
		})
	}

	if next.Run != prev.Run && next.Phase == navigator.PhasePlaying {
		tl := s.machine.Timeline()
		story, _ := tl.Story(next.UserIndex, next.StoryIndex)
		storyLogger := logging.WithStory(s.logger, next.UserID, next.StoryID, story.Content)
		storyLogger.Debug().
			Dur("duration", tl.Duration(next.UserIndex, next.StoryID)).
			Msg("story started")
	}
	if prev.Phase != next.Phase {
		s.logger.Debug().
			Str("from", prev.Phase.String()).
			Str("phase", next.Phase.String()).
			Str("user_id", next.UserID).
			Str("story_id", next.StoryID).
			Msg("phase changed")
	}
}

// changes derives the events implied by one fold, in publication order.
func (s *Session) changes(prev, next navigator.State) []events.EventType {
	var out []events.EventType

	if !prev.Visible && next.Visible {
		out = append(out, events.EventTypeViewerShown)
	}

	// The active user tracks the finger during a horizontal drag; only a
	// settled page counts as entering a user.
	if next.Phase.Open() && next.Phase != navigator.PhaseDraggingHorizontal && next.UserID != s.entered {
		s.entered = next.UserID
		userLogger := logging.WithUser(s.logger, next.UserID)
		userLogger.Debug().Int("user_index", next.UserIndex).Msg("user entered")
		out = append(out, events.EventTypeUserEntered)
	}

	freshRun := next.Run != prev.Run && next.Phase == navigator.PhasePlaying
	if freshRun {
		out = append(out, events.EventTypeStoryStarted)
	}

	switch {
	case prev.Phase == navigator.PhasePlaying && next.Phase.Open() && next.Phase != navigator.PhasePlaying:
		out = append(out, events.EventTypePlaybackPaused)
	case prev.Phase.Open() && prev.Phase != navigator.PhasePlaying && next.Phase == navigator.PhasePlaying && !freshRun:
		out = append(out, events.EventTypePlaybackResumed)
	}

	if prev.Phase.Open() && !next.Phase.Open() {
		out = append(out, events.EventTypeViewerClosing)
	}
	if prev.Visible && !next.Visible {
		s.entered = ""
		out = append(out, events.EventTypeViewerHidden)
	}
	return out
}

// trace sees every event the default publisher delivers.
func (s *Session) trace(e *events.Event) {
	s.logger.Trace().
		Str("event", string(e.Type)).
		Str("user_id", e.UserID).
		Str("story_id", e.StoryID).
		Float64("progress", e.Progress).
		Msg("event")
}
