package events

import "time"

// EventType identifies a viewer event.
type EventType string

const (
	EventTypeViewerShown     EventType = "viewer.shown"
	EventTypeViewerClosing   EventType = "viewer.closing"
	EventTypeViewerHidden    EventType = "viewer.hidden"
	EventTypeStoryStarted    EventType = "story.started"
	EventTypeUserEntered     EventType = "user.entered"
	EventTypePlaybackPaused  EventType = "playback.paused"
	EventTypePlaybackResumed EventType = "playback.resumed"
)

// Event is a single observable change of a viewer session.
type Event struct {
	Type      EventType
	SessionID string
	UserID    string
	StoryID   string
	// Progress is the playback fraction when the event was folded.
	Progress  float64
	Timestamp time.Time
}
