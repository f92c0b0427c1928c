package transition

import (
	"github.com/rs/zerolog"

	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/navigator"
)

// RequestKind identifies an animation request.
type RequestKind int

const (
	// RequestEntry slides the sheet up from the bottom edge and fades the
	// background in.
	RequestEntry RequestKind = iota
	// RequestExit slides the sheet down and fades the background out.
	RequestExit
	// RequestDismissFeedback follows a vertical drag.
	RequestDismissFeedback
	// RequestRestore returns the sheet to the top after an aborted dismiss.
	RequestRestore
	// RequestSlide moves between user pages.
	RequestSlide
)

var requestNames = [...]string{
	RequestEntry:           "entry",
	RequestExit:            "exit",
	RequestDismissFeedback: "dismiss-feedback",
	RequestRestore:         "restore",
	RequestSlide:           "slide",
}

func (k RequestKind) String() string {
	if int(k) >= 0 && int(k) < len(requestNames) {
		return requestNames[k]
	}
	return "unknown"
}

// Request asks the render layer to animate an offset. Slide requests carry
// horizontal offsets; every other kind carries vertical offsets.
type Request struct {
	Kind RequestKind
	From float64
	To   float64
	// Opacity is the background opacity once the request settles.
	Opacity float64
}

// Controller turns consecutive navigation states into requests and host
// callbacks. It keeps no state of its own.
type Controller struct {
	host   Host
	logger zerolog.Logger
}

// NewController returns a controller signalling host. A nil host is
// replaced by NopHost.
func NewController(host Host, logger *zerolog.Logger) *Controller {
	if host == nil {
		host = NopHost
	}
	l := logging.Component("transition")
	if logger != nil {
		l = *logger
	}
	return &Controller{host: host, logger: l}
}

// Observe compares prev with next, signals the host and returns the
// animation requests implied by the change.
func (c *Controller) Observe(prev, next navigator.State) []Request {
	var requests []Request
	height := next.Geometry.Height

	if !prev.Visible && next.Visible {
		c.logger.Debug().Str("story_id", next.StoryID).Msg("viewer shown")
		c.host.OnShow(next.StoryID)
		c.host.OnLoad()
		requests = append(requests, Request{Kind: RequestEntry, From: height, To: 0, Opacity: 1})
	}

	switch {
	case next.Phase == navigator.PhaseClosing && prev.Phase != navigator.PhaseClosing:
		requests = append(requests, Request{Kind: RequestExit, From: prev.OffsetY, To: height, Opacity: 0})
	case next.Phase == navigator.PhaseIdle && prev.Phase.Open():
		// Closed without an exit animation.
		requests = append(requests, Request{Kind: RequestExit, From: prev.OffsetY, To: height, Opacity: 0})
	case next.Phase == navigator.PhaseDraggingVertical && next.OffsetY != prev.OffsetY:
		requests = append(requests, Request{
			Kind:    RequestDismissFeedback,
			From:    prev.OffsetY,
			To:      next.OffsetY,
			Opacity: next.Opacity(),
		})
	case prev.Phase == navigator.PhaseDraggingVertical && next.Phase.Open() && !next.Phase.Dragging():
		requests = append(requests, Request{Kind: RequestRestore, From: prev.OffsetY, To: 0, Opacity: 1})
	}

	if prev.Visible && next.Visible && next.Phase.Open() && next.Phase != navigator.PhaseDraggingHorizontal &&
		next.OffsetX != prev.OffsetX {
		requests = append(requests, Request{Kind: RequestSlide, From: prev.DisplayX, To: next.OffsetX, Opacity: next.Opacity()})
	}

	if prev.Visible && !next.Visible {
		storyID := next.StoryID
		if storyID == "" {
			storyID = prev.StoryID
		}
		c.logger.Debug().Str("story_id", storyID).Msg("viewer hidden")
		c.host.OnHide(storyID)
	}
	return requests
}
