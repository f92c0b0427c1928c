// Package transition maps navigation phase changes to entry/exit animation
// requests and to the host's visibility callbacks.
package transition

// Host receives the viewer's visibility signals.
type Host interface {
	// OnLoad runs once each time the viewer becomes visible, before the
	// first frame of content.
	OnLoad()
	// OnShow runs when visibility goes from false to true.
	OnShow(storyID string)
	// OnHide runs when visibility goes from true to false, after the exit
	// animation.
	OnHide(storyID string)
}

// HostFuncs adapts plain functions to Host. Nil fields are skipped.
type HostFuncs struct {
	Load func()
	Show func(storyID string)
	Hide func(storyID string)
}

func (h HostFuncs) OnLoad() {
	if h.Load != nil {
		h.Load()
	}
}

func (h HostFuncs) OnShow(storyID string) {
	if h.Show != nil {
		h.Show(storyID)
	}
}

func (h HostFuncs) OnHide(storyID string) {
	if h.Hide != nil {
		h.Hide(storyID)
	}
}

// NopHost ignores every signal.
var NopHost Host = HostFuncs{}
