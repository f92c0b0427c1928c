// Package storytui is the terminal host for the stories viewer.
package storytui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tOgg1/reel/internal/config"
	"github.com/tOgg1/reel/internal/gesture"
	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/models"
	"github.com/tOgg1/reel/internal/navigator"
	"github.com/tOgg1/reel/internal/timeline"
	"github.com/tOgg1/reel/internal/transition"
	"github.com/tOgg1/reel/internal/viewer"
)

// Config controls the terminal viewer.
type Config struct {
	Deck   models.Deck
	Cursor *timeline.SeenCursor
	// StartUser opens the viewer at this user immediately. Empty starts on
	// the user picker.
	StartUser string

	Viewer config.ViewerConfig
	Theme  config.ThemeConfig
	TUI    config.TUIConfig

	Now    func() time.Time
	Logger *zerolog.Logger
}

type tickMsg struct{}

// hostLog records the visibility callbacks so the status line can show
// them. Shared by every copy of the model.
type hostLog struct {
	loads     int
	lastShown string
	lastHide  string
	lastUser  string
}

// Model is the bubbletea model.
type Model struct {
	session *viewer.Session
	tracker *gesture.Tracker
	host    *hostLog
	now     func() time.Time
	logger  zerolog.Logger

	tick       time.Duration
	cellWidth  float64
	cellHeight float64
	avatarSize int
	textStyle  lipgloss.Style
	palette    palette

	width    int
	height   int
	selected int
	status   string
	help     bool
	helpHeld bool
	quitting bool
}

// NewModel builds the model and its viewer session.
func NewModel(cfg Config) (Model, error) {
	defaults := config.DefaultConfig()
	if cfg.Viewer.TickInterval <= 0 {
		cfg.Viewer.TickInterval = defaults.Viewer.TickInterval
	}
	if cfg.TUI.CellWidthPx <= 0 || cfg.TUI.CellHeightPx <= 0 {
		cfg.TUI.CellWidthPx, cfg.TUI.CellHeightPx = defaults.TUI.CellWidthPx, defaults.TUI.CellHeightPx
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := logging.Component("storytui")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	host := &hostLog{}
	session, err := viewer.NewSession(viewer.Options{
		Deck:              cfg.Deck,
		Cursor:            cfg.Cursor,
		Duration:          cfg.Viewer.Duration,
		AnimationDuration: cfg.Viewer.AnimationDuration,
		Geometry:          navigator.Geometry{Width: cfg.Viewer.PageWidth, Height: cfg.Viewer.PageHeight},
		Host: transition.HostFuncs{
			Load: func() { host.loads++ },
			Show: func(storyID string) { host.lastShown = storyID },
			Hide: func(storyID string) { host.lastHide = storyID },
		},
		Now:    now,
		Logger: cfg.Logger,
	})
	if err != nil {
		return Model{}, err
	}

	m := Model{
		session:    session,
		tracker:    &gesture.Tracker{},
		host:       host,
		now:        now,
		logger:     logger,
		tick:       cfg.Viewer.TickInterval,
		cellWidth:  cfg.TUI.CellWidthPx,
		cellHeight: cfg.TUI.CellHeightPx,
		avatarSize: cfg.Theme.StoryAvatarSize,
		textStyle:  textStyle(cfg.Theme.TextStyle),
		palette:    defaultPalette,
	}
	if cfg.StartUser != "" {
		if !session.Show(cfg.StartUser, false) {
			return Model{}, fmt.Errorf("unknown user %q", cfg.StartUser)
		}
		m.selected = session.State().UserIndex
		m.noteVisibility()
	}
	return m, nil
}

// Session exposes the underlying session.
func (m Model) Session() *viewer.Session { return m.session }

// LastUser is the user the viewer showed most recently, or "".
func (m Model) LastUser() string { return m.host.lastUser }

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.session.Resize(navigator.Geometry{
			Width:  float64(msg.Width) * m.cellWidth,
			Height: float64(msg.Height) * m.cellHeight,
		})
		return m, nil
	case tickMsg:
		m.session.Tick()
		m.noteVisibility()
		return m, m.tickCmd()
	case tea.MouseMsg:
		if m.help {
			return m, nil
		}
		m.handleMouse(msg)
		m.noteVisibility()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		switch {
		case msg.String() == "?" || (m.help && msg.String() == "esc"):
			m.toggleHelp()
		case m.help:
			// Other keys are swallowed while help is up.
		case m.session.State().Phase == navigator.PhaseIdle:
			m.updatePicker(msg)
		default:
			m.updateViewer(msg)
		}
		m.noteVisibility()
		return m, nil
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.KeyMsg) {
	count := m.session.Timeline().UserCount()
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < count-1 {
			m.selected++
		}
	case "enter", " ":
		m.session.Show(m.session.Timeline().UserID(m.selected), true)
	default:
		if index, ok := digitIndex(msg); ok && index < count {
			m.selected = index
			m.session.Show(m.session.Timeline().UserID(index), true)
		}
	}
}

func (m *Model) updateViewer(msg tea.KeyMsg) {
	switch msg.String() {
	case "left", "h":
		m.session.Command(viewer.CommandRetreat)
	case "right", "l":
		m.session.Command(viewer.CommandAdvance)
	case " ":
		if m.session.State().Phase == navigator.PhasePaused {
			m.session.Command(viewer.CommandRelease)
		} else {
			m.session.Command(viewer.CommandHold)
		}
	case "down", "j", "esc":
		m.session.Close()
	default:
		if index, ok := digitIndex(msg); ok {
			if userID := m.session.Timeline().UserID(index); userID != "" {
				m.session.Show(userID, true)
			}
		}
	}
}

// digitIndex maps keys 1-9 to user indexes 0-8.
func digitIndex(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

// handleMouse converts cell coordinates to logical pixels at the cell
// center and feeds the pointer tracker.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.session.State().Phase == navigator.PhaseIdle {
		return
	}
	x := (float64(msg.X) + 0.5) * m.cellWidth
	y := (float64(msg.Y) + 0.5) * m.cellHeight
	now := m.now()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.session.Pointer(m.tracker.Press(x, y, now))
	case tea.MouseActionMotion:
		if ev, ok := m.tracker.Move(x, y, now); ok {
			m.session.Pointer(ev)
		}
	case tea.MouseActionRelease:
		if ev, ok := m.tracker.Release(x, y, now); ok {
			m.session.Pointer(ev)
		}
	}
}

// noteVisibility drains animation requests and refreshes the status line
// from host callbacks.
func (m *Model) noteVisibility() {
	for _, req := range m.session.DrainRequests() {
		m.logger.Debug().Stringer("kind", req.Kind).Float64("from", req.From).Float64("to", req.To).Msg("transition")
	}

	state := m.session.State()
	if state.Visible {
		m.host.lastUser = state.UserID
		m.selected = state.UserIndex
	}
	switch {
	case state.Visible && m.host.lastShown != "":
		m.status = fmt.Sprintf("showing %s (loads %d)", m.host.lastShown, m.host.loads)
	case !state.Visible && m.host.lastHide != "":
		m.status = fmt.Sprintf("closed at %s", m.host.lastHide)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.help {
		return m.renderHelp(m.width, m.height)
	}
	state := m.session.State()
	if state.Phase == navigator.PhaseIdle {
		return m.renderPicker()
	}
	return m.renderPage(state)
}

// Run starts the terminal viewer and blocks until the user quits. It
// returns the last user shown.
func Run(cfg Config) (string, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return "", err
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.TUI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(Model); ok {
		return fm.LastUser(), nil
	}
	return model.LastUser(), nil
}
