package storytui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tOgg1/reel/internal/viewer"
)

type helpItem struct {
	key  string
	desc string
}

type helpSection struct {
	title string
	items []helpItem
}

var helpSections = []helpSection{
	{title: "Viewer", items: []helpItem{
		{key: "←/h  →/l", desc: "previous / next story"},
		{key: "space", desc: "hold / release"},
		{key: "j/↓/Esc", desc: "close"},
		{key: "1-9", desc: "jump to user"},
		{key: "mouse", desc: "tap sides, hold, swipe across or down"},
	}},
	{title: "Picker", items: []helpItem{
		{key: "k/↑  j/↓", desc: "move selection"},
		{key: "Enter", desc: "open selected user"},
		{key: "1-9", desc: "open user"},
	}},
	{title: "Global", items: []helpItem{
		{key: "?", desc: "toggle help"},
		{key: "q / Ctrl+C", desc: "quit"},
	}},
}

// toggleHelp shows or hides the overlay. Playback holds while it is up.
func (m *Model) toggleHelp() {
	m.help = !m.help
	switch {
	case m.help:
		m.helpHeld = m.session.Command(viewer.CommandHold)
	case m.helpHeld:
		m.session.Command(viewer.CommandRelease)
		m.helpHeld = false
	}
}

func (m Model) renderHelp(width, height int) string {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.palette.Accent))

	lines := []string{lipgloss.NewStyle().Bold(true).Render("Help"), ""}
	for _, sec := range helpSections {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(sec.title))
		for _, it := range sec.items {
			lines = append(lines, "  "+keyStyle.Render(padRight(it.key, 12))+it.desc)
		}
		lines = append(lines, "")
	}
	lines = append(lines, m.palette.muted().Render("Dismiss: ? or Esc"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.palette.Track)).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(maxInt(width, 1), maxInt(height, 1), lipgloss.Center, lipgloss.Center, panel)
}
