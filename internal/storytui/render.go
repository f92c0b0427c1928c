package storytui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tOgg1/reel/internal/models"
	"github.com/tOgg1/reel/internal/navigator"
	"github.com/tOgg1/reel/internal/timeline"
)

const (
	filledCell = '━'
	emptyCell  = '─'
)

// progressCells lays out one segment per story across width cells,
// separated by single spaces. Segments before index are full, the segment at
// index is filled by fraction, later ones are empty.
func progressCells(width, count, index int, fraction float64) string {
	if count <= 0 || width <= 0 {
		return ""
	}
	gaps := count - 1
	seg := (width - gaps) / count
	if seg < 1 {
		seg = 1
	}
	fraction = math.Max(0, math.Min(1, fraction))

	var b strings.Builder
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		size := seg
		if i == count-1 {
			if rest := width - gaps - seg*count; rest > 0 {
				size += rest
			}
		}
		filled := 0
		switch {
		case i < index:
			filled = size
		case i == index:
			filled = int(math.Round(fraction * float64(size)))
		}
		b.WriteString(strings.Repeat(string(filledCell), filled))
		b.WriteString(strings.Repeat(string(emptyCell), size-filled))
	}
	return b.String()
}

func (m Model) renderProgress(width, count, index int, fraction float64) string {
	cells := progressCells(width, count, index, fraction)
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Fill))
	track := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Track))

	var b strings.Builder
	var run strings.Builder
	current := rune(0)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		switch current {
		case filledCell:
			b.WriteString(fill.Render(run.String()))
		case emptyCell:
			b.WriteString(track.Render(run.String()))
		default:
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for _, r := range cells {
		if r != current {
			flush()
			current = r
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}

// avatarLabel is the text drawn inside a user's avatar block.
func avatarLabel(user models.User) string {
	if user.Avatar != "" {
		return user.Avatar
	}
	name := strings.TrimSpace(user.DisplayName())
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

func (m Model) renderAvatar(user models.User) string {
	size := m.avatarSize
	if size <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(size*2).
		Height(size).
		Align(lipgloss.Center, lipgloss.Center).
		Background(lipgloss.Color(avatarColor(user.ID))).
		Foreground(lipgloss.Color("16")).
		Bold(true).
		Render(avatarLabel(user))
}

// renderPage draws the user visible at the display offset.
func (m Model) renderPage(state navigator.State) string {
	tl := m.session.Timeline()
	width := maxInt(m.width, 20)
	height := maxInt(m.height, 8)

	index := navigator.PageIndex(state.DisplayX, state.Geometry.Width, tl.UserCount())
	user, _ := tl.User(index)
	storyID := state.StoryID
	fraction := state.Progress
	if index != state.UserIndex {
		// Mid-slide: the neighbour shows its resume point, not yet playing.
		storyID = tl.StoryAt(index)
		fraction = 0
	}
	storyIndex := tl.StoryIndex(index, storyID)
	story, _ := tl.Story(index, storyIndex)

	bar := " " + m.renderProgress(width-2, len(user.Stories), storyIndex, fraction)

	heading := lipgloss.JoinVertical(lipgloss.Left,
		m.palette.accent().Render(user.DisplayName()),
		m.palette.muted().Render(fmt.Sprintf("%d/%d", storyIndex+1, len(user.Stories))),
	)
	header := heading
	if avatar := m.renderAvatar(user); avatar != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Center, " "+avatar, "  ", heading)
	}

	content := m.textStyle.Width(maxInt(width-4, 1)).Render(story.Content)

	lines := []string{bar, "", header, "", lipgloss.NewStyle().PaddingLeft(2).Render(content)}
	body := strings.Join(lines, "\n")

	footer := m.renderFooter(state, width)
	bodyHeight := height - lipgloss.Height(footer)
	body = m.shiftDown(body, state.OffsetY, bodyHeight)

	page := lipgloss.JoinVertical(lipgloss.Left, lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body), footer)
	if state.Opacity() < 0.5 {
		page = lipgloss.NewStyle().Faint(true).Render(page)
	}
	return page
}

// shiftDown pushes body down by the dismiss offset, converted to rows.
func (m Model) shiftDown(body string, offsetY float64, rows int) string {
	shift := int(math.Round(offsetY / m.cellHeight))
	if shift <= 0 {
		return body
	}
	if shift >= rows {
		return ""
	}
	return strings.Repeat("\n", shift) + body
}

func (m Model) renderFooter(state navigator.State, width int) string {
	status := state.Phase.String()
	if state.Phase.Open() && state.Remaining > 0 {
		status += fmt.Sprintf(" %.1fs left", state.Remaining.Seconds())
	}
	if m.status != "" {
		status += " · " + m.status
	}
	hints := "←/→ story · space hold · j close · ? help · q quit"
	line := m.palette.muted().Render(status)
	gap := width - lipgloss.Width(line) - lipgloss.Width(hints) - 2
	if gap < 1 {
		return " " + line
	}
	return " " + line + strings.Repeat(" ", gap) + m.palette.muted().Render(hints)
}

// renderPicker lists users while the viewer is closed.
func (m Model) renderPicker() string {
	tl := m.session.Timeline()
	cursor := tl.Cursor()

	stories := 0
	for i := 0; i < tl.UserCount(); i++ {
		user, _ := tl.User(i)
		stories += len(user.Stories)
	}

	rows := []string{
		m.palette.accent().Render("reel") + m.palette.muted().Render(fmt.Sprintf("  %d users · %d stories · %d seen", tl.UserCount(), stories, cursor.Len())),
		"",
	}
	for i := 0; i < tl.UserCount(); i++ {
		rows = append(rows, m.pickerRow(i, tl, cursor))
	}
	rows = append(rows, "", m.palette.muted().Render("enter open · 1-9 open user · ↑/↓ select · ? help · q quit"))
	if m.status != "" {
		rows = append(rows, m.palette.muted().Render(m.status))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(rows, "\n"))
}

func (m Model) pickerRow(i int, tl *timeline.Timeline, cursor *timeline.SeenCursor) string {
	user, _ := tl.User(i)

	marker := "  "
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Foreground))
	if i == m.selected {
		marker = "> "
		nameStyle = nameStyle.Foreground(lipgloss.Color(m.palette.Selected)).Bold(true)
	}

	seen := m.palette.muted().Render("○")
	if storyID, ok := cursor.Get(user.ID); ok {
		seen = lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Seen)).Render("●") +
			m.palette.muted().Render(fmt.Sprintf(" at %d/%d", tl.StoryIndex(i, storyID)+1, len(user.Stories)))
	}

	label := fmt.Sprintf("%d", i+1)
	if i >= 9 {
		label = " "
	}
	return fmt.Sprintf("%s%s  %s  %s", marker, label, nameStyle.Render(padRight(user.DisplayName(), 16)), seen)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
