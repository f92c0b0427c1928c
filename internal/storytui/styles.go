package storytui

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tOgg1/reel/internal/config"
)

// palette holds the chrome colors; story text uses the configured style.
type palette struct {
	Foreground string
	Muted      string
	Accent     string
	Track      string
	Fill       string
	Selected   string
	Seen       string
}

var defaultPalette = palette{
	Foreground: "252",
	Muted:      "245",
	Accent:     "75",
	Track:      "238",
	Fill:       "255",
	Selected:   "81",
	Seen:       "41",
}

// avatarPalette is a curated ANSI 256 palette for stable per-user avatar
// colors.
var avatarPalette = []string{
	"33", "39", "45", "69", "75", "81", "87", "99",
	"111", "117", "123", "147", "153", "159", "183", "189",
}

// avatarColor maps a user id to a stable palette entry.
func avatarColor(userID string) string {
	key := strings.ToLower(strings.TrimSpace(userID))
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}

// textStyle converts the configured story text style to lipgloss. Empty
// colors are left unset.
func textStyle(ts config.TextStyle) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(ts.Bold).Italic(ts.Italic)
	if ts.Foreground != "" {
		style = style.Foreground(lipgloss.Color(ts.Foreground))
	}
	if ts.Background != "" {
		style = style.Background(lipgloss.Color(ts.Background))
	}
	return style
}

func (p palette) muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
}

func (p palette) accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true)
}
