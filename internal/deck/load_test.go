package deck

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/reel/internal/models"
)

const yamlDeck = `
users:
  - id: ana
    name: Ana
    avatar: "🦊"
    stories:
      - id: a1
        duration: 3s
        content: "Morning run"
      - content: "Coffee"
  - id: ben
    stories:
      - id: b1
        content: https://cdn.example.com/b1.jpg
`

const tomlDeck = `
[[users]]
id = "ana"
name = "Ana"

[[users.stories]]
id = "a1"
duration = "1500ms"
content = "Morning run"

[[users]]
id = "ben"

[[users.stories]]
id = "b1"
`

func TestParseYAML(t *testing.T) {
	deck, err := Parse([]byte(yamlDeck), FormatYAML)
	require.NoError(t, err)
	require.Len(t, deck.Users, 2)

	ana := deck.Users[0]
	assert.Equal(t, "Ana", ana.DisplayName())
	assert.Equal(t, "🦊", ana.Avatar)
	require.Len(t, ana.Stories, 2)
	assert.Equal(t, 3*time.Second, ana.Stories[0].Duration)
	assert.Zero(t, ana.Stories[1].Duration)

	_, err = uuid.Parse(ana.Stories[1].ID)
	assert.NoError(t, err, "missing story ids are generated")

	assert.Equal(t, "ben", deck.Users[1].DisplayName())
	assert.Equal(t, 3, deck.StoryCount())
}

func TestParseTOML(t *testing.T) {
	deck, err := Parse([]byte(tomlDeck), FormatTOML)
	require.NoError(t, err)
	require.Len(t, deck.Users, 2)
	assert.Equal(t, 1500*time.Millisecond, deck.Users[0].Stories[0].Duration)
	assert.Equal(t, "b1", deck.Users[1].Stories[0].ID)
}

func TestParseRejectsBadDuration(t *testing.T) {
	_, err := Parse([]byte("users:\n  - id: a\n    stories:\n      - id: s\n        duration: soon\n"), FormatYAML)
	require.Error(t, err)

	var validation *models.ValidationErrors
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, []string{"users[0].stories[0].duration"}, validation.Fields())
}

func TestParseRejectsInvalidDeck(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "no users", data: "users: []\n", want: models.ErrNoUsers},
		{name: "user without stories", data: "users:\n  - id: a\n", want: models.ErrNoStories},
		{name: "user without id", data: "users:\n  - stories:\n      - id: s\n", want: models.ErrEmptyID},
		{name: "duplicate users", data: "users:\n  - id: a\n    stories: [{id: s}]\n  - id: a\n    stories: [{id: s}]\n", want: models.ErrDuplicateID},
		{name: "negative duration", data: "users:\n  - id: a\n    stories: [{id: s, duration: -1s}]\n", want: models.ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatYAML)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("users: [\n"), FormatYAML)
	assert.Error(t, err)
	_, err = Parse([]byte("[[users]\n"), FormatTOML)
	assert.Error(t, err)
	_, err = Parse([]byte("{}"), Format("json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "deck.yml")
	tomlPath := filepath.Join(dir, "deck.TOML")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDeck), 0o644))
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlDeck), 0o644))

	deck, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Len(t, deck.Users, 2)

	deck, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Len(t, deck.Users, 2)

	_, err = Load(filepath.Join(dir, "deck.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(" ")
	assert.Error(t, err)
}
