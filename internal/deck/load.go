// Package deck reads story decks from YAML or TOML files.
package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tOgg1/reel/internal/models"
)

// Format is a deck file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for files whose extension is not a
// recognized deck format.
var ErrUnknownFormat = errors.New("unknown deck format")

type fileDeck struct {
	Users []fileUser `yaml:"users" toml:"users"`
}

type fileUser struct {
	ID      string      `yaml:"id" toml:"id"`
	Name    string      `yaml:"name" toml:"name"`
	Avatar  string      `yaml:"avatar" toml:"avatar"`
	Stories []fileStory `yaml:"stories" toml:"stories"`
}

type fileStory struct {
	ID       string `yaml:"id" toml:"id"`
	Duration string `yaml:"duration" toml:"duration"`
	Content  string `yaml:"content" toml:"content"`
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads and validates the deck at path.
func Load(path string) (models.Deck, error) {
	if strings.TrimSpace(path) == "" {
		return models.Deck{}, fmt.Errorf("deck path is required")
	}
	format, err := FormatFor(path)
	if err != nil {
		return models.Deck{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Deck{}, fmt.Errorf("read deck %s: %w", path, err)
	}

	deck, err := Parse(data, format)
	if err != nil {
		return models.Deck{}, fmt.Errorf("parse deck %s: %w", path, err)
	}
	return deck, nil
}

// Parse decodes and validates a deck. Stories without an id get a random
// one; durations use Go duration syntax ("5s", "1500ms").
func Parse(data []byte, format Format) (models.Deck, error) {
	var raw fileDeck
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return models.Deck{}, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return models.Deck{}, err
		}
	default:
		return models.Deck{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	validation := &models.ValidationErrors{}
	deck := models.Deck{Users: make([]models.User, 0, len(raw.Users))}
	for i, u := range raw.Users {
		user := models.User{
			ID:      strings.TrimSpace(u.ID),
			Name:    strings.TrimSpace(u.Name),
			Avatar:  strings.TrimSpace(u.Avatar),
			Stories: make([]models.Story, 0, len(u.Stories)),
		}
		for j, s := range u.Stories {
			story := models.Story{ID: strings.TrimSpace(s.ID), Content: s.Content}
			if story.ID == "" {
				story.ID = uuid.NewString()
			}
			if d := strings.TrimSpace(s.Duration); d != "" {
				parsed, err := time.ParseDuration(d)
				if err != nil {
					validation.Add(fmt.Sprintf("users[%d].stories[%d].duration", i, j), err)
				}
				story.Duration = parsed
			}
			user.Stories = append(user.Stories, story)
		}
		deck.Users = append(deck.Users, user)
	}
	if err := validation.Err(); err != nil {
		return models.Deck{}, err
	}

	if err := deck.Validate(); err != nil {
		return models.Deck{}, err
	}
	return deck, nil
}
