// Package models defines the core domain types for reel.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Validation sentinels. Callers match them with errors.Is on the
// aggregated *ValidationErrors returned by Validate.
var (
	ErrEmptyID         = errors.New("id is required")
	ErrDuplicateID     = errors.New("id must be unique")
	ErrNoUsers         = errors.New("at least one user is required")
	ErrNoStories       = errors.New("at least one story is required")
	ErrInvalidDuration = errors.New("duration must not be negative")
)

// Story is one timed media unit within a user's sequence.
type Story struct {
	// ID identifies the story within its user.
	ID string `json:"id"`

	// Duration is how long the story plays. Zero means "use the
	// configured default".
	Duration time.Duration `json:"duration,omitempty"`

	// Content is an opaque reference (URL, path, caption) handed to the
	// render host untouched.
	Content string `json:"content,omitempty"`
}

// PlaybackDuration returns the story's own duration, or fallback when unset.
func (s Story) PlaybackDuration(fallback time.Duration) time.Duration {
	if s.Duration > 0 {
		return s.Duration
	}
	return fallback
}

// User is a participant whose stories are shown as one horizontal page.
type User struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Avatar  string  `json:"avatar,omitempty"`
	Stories []Story `json:"stories"`
}

// DisplayName returns Name, falling back to ID.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// Validate checks the construction preconditions for a single user.
func (u User) Validate() error {
	validation := &ValidationErrors{}
	if u.ID == "" {
		validation.Add("id", ErrEmptyID)
	}
	if len(u.Stories) == 0 {
		validation.Add("stories", ErrNoStories)
	}

	seen := make(map[string]bool, len(u.Stories))
	for i, story := range u.Stories {
		field := indexedField("stories", i)
		switch {
		case story.ID == "":
			validation.Add(field+".id", ErrEmptyID)
		case seen[story.ID]:
			validation.Add(field+".id", fmt.Errorf("%w: %q", ErrDuplicateID, story.ID))
		}
		seen[story.ID] = true
		if story.Duration < 0 {
			validation.Add(field+".duration", ErrInvalidDuration)
		}
	}
	return validation.Err()
}

// Deck is the ordered sequence of users shown by one viewer. It is owned by
// the host application and read-only to the navigation core.
type Deck struct {
	Users []User `json:"users"`
}

// Validate checks every user and that user ids are unique.
func (d Deck) Validate() error {
	validation := &ValidationErrors{}
	if len(d.Users) == 0 {
		validation.Add("users", ErrNoUsers)
		return validation.Err()
	}

	seen := make(map[string]bool, len(d.Users))
	for i, user := range d.Users {
		field := indexedField("users", i)
		if user.ID != "" && seen[user.ID] {
			validation.Add(field+".id", fmt.Errorf("%w: %q", ErrDuplicateID, user.ID))
		}
		seen[user.ID] = true
		validation.Add(field, user.Validate())
	}
	return validation.Err()
}

// StoryCount returns the total number of stories across all users.
func (d Deck) StoryCount() int {
	total := 0
	for _, user := range d.Users {
		total += len(user.Stories)
	}
	return total
}

func indexedField(name string, index int) string {
	return fmt.Sprintf("%s[%d]", name, index)
}
