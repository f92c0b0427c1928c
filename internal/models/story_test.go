package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDeck() Deck {
	return Deck{Users: []User{
		{ID: "alice", Stories: []Story{{ID: "a1"}, {ID: "a2", Duration: 2 * time.Second}}},
		{ID: "bob", Name: "Bob", Stories: []Story{{ID: "b1"}}},
	}}
}

func TestDeckValidateAcceptsWellFormedDeck(t *testing.T) {
	deck := validDeck()
	require.NoError(t, deck.Validate())
	assert.Equal(t, 3, deck.StoryCount())
}

func TestDeckValidateRejectsEmptyDeck(t *testing.T) {
	err := Deck{}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoUsers))
}

func TestDeckValidateReportsFieldPaths(t *testing.T) {
	deck := Deck{Users: []User{
		{ID: "alice", Stories: []Story{{ID: "a1"}, {ID: "a1"}}},
		{ID: "alice", Stories: nil},
		{ID: "", Stories: []Story{{ID: "", Duration: -time.Second}}},
	}}

	err := deck.Validate()
	require.Error(t, err)

	var list *ValidationErrors
	require.True(t, errors.As(err, &list))
	assert.ElementsMatch(t, []string{
		"users[0].stories[1].id",
		"users[1].id",
		"users[1].stories",
		"users[2].id",
		"users[2].stories[0].id",
		"users[2].stories[0].duration",
	}, list.Fields())

	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.True(t, errors.Is(err, ErrNoStories))
	assert.True(t, errors.Is(err, ErrEmptyID))
	assert.True(t, errors.Is(err, ErrInvalidDuration))
}

func TestStoryPlaybackDurationFallsBack(t *testing.T) {
	assert.Equal(t, 3*time.Second, Story{}.PlaybackDuration(3*time.Second))
	assert.Equal(t, time.Second, Story{Duration: time.Second}.PlaybackDuration(3*time.Second))
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "bob", User{ID: "bob"}.DisplayName())
	assert.Equal(t, "Bob", User{ID: "bob", Name: "Bob"}.DisplayName())
}
