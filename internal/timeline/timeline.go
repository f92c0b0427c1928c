// Package timeline holds the ordered users and stories shown by a viewer,
// plus the per-user seen cursor used to resume mid-sequence.
package timeline

import (
	"fmt"
	"time"

	"github.com/tOgg1/reel/internal/models"
)

// NotFound is returned by index lookups that do not match.
const NotFound = -1

// Timeline is the read-only deck plus the mutable SeenCursor.
//
// The cursor is written only by the navigation state machine and is never
// read concurrently with a write, so Timeline performs no locking.
type Timeline struct {
	users           []models.User
	userIndex       map[string]int
	storyIndex      []map[string]int
	defaultDuration time.Duration
	cursor          *SeenCursor
}

// New builds a Timeline over deck. The deck must satisfy Deck.Validate;
// every user has at least one story. cursor may be nil, in which case a
// fresh cursor is created; passing an existing cursor lets seen state
// outlive a single viewer.
func New(deck models.Deck, defaultDuration time.Duration, cursor *SeenCursor) (*Timeline, error) {
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deck: %w", err)
	}
	if cursor == nil {
		cursor = NewSeenCursor()
	}

	t := &Timeline{
		users:           deck.Users,
		userIndex:       make(map[string]int, len(deck.Users)),
		storyIndex:      make([]map[string]int, len(deck.Users)),
		defaultDuration: defaultDuration,
		cursor:          cursor,
	}
	for i, user := range deck.Users {
		t.userIndex[user.ID] = i
		stories := make(map[string]int, len(user.Stories))
		for j, story := range user.Stories {
			stories[story.ID] = j
		}
		t.storyIndex[i] = stories
	}
	return t, nil
}

// UserCount returns the number of users.
func (t *Timeline) UserCount() int { return len(t.users) }

// User returns the user at index.
func (t *Timeline) User(index int) (models.User, bool) {
	if index < 0 || index >= len(t.users) {
		return models.User{}, false
	}
	return t.users[index], true
}

// UserID returns the id of the user at index, or "" when out of range.
func (t *Timeline) UserID(index int) string {
	user, ok := t.User(index)
	if !ok {
		return ""
	}
	return user.ID
}

// IndexOfUser returns the position of the user, or NotFound.
func (t *Timeline) IndexOfUser(id string) int {
	if index, ok := t.userIndex[id]; ok {
		return index
	}
	return NotFound
}

// StoryAt returns the cursor-resolved story id for the user at index,
// falling back to the user's first story. Returns "" for an out-of-range
// index.
func (t *Timeline) StoryAt(userIndex int) string {
	user, ok := t.User(userIndex)
	if !ok {
		return ""
	}
	if storyID, ok := t.cursor.Get(user.ID); ok {
		if _, member := t.storyIndex[userIndex][storyID]; member {
			return storyID
		}
	}
	return user.Stories[0].ID
}

// StoryIndex returns the position of storyID within the user's sequence,
// or NotFound.
func (t *Timeline) StoryIndex(userIndex int, storyID string) int {
	if userIndex < 0 || userIndex >= len(t.storyIndex) {
		return NotFound
	}
	if index, ok := t.storyIndex[userIndex][storyID]; ok {
		return index
	}
	return NotFound
}

// Story returns the story at (userIndex, storyIndex).
func (t *Timeline) Story(userIndex, storyIndex int) (models.Story, bool) {
	user, ok := t.User(userIndex)
	if !ok || storyIndex < 0 || storyIndex >= len(user.Stories) {
		return models.Story{}, false
	}
	return user.Stories[storyIndex], true
}

// NextStory returns the story following storyID within the same user.
func (t *Timeline) NextStory(userIndex int, storyID string) (string, bool) {
	index := t.StoryIndex(userIndex, storyID)
	if index == NotFound {
		return "", false
	}
	story, ok := t.Story(userIndex, index+1)
	if !ok {
		return "", false
	}
	return story.ID, true
}

// PreviousStory returns the story preceding storyID within the same user.
func (t *Timeline) PreviousStory(userIndex int, storyID string) (string, bool) {
	index := t.StoryIndex(userIndex, storyID)
	if index <= 0 {
		return "", false
	}
	story, _ := t.Story(userIndex, index-1)
	return story.ID, true
}

// Duration returns the playback duration of storyID for the user at index,
// applying the configured default.
func (t *Timeline) Duration(userIndex int, storyID string) time.Duration {
	story, ok := t.Story(userIndex, t.StoryIndex(userIndex, storyID))
	if !ok {
		return t.defaultDuration
	}
	return story.PlaybackDuration(t.defaultDuration)
}

// MarkSeen records storyID as the resume point for userID. Unknown users
// and stories that do not belong to the user are ignored.
func (t *Timeline) MarkSeen(userID, storyID string) {
	index := t.IndexOfUser(userID)
	if index == NotFound || t.StoryIndex(index, storyID) == NotFound {
		return
	}
	t.cursor.Set(userID, storyID)
}

// Cursor exposes the seen cursor.
func (t *Timeline) Cursor() *SeenCursor { return t.cursor }
