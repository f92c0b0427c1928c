package timeline

// SeenCursor maps user id to the story that user should resume from.
type SeenCursor struct {
	entries map[string]string
}

// NewSeenCursor returns an empty cursor.
func NewSeenCursor() *SeenCursor {
	return &SeenCursor{entries: make(map[string]string)}
}

// Get returns the recorded story for userID.
func (c *SeenCursor) Get(userID string) (string, bool) {
	storyID, ok := c.entries[userID]
	return storyID, ok
}

// Set records storyID for userID.
func (c *SeenCursor) Set(userID, storyID string) {
	if userID == "" || storyID == "" {
		return
	}
	c.entries[userID] = storyID
}

// Len returns the number of users with a recorded story.
func (c *SeenCursor) Len() int { return len(c.entries) }
