package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Context remembers what the CLI last played, so `reel play` can run
// without arguments.
type Context struct {
	// DeckPath is the absolute path of the last played deck.
	DeckPath string `yaml:"deck,omitempty"`
	// UserID is the user the viewer was showing when it was last closed.
	UserID string `yaml:"user,omitempty"`
	// UpdatedAt is when the context was last modified.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// IsEmpty returns true if no context is set.
func (c *Context) IsEmpty() bool {
	return c.DeckPath == ""
}

// SetDeck records a newly played deck. The user is cleared because user
// ids belong to a deck.
func (c *Context) SetDeck(path string, now time.Time) {
	if c.DeckPath != path {
		c.UserID = ""
	}
	c.DeckPath = path
	c.UpdatedAt = now
}

// SetUser records the user to resume at.
func (c *Context) SetUser(id string, now time.Time) {
	c.UserID = id
	c.UpdatedAt = now
}

// Clear removes all context.
func (c *Context) Clear(now time.Time) {
	c.DeckPath = ""
	c.UserID = ""
	c.UpdatedAt = now
}

// String returns a human-readable representation of the context.
func (c *Context) String() string {
	if c.IsEmpty() {
		return "(no context set)"
	}
	if c.UserID == "" {
		return fmt.Sprintf("deck:%s", c.DeckPath)
	}
	return fmt.Sprintf("deck:%s user:%s", c.DeckPath, c.UserID)
}

// ContextStore manages loading and saving context.
type ContextStore struct {
	path string
	mu   sync.RWMutex
}

// NewContextStore creates a new context store.
// If path is empty, uses context.yaml under ConfigDir.
func NewContextStore(path string) *ContextStore {
	if path == "" {
		path = filepath.Join(ConfigDir(), "context.yaml")
	}
	return &ContextStore{path: path}
}

// DefaultContextStore returns a context store using the default path.
func DefaultContextStore() *ContextStore {
	return NewContextStore("")
}

// Path returns the context file path.
func (s *ContextStore) Path() string {
	return s.path
}

// Load reads the context from disk.
// Returns an empty context if the file doesn't exist.
func (s *ContextStore) Load() (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := &Context{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ctx, nil
		}
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	if err := yaml.Unmarshal(data, ctx); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}

	return ctx, nil
}

// Save writes the context to disk.
func (s *ContextStore) Save(ctx *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create context directory: %w", err)
	}

	data, err := yaml.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("failed to serialize context: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write context file: %w", err)
	}

	return nil
}

// Clear removes the context file.
func (s *ContextStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove context file: %w", err)
	}
	return nil
}
