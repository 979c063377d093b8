// Package credential owns the Gemini API key for a session. Keys are held in
// memory only.
package credential

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrNoKey is returned when a key is needed but none has been selected
var ErrNoKey = errors.New("no API key selected")

// Selector is the credential surface the lecture workflow talks to
type Selector interface {
	HasSelectedKey() bool
	// OpenSelectKey asks the user to pick a key. It may return before the
	// user has finished.
	OpenSelectKey(ctx context.Context) error
}

// Store keeps the selected key in memory and hands it to the adapter on
// every call. It implements gemini.KeySource.
type Store struct {
	mu       sync.RWMutex
	key      string
	onSelect func(context.Context) error
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithSelectHandler sets what OpenSelectKey does, e.g. prompt on the
// terminal or route the TUI to the settings screen.
func WithSelectHandler(fn func(context.Context) error) StoreOption {
	return func(s *Store) {
		s.onSelect = fn
	}
}

// NewStore creates a store seeded with key
func NewStore(key string, opts ...StoreOption) *Store {
	s := &Store{key: strings.TrimSpace(key)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromEnv seeds a store from GEMINI_API_KEY, falling back to GOOGLE_API_KEY
func FromEnv(opts ...StoreOption) *Store {
	return NewStore(EnvKey(), opts...)
}

// EnvKey returns the key configured in the environment, if any
func EnvKey() string {
	if k := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); k != "" {
		return k
	}
	return strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
}

// APIKey returns the current key
func (s *Store) APIKey(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == "" {
		return "", ErrNoKey
	}
	return s.key, nil
}

func (s *Store) HasSelectedKey() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != ""
}

// Select replaces the current key. An empty key clears it.
func (s *Store) Select(key string) {
	s.mu.Lock()
	s.key = strings.TrimSpace(key)
	s.mu.Unlock()
}

// OpenSelectKey runs the configured select handler. Without one it is a no-op.
func (s *Store) OpenSelectKey(ctx context.Context) error {
	s.mu.RLock()
	fn := s.onSelect
	s.mu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// SetSelectHandler swaps the select handler after construction
func (s *Store) SetSelectHandler(fn func(context.Context) error) {
	s.mu.Lock()
	s.onSelect = fn
	s.mu.Unlock()
}

// Mask shows only the last four characters of a key
func Mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", 8) + key[len(key)-4:]
}
