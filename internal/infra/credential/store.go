// Package credential persists the YouTube API key across sessions.
package credential

import "github.com/cockroachdb/errors"

// ErrNotFound indicates that no API key has been stored yet.
var ErrNotFound = errors.New("no stored API key")

// Store holds exactly one opaque API-key string. Implementations replace the
// value wholesale; there is no partial update.
type Store interface {
	// Load returns the stored key, or ErrNotFound when none is stored.
	Load() (string, error)
	// Save replaces the stored key.
	Save(key string) error
	// Clear removes the stored key. Clearing an empty store is not an error.
	Clear() error
}
