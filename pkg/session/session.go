// Package session keeps interaction state between requests.
//
// A Session records what a viewer is looking at: the hovered segment and the
// selected day and time of day ([glyph.Interaction]). The HTTP server hands
// out session ids so a client can move the time scrubber or the pointer and
// fetch the matching frame without resending the whole state.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process map, for tests and single-instance servers
//   - [FileStore]: JSON files, for the CLI
//   - [RedisStore]: Redis keys with native expiry, for shared deployments
//
// Usage:
//
//	sess := session.New(glyph.Interaction{Day: 1, Time: 8 * time.Hour}, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // not found or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the default session duration.
const DefaultTTL = 2 * time.Hour

// Session stores one viewer's interaction state.
type Session struct {
	ID          string            `json:"id"`
	Interaction glyph.Interaction `json:"interaction"`
	CreatedAt   time.Time         `json:"created_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// New creates a session with a random id.
func New(in glyph.Interaction, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.NewString(),
		Interaction: in,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
