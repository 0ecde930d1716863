package errors

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Bounds of the interaction context.
const (
	MaxDay       = 6
	MaxTimeOfDay = 24 * time.Hour
)

// ValidateDay checks that day is a weekday number, 0 (Sunday) to 6.
func ValidateDay(day int) error {
	if day < 0 || day > MaxDay {
		return New(ErrCodeInvalidInput, "day must be between 0 and %d, got %d", MaxDay, day)
	}
	return nil
}

// ValidateTimeOfDay checks that d lies within one day.
func ValidateTimeOfDay(d time.Duration) error {
	if d < 0 || d > MaxTimeOfDay {
		return New(ErrCodeInvalidInput, "time of day must be between 0 and 24h, got %s", d)
	}
	return nil
}

// ValidateSegmentKey checks that key has the form "from|to" with two
// non-empty station ids and no control characters.
func ValidateSegmentKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "segment key cannot be empty")
	}
	const maxKeyLength = 256
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidInput, "segment key too long (max %d characters)", maxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "segment key contains invalid control characters")
		}
	}
	from, to, ok := strings.Cut(key, "|")
	if !ok || from == "" || to == "" || strings.Contains(to, "|") {
		return New(ErrCodeInvalidInput, "segment key must have the form from|to: %q", key)
	}
	return nil
}

// ValidateSessionID checks that id is a UUID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid session id %q", id)
	}
	return nil
}

// ValidatePath validates a data file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
