package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// noteKeyRegex matches note key strings: a pitch letter, an optional
// accidental, and an octave ("c/4", "f#/5", "bb/3").
var noteKeyRegex = regexp.MustCompile(`^[a-g](#|##|b|bb|n)?/[0-9]$`)

// ValidateNoteKey validates a note key string. Keys are matched
// case-insensitively; octaves are a single digit.
func ValidateNoteKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "note key cannot be empty")
	}
	if !noteKeyRegex.MatchString(strings.ToLower(key)) {
		return New(ErrCodeInvalidKey, "invalid note key: %q", key)
	}
	return nil
}

// validDurations are the duration codes the layout engine understands.
var validDurations = map[string]bool{
	"1": true, "2": true, "4": true, "8": true, "16": true, "32": true, "64": true,
}

// ValidateDurationCode validates a duration code ("1" through "64").
func ValidateDurationCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidInput, "duration code cannot be empty")
	}
	if !validDurations[code] {
		return New(ErrCodeInvalidInput, "invalid duration code: %q", code)
	}
	return nil
}

// keySignatureRegex matches key signature names: a pitch letter, optional
// accidental, optional trailing "m" for minor ("C", "F#", "Bb", "Am", "c#m").
var keySignatureRegex = regexp.MustCompile(`^[A-Ga-g](#|b)?m?$`)

// ValidateKeySignature validates a key signature name.
func ValidateKeySignature(name string) error {
	if name == "" {
		return New(ErrCodeInvalidKey, "key signature cannot be empty")
	}
	if !keySignatureRegex.MatchString(name) {
		return New(ErrCodeInvalidKey, "invalid key signature: %q", name)
	}
	return nil
}

// ValidateTimeSignature validates the beat count and beat value of a time
// signature. Beat values must be powers of two up to 64.
func ValidateTimeSignature(numBeats, beatValue int) error {
	if numBeats < 1 || numBeats > 32 {
		return New(ErrCodeInvalidInput, "time signature beat count out of range: %d", numBeats)
	}
	switch beatValue {
	case 1, 2, 4, 8, 16, 32, 64:
		return nil
	}
	return New(ErrCodeInvalidInput, "time signature beat value must be a power of two: %d", beatValue)
}

// ValidatePath validates a score file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}
