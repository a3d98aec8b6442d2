package score

import (
	"strings"

	"github.com/stavekit/stavekit/pkg/errors"
)

// Order in which sharps and flats appear in key signatures.
var (
	sharpOrder = []string{"f", "c", "g", "d", "a", "e", "b"}
	flatOrder  = []string{"b", "e", "a", "d", "g", "c", "f"}
)

// keySignatures maps a major key name to its accidental count: positive
// for sharps, negative for flats. Minor keys resolve through their
// relative major before lookup.
var keySignatures = map[string]int{
	"C": 0,
	"G": 1, "D": 2, "A": 3, "E": 4, "B": 5, "F#": 6, "C#": 7,
	"F": -1, "Bb": -2, "Eb": -3, "Ab": -4, "Db": -5, "Gb": -6, "Cb": -7,
}

// relativeMajor maps a minor key (without the trailing "m") to its
// relative major.
var relativeMajor = map[string]string{
	"A": "C",
	"E": "G", "B": "D", "F#": "A", "C#": "E", "G#": "B", "D#": "F#", "A#": "C#",
	"D": "F", "G": "Bb", "C": "Eb", "F": "Ab", "Bb": "Db", "Eb": "Gb", "Ab": "Cb",
}

// NumAccidentals returns the signed accidental count of a key signature
// name ("C", "F#", "Bb", "Am", "c#m"): sharps positive, flats negative.
func NumAccidentals(key string) (int, error) {
	if err := errors.ValidateKeySignature(key); err != nil {
		return 0, err
	}
	name := normalizeKeyName(key)
	if strings.HasSuffix(name, "m") {
		major, ok := relativeMajor[strings.TrimSuffix(name, "m")]
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidKey, "unknown minor key: %q", key)
		}
		name = major
	}
	n, ok := keySignatures[name]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidKey, "unknown key signature: %q", key)
	}
	return n, nil
}

func normalizeKeyName(key string) string {
	// Uppercase the letter, keep accidental and minor suffix as written.
	return strings.ToUpper(key[:1]) + key[1:]
}

// CreateScaleMap returns the accidental state each pitch letter starts a
// measure with under the given key signature. Values are pitch strings
// like "f#" or "bn"; letters untouched by the signature map to their
// natural ("cn").
func CreateScaleMap(key string) (map[string]string, error) {
	n, err := NumAccidentals(key)
	if err != nil {
		return nil, err
	}
	scale := make(map[string]string, 7)
	for _, letter := range []string{"c", "d", "e", "f", "g", "a", "b"} {
		scale[letter] = letter + "n"
	}
	if n > 0 {
		for _, letter := range sharpOrder[:n] {
			scale[letter] = letter + "#"
		}
	} else if n < 0 {
		for _, letter := range flatOrder[:-n] {
			scale[letter] = letter + "b"
		}
	}
	return scale, nil
}
