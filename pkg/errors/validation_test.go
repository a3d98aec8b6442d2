package errors

import (
	"strings"
	"testing"
)

func TestValidateNoteKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid natural", "c/4", false},
		{"valid sharp", "f#/5", false},
		{"valid double sharp", "g##/3", false},
		{"valid flat", "bb/3", false},
		{"valid double flat", "ebb/4", false},
		{"valid explicit natural", "an/4", false},
		{"valid uppercase", "C/4", false},

		{"empty", "", true},
		{"missing octave", "c#", true},
		{"bad letter", "h/4", true},
		{"bad accidental", "c###/4", true},
		{"two digit octave", "c/10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNoteKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNoteKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDurationCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"whole", "1", false},
		{"quarter", "4", false},
		{"sixty-fourth", "64", false},

		{"empty", "", true},
		{"not a power of two", "3", true},
		{"too short", "128", true},
		{"word", "quarter", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDurationCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDurationCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateKeySignature(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"C major", "C", false},
		{"F sharp major", "F#", false},
		{"B flat major", "Bb", false},
		{"A minor", "Am", false},
		{"C sharp minor", "c#m", false},

		{"empty", "", true},
		{"double sharp", "F##", true},
		{"bad letter", "H", true},
		{"trailing junk", "Cmaj", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeySignature(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKeySignature(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeSignature(t *testing.T) {
	tests := []struct {
		name      string
		beats     int
		beatValue int
		wantErr   bool
	}{
		{"common time", 4, 4, false},
		{"waltz", 3, 4, false},
		{"compound", 6, 8, false},
		{"cut time", 2, 2, false},

		{"zero beats", 0, 4, true},
		{"negative beats", -1, 4, true},
		{"beat value not power of two", 4, 3, true},
		{"beat value too small", 4, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeSignature(tt.beats, tt.beatValue)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeSignature(%d, %d) error = %v, wantErr %v", tt.beats, tt.beatValue, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "scores/demo.toml", false},
		{"valid absolute", "/tmp/demo.toml", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"path traversal", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
