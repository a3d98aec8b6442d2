// Package scorefile loads score documents from TOML. A document
// declares the score metadata, optional engraving overrides, and the
// voices with their notes; Compile turns it into formatter-ready
// voices.
//
// Example document:
//
//	[score]
//	title = "Etude"
//	time = "4/4"
//	key = "G"
//	width = 600
//
//	[[voice]]
//	mode = "strict"
//
//	[[voice.note]]
//	keys = ["f#/5"]
//	duration = "4"
package scorefile

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/stavekit/stavekit/pkg/errors"
	"github.com/stavekit/stavekit/pkg/score"
)

// Document is a decoded score file.
type Document struct {
	Score     Score      `toml:"score"`
	Engraving *Engraving `toml:"engraving"`
	Voices    []Voice    `toml:"voice"`
}

// Score holds the document-level metadata.
type Score struct {
	Title string  `toml:"title"`
	Time  string  `toml:"time"`
	Key   string  `toml:"key"`
	Width float64 `toml:"width"`
}

// Engraving overrides formatter tunables. Zero values mean "keep the
// default".
type Engraving struct {
	SoftmaxFactor float64 `toml:"softmax_factor"`
	MaxIterations int     `toml:"max_iterations"`
	GlobalSoftmax bool    `toml:"global_softmax"`
}

// Voice is one voice entry.
type Voice struct {
	Mode    string  `toml:"mode"`
	Softmax float64 `toml:"softmax"`
	Notes   []Note  `toml:"note"`
}

// Note is one note, chord, or rest entry.
type Note struct {
	Keys     []string `toml:"keys"`
	Duration string   `toml:"duration"`
	Dots     int      `toml:"dots"`
	Rest     bool     `toml:"rest"`
	Tuplet   *Tuplet  `toml:"tuplet"`
}

// Tuplet rescales the note duration: NotesOccupied normal notes played
// in the time of NumNotes.
type Tuplet struct {
	NumNotes      int `toml:"num_notes"`
	NotesOccupied int `toml:"notes_occupied"`
}

// Load reads and decodes a score file from disk.
func Load(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "score file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a score document and validates it.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScore, err, "decode score document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the document against the layout engine's input rules.
func (d *Document) Validate() error {
	if d.Score.Time != "" {
		ts, err := d.TimeSignature()
		if err != nil {
			return err
		}
		if err := errors.ValidateTimeSignature(ts.NumBeats, ts.BeatValue); err != nil {
			return err
		}
	}
	if d.Score.Key != "" {
		if err := errors.ValidateKeySignature(d.Score.Key); err != nil {
			return err
		}
	}
	if len(d.Voices) == 0 {
		return errors.New(errors.ErrCodeNoVoices, "score document declares no voices")
	}
	for vi, v := range d.Voices {
		switch v.Mode {
		case "", "strict", "soft", "full":
		default:
			return errors.New(errors.ErrCodeInvalidScore, "voice %d: unknown mode %q", vi, v.Mode)
		}
		if len(v.Notes) == 0 {
			return errors.New(errors.ErrCodeInvalidScore, "voice %d has no notes", vi)
		}
		for ni, n := range v.Notes {
			if err := errors.ValidateDurationCode(n.Duration); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScore, err, "voice %d note %d", vi, ni)
			}
			if !n.Rest {
				if len(n.Keys) == 0 {
					return errors.New(errors.ErrCodeInvalidScore, "voice %d note %d: no keys", vi, ni)
				}
				for _, key := range n.Keys {
					if err := errors.ValidateNoteKey(key); err != nil {
						return errors.Wrap(errors.ErrCodeInvalidScore, err, "voice %d note %d", vi, ni)
					}
				}
			}
			if tp := n.Tuplet; tp != nil && (tp.NumNotes <= 0 || tp.NotesOccupied <= 0) {
				return errors.New(errors.ErrCodeInvalidScore, "voice %d note %d: malformed tuplet", vi, ni)
			}
		}
	}
	return nil
}

// TimeSignature parses the document's time declaration, defaulting to
// common time.
func (d *Document) TimeSignature() (score.TimeSignature, error) {
	if d.Score.Time == "" {
		return score.CommonTime, nil
	}
	parts := strings.SplitN(d.Score.Time, "/", 2)
	if len(parts) != 2 {
		return score.TimeSignature{}, errors.New(errors.ErrCodeInvalidScore, "malformed time signature %q", d.Score.Time)
	}
	num, err := strconv.Atoi(parts[0])
	if err != nil {
		return score.TimeSignature{}, errors.New(errors.ErrCodeInvalidScore, "malformed time signature %q", d.Score.Time)
	}
	beat, err := strconv.Atoi(parts[1])
	if err != nil || beat == 0 {
		return score.TimeSignature{}, errors.New(errors.ErrCodeInvalidScore, "malformed time signature %q", d.Score.Time)
	}
	return score.TimeSignature{NumBeats: num, BeatValue: beat}, nil
}

// Compile builds formatter-ready voices from the document and applies
// the key signature's accidental pass.
func (d *Document) Compile() ([]*score.Voice, error) {
	ts, err := d.TimeSignature()
	if err != nil {
		return nil, err
	}

	voices := make([]*score.Voice, 0, len(d.Voices))
	for vi, v := range d.Voices {
		voice := score.NewVoice(ts)
		switch v.Mode {
		case "soft":
			voice.SetMode(score.SoftMode)
		case "full":
			voice.SetMode(score.FullMode)
		}
		if v.Softmax > 0 {
			voice.SetSoftmaxFactor(v.Softmax)
		}
		for ni, n := range v.Notes {
			tk, err := compileNote(n)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScore, err, "voice %d note %d", vi, ni)
			}
			if err := voice.AddTickable(tk); err != nil {
				return nil, fmt.Errorf("voice %d note %d: %w", vi, ni, err)
			}
		}
		voices = append(voices, voice)
	}

	key := d.Score.Key
	if key == "" {
		key = "C"
	}
	if err := score.ApplyAccidentals(voices, key); err != nil {
		return nil, err
	}
	return voices, nil
}

func compileNote(n Note) (*score.Note, error) {
	var (
		note *score.Note
		err  error
	)
	if n.Rest {
		note, err = score.NewRest(n.Duration, n.Dots)
	} else {
		note, err = score.NewNote(n.Keys, n.Duration, n.Dots)
	}
	if err != nil {
		return nil, err
	}
	if n.Tuplet != nil {
		note.ApplyTuplet(&score.Tuplet{
			NumNotes:      n.Tuplet.NumNotes,
			NotesOccupied: n.Tuplet.NotesOccupied,
		})
	}
	return note, nil
}
