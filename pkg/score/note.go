package score

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/stavekit/stavekit/pkg/fraction"
	"github.com/stavekit/stavekit/pkg/glyph"
)

// Stem directions.
const (
	StemUp   = 1
	StemDown = -1
)

// KeyProps is the resolved stave placement of one chord member.
type KeyProps struct {
	// Key is the original key string ("c#/5").
	Key string

	// Letter is the pitch letter ("c".."b"); Accidental the written
	// accidental ("", "#", "##", "b", "bb", "n"); Octave the scientific
	// octave number.
	Letter     string
	Accidental string
	Octave     int

	// Line is the stave line in half-line steps, bottom line = 1.
	Line float64

	// Displaced marks a notehead pushed off the stem by a second.
	Displaced bool
}

// Note is a pitched note, chord, or rest occupying time on a stave.
type Note struct {
	TickableBase

	keys     []string
	keyProps []KeyProps
	duration string
	dots     int
	rest     bool

	// restLine is where a rest renders; movable unless pinned.
	restLine   float64
	restPinned bool

	stemDirection int
	beamed        bool
	tuplet        *Tuplet
}

// Tuplet rescales note durations: NotesOccupied normal notes played in the
// time of NumNotes (a triplet is 3 notes in the time of 2).
type Tuplet struct {
	NumNotes      int
	NotesOccupied int
}

// NewNote builds a note or chord from key strings ("c/4", "f#/5") and a
// duration code, with the given number of dots.
func NewNote(keys []string, duration string, dots int) (*Note, error) {
	ticks, err := DurationToTicks(duration, dots)
	if err != nil {
		return nil, err
	}
	n := &Note{
		TickableBase:  NewTickableBase(ticks),
		keys:          keys,
		duration:      duration,
		dots:          dots,
		stemDirection: StemUp,
	}
	if err := n.parseKeys(); err != nil {
		return nil, err
	}
	n.calcDisplacement()
	for i := 0; i < dots; i++ {
		for k := range keys {
			n.AddModifier(NewDot(k), k)
		}
	}
	return n, nil
}

// NewRest builds a rest of the given duration. The rest renders on the
// middle line until rest alignment or the caller moves it.
func NewRest(duration string, dots int) (*Note, error) {
	ticks, err := DurationToTicks(duration, dots)
	if err != nil {
		return nil, err
	}
	n := &Note{
		TickableBase: NewTickableBase(ticks),
		duration:     duration,
		dots:         dots,
		rest:         true,
		restLine:     3,
	}
	if duration == "1" {
		n.SetCenterAligned(true)
	}
	return n, nil
}

func (n *Note) parseKeys() error {
	n.keyProps = n.keyProps[:0]
	for _, key := range n.keys {
		parts := strings.Split(strings.ToLower(key), "/")
		if len(parts) != 2 {
			return fmt.Errorf("malformed key %q", key)
		}
		name := parts[0]
		octave, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("malformed octave in key %q", key)
		}
		letter := name[:1]
		accidental := name[1:]
		idx := strings.Index("cdefgab", letter)
		if idx < 0 || !validAccidental(accidental) {
			return fmt.Errorf("malformed key %q", key)
		}
		// Bottom line (E4 in treble) is line 1; each diatonic step is
		// half a line.
		step := octave*7 + idx
		line := 1 + float64(step-30)*0.5
		n.keyProps = append(n.keyProps, KeyProps{
			Key:        key,
			Letter:     letter,
			Accidental: accidental,
			Octave:     octave,
			Line:       line,
		})
	}
	return nil
}

func validAccidental(acc string) bool {
	switch acc {
	case "", "#", "##", "b", "bb", "n":
		return true
	}
	return false
}

// calcDisplacement marks noteheads a second apart as displaced. With the
// stem up the upper head of the pair moves right; stem down, the lower
// head moves left.
func (n *Note) calcDisplacement() {
	props := make([]*KeyProps, len(n.keyProps))
	for i := range n.keyProps {
		n.keyProps[i].Displaced = false
		props[i] = &n.keyProps[i]
	}
	sort.SliceStable(props, func(i, j int) bool { return props[i].Line < props[j].Line })
	lastLine := -1000.0
	for _, p := range props {
		if p.Line-lastLine < 1 && lastLine > -999 {
			p.Displaced = true
		}
		lastLine = p.Line
	}
}

// Keys returns the original key strings.
func (n *Note) Keys() []string { return n.keys }

// KeyProps returns the resolved placement of each chord member, in key
// order.
func (n *Note) KeyProps() []KeyProps { return n.keyProps }

// Duration returns the duration code ("1", "2", "4", ...).
func (n *Note) Duration() string { return n.duration }

// Dots returns the dot count.
func (n *Note) Dots() int { return n.dots }

func (n *Note) IsRest() bool { return n.rest }

// RestLine returns the stave line a rest renders on.
func (n *Note) RestLine() float64 { return n.restLine }

// SetRestLine moves a rest to the given line. Alignment skips pinned rests.
func (n *Note) SetRestLine(line float64) { n.restLine = line }

// PinRest fixes the rest to its current line, opting it out of alignment.
func (n *Note) PinRest() { n.restPinned = true }

// RestPinned reports whether the rest may be realigned.
func (n *Note) RestPinned() bool { return n.restPinned }

// StemDirection returns StemUp or StemDown.
func (n *Note) StemDirection() int { return n.stemDirection }

// SetStemDirection forces the stem direction and recomputes displacement.
func (n *Note) SetStemDirection(dir int) {
	n.stemDirection = dir
	n.calcDisplacement()
}

// SetBeamed marks the note as part of a beam group. Beamed rests are
// aligned to their neighbors even when alignAllNotes is off.
func (n *Note) SetBeamed(beamed bool) { n.beamed = beamed }

// Beamed reports beam membership.
func (n *Note) Beamed() bool { return n.beamed }

// Tuplet returns the note's tuplet, or nil.
func (n *Note) Tuplet() *Tuplet { return n.tuplet }

// ApplyTuplet rescales the note's ticks by occupied/total.
func (n *Note) ApplyTuplet(t *Tuplet) {
	n.tuplet = t
	n.SetTicks(n.Ticks().Multiply(fraction.New(int64(t.NotesOccupied), int64(t.NumNotes))))
}

// AddModifier attaches a modifier to chord member index.
func (n *Note) AddModifier(m Modifier, index int) {
	m.SetNote(n)
	m.SetIndex(index)
	n.addModifier(m)
}

// RemoveModifier detaches a previously attached modifier.
func (n *Note) RemoveModifier(m Modifier) { n.removeModifier(m) }

// GlyphWidth returns the width of the note's head or rest glyph alone.
func (n *Note) GlyphWidth() float64 {
	if n.rest {
		return glyph.RestWidth(n.duration)
	}
	return glyph.NoteheadWidth(n.duration)
}

// PreFormat resolves the note's modifier context and computes its metrics.
func (n *Note) PreFormat() {
	if mc := n.ModifierContext(); mc != nil {
		mc.PreFormat()
	}
	n.SetWidth(n.Metrics().Width)
	n.TickableBase.PreFormat()
}

// Metrics reports the note's horizontal space requirements.
func (n *Note) Metrics() Metrics {
	m := Metrics{NotePx: n.GlyphWidth()}
	headWidth := glyph.NoteheadWidth(n.duration)
	for _, p := range n.keyProps {
		if !p.Displaced {
			continue
		}
		if n.stemDirection == StemUp {
			m.RightDisplacedHeadPx = headWidth
		} else {
			m.LeftDisplacedHeadPx = headWidth
		}
	}
	if mc := n.ModifierContext(); mc != nil {
		st := mc.State()
		m.ModLeftPx = st.LeftShift
		m.ModRightPx = st.RightShift
	}
	m.Width = m.ModLeftPx + m.LeftDisplacedHeadPx + m.NotePx + m.RightDisplacedHeadPx + m.ModRightPx
	return m
}

// Width returns the total formatted width.
func (n *Note) Width() float64 { return n.Metrics().Width }

// BarNote marks a bar line within a voice. It renders at a tick position
// but consumes no ticks.
type BarNote struct {
	TickableBase
}

// NewBarNote returns a bar marker.
func NewBarNote() *BarNote {
	b := &BarNote{TickableBase: NewTickableBase(fraction.New(0, 1))}
	b.SetIgnoreTicks(true)
	b.SetWidth(barNoteWidth)
	return b
}

const barNoteWidth = 8.0

func (b *BarNote) PreFormat() {
	b.SetWidth(barNoteWidth)
	b.TickableBase.PreFormat()
}

// GhostNote occupies time without rendering, used to pad voices.
type GhostNote struct {
	TickableBase
}

// NewGhostNote returns an invisible tickable of the given duration.
func NewGhostNote(duration string, dots int) (*GhostNote, error) {
	ticks, err := DurationToTicks(duration, dots)
	if err != nil {
		return nil, err
	}
	return &GhostNote{TickableBase: NewTickableBase(ticks)}, nil
}
