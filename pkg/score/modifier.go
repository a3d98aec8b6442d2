package score

// Modifier categories, in the order ModifierContext formats them.
const (
	CategoryDot            = "dots"
	CategoryAccidental     = "accidentals"
	CategoryArticulation   = "articulations"
	CategoryGraceNoteGroup = "gracenotegroups"
)

// Modifier is anything attached to a note that needs horizontal room next
// to it: accidentals, dots, articulations, grace-note groups.
type Modifier interface {
	Category() string
	Width() float64

	// Note and Index identify the attachment point: the owning note and
	// the chord member (key index) the modifier applies to.
	Note() *Note
	SetNote(n *Note)
	Index() int
	SetIndex(i int)

	// XShift positions the modifier relative to the note, negative left.
	XShift() float64
	SetXShift(shift float64)
}

// ModifierBase carries the attachment state shared by all modifiers.
type ModifierBase struct {
	note   *Note
	index  int
	xShift float64
	width  float64
}

func (m *ModifierBase) Note() *Note         { return m.note }
func (m *ModifierBase) SetNote(n *Note)     { m.note = n }
func (m *ModifierBase) Index() int          { return m.index }
func (m *ModifierBase) SetIndex(i int)      { m.index = i }
func (m *ModifierBase) XShift() float64     { return m.xShift }
func (m *ModifierBase) SetXShift(s float64) { m.xShift = s }
func (m *ModifierBase) Width() float64      { return m.width }
func (m *ModifierBase) SetWidth(w float64)  { m.width = w }

// ModifierState is the accumulator threaded through the per-category format
// passes of one ModifierContext. Passing it explicitly keeps the data flow
// of the packing algorithms auditable.
type ModifierState struct {
	LeftShift  float64
	RightShift float64
	TextLine   int
}

// Dot extends a note's duration and sits to the right of the notehead.
type Dot struct {
	ModifierBase
}

// NewDot returns a dot modifier for chord member index.
func NewDot(index int) *Dot {
	d := &Dot{}
	d.SetIndex(index)
	d.SetWidth(5)
	return d
}

func (d *Dot) Category() string { return CategoryDot }

// FormatDots lays out dot modifiers to the right of the note column.
func FormatDots(dots []*Dot, state *ModifierState) {
	rightShift := state.RightShift
	for _, d := range dots {
		d.SetXShift(rightShift)
		rightShift += d.Width() + dotSpacing
	}
	state.RightShift = rightShift
}

const dotSpacing = 1.0

// Articulation marks (staccato, accent, ...) sit above or below the note
// and consume a text line rather than horizontal space.
type Articulation struct {
	ModifierBase
	Type  string
	Above bool
	line  int
}

// NewArticulation returns an articulation of the given type ("a.", "a>",
// "a-", ...), placed above the note by default.
func NewArticulation(artType string) *Articulation {
	return &Articulation{Type: artType, Above: true}
}

func (a *Articulation) Category() string { return CategoryArticulation }

// Line returns the text line the articulation was assigned during format.
func (a *Articulation) Line() int { return a.line }

// FormatArticulations stacks articulations onto successive text lines.
func FormatArticulations(arts []*Articulation, state *ModifierState) {
	for _, a := range arts {
		a.line = state.TextLine
		state.TextLine++
	}
}

// GraceNoteGroup holds the grace notes preceding a note. The group is laid
// out left of the accidental stack.
type GraceNoteGroup struct {
	ModifierBase
	graceNotes []*Note
}

// NewGraceNoteGroup wraps the given grace notes.
func NewGraceNoteGroup(notes []*Note) *GraceNoteGroup {
	g := &GraceNoteGroup{graceNotes: notes}
	var w float64
	for _, n := range notes {
		n.SetIgnoreTicks(true)
		n.PreFormat()
		w += n.Width() + graceNoteSpacing
	}
	g.SetWidth(w)
	return g
}

func (g *GraceNoteGroup) Category() string { return CategoryGraceNoteGroup }

// GraceNotes returns the notes in the group, in playing order.
func (g *GraceNoteGroup) GraceNotes() []*Note { return g.graceNotes }

// FormatGraceNoteGroups reserves room left of the accidental columns.
func FormatGraceNoteGroups(groups []*GraceNoteGroup, state *ModifierState) {
	for _, g := range groups {
		g.SetXShift(-(state.LeftShift + g.Width()))
		state.LeftShift += g.Width() + graceGroupSpacing
	}
}

const (
	graceNoteSpacing  = 2.0
	graceGroupSpacing = 4.0
)
