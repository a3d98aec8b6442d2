package score

import "github.com/stavekit/stavekit/pkg/glyph"

// ModifierContext resolves the horizontal packing of all modifiers that
// share one tick position on one stave. Categories format in a fixed
// order, each reading and advancing the shared ModifierState accumulator.
type ModifierContext struct {
	state   ModifierState
	members map[string][]Modifier

	eng           glyph.Engraving
	preFormatted  bool
	postFormatted bool
	width         float64
	spacing       float64
}

// NewModifierContext creates an empty context with stock engraving
// constants.
func NewModifierContext() *ModifierContext {
	return &ModifierContext{
		members: make(map[string][]Modifier),
		eng:     glyph.DefaultEngraving(),
		spacing: modifierSpacing,
	}
}

const modifierSpacing = 2.0

// SetEngraving overrides the engraving constants used by the category
// format passes.
func (mc *ModifierContext) SetEngraving(eng glyph.Engraving) { mc.eng = eng }

// AddMember registers a modifier under its category.
func (mc *ModifierContext) AddMember(m Modifier) *ModifierContext {
	cat := m.Category()
	mc.members[cat] = append(mc.members[cat], m)
	mc.preFormatted = false
	return mc
}

// Members returns the modifiers of one category, in attachment order.
func (mc *ModifierContext) Members(category string) []Modifier {
	return mc.members[category]
}

// State returns the shared shift accumulator. After PreFormat it reports
// the room the packed modifiers consume on each side of the note column.
func (mc *ModifierContext) State() ModifierState { return mc.state }

// Width returns the total horizontal room the context consumes.
func (mc *ModifierContext) Width() float64 { return mc.width }

// PreFormat runs each category's packing pass in rendering order:
// dots right of the note, then accidentals, articulations, and grace-note
// groups to the left.
func (mc *ModifierContext) PreFormat() {
	if mc.preFormatted {
		return
	}

	FormatDots(membersAs[*Dot](mc, CategoryDot), &mc.state)
	FormatAccidentals(membersAs[*Accidental](mc, CategoryAccidental), &mc.state, mc.eng)
	FormatArticulations(membersAs[*Articulation](mc, CategoryArticulation), &mc.state)
	FormatGraceNoteGroups(membersAs[*GraceNoteGroup](mc, CategoryGraceNoteGroup), &mc.state)

	mc.width = mc.state.LeftShift + mc.state.RightShift + mc.spacing
	mc.preFormatted = true
}

// PostFormat is a hook for categories that need y positions; the current
// categories are fully resolved in PreFormat.
func (mc *ModifierContext) PostFormat() {
	if mc.postFormatted {
		return
	}
	mc.postFormatted = true
}

// membersAs returns the members of a category downcast to their concrete
// type. Members of a foreign type are skipped.
func membersAs[T Modifier](mc *ModifierContext, category string) []T {
	raw := mc.members[category]
	out := make([]T, 0, len(raw))
	for _, m := range raw {
		if t, ok := m.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
