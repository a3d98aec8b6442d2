package score

import (
	"slices"
	"sort"
	"strconv"

	"github.com/stavekit/stavekit/pkg/fraction"
)

// ApplyAccidentals walks all voices in tick order and attaches explicit
// accidentals wherever a note's written pitch departs from the current
// measure state seeded by the key signature. Simultaneous notes across
// voices are processed as one group so a restatement in one voice is seen
// by the others. Accidentals persist for the rest of the measure per
// pitch letter and octave, must be restated when canceled, and the notes
// inside grace-note groups are processed before their parent note.
func ApplyAccidentals(voices []*Voice, keySignature string) error {
	if keySignature == "" {
		keySignature = "C"
	}
	scaleMapKey, err := CreateScaleMap(keySignature)
	if err != nil {
		return err
	}

	// Bucket tickables by exact tick position across all voices.
	type tickGroup struct {
		position fraction.Fraction
		notes    []Tickable
	}
	groups := make(map[string]*tickGroup)
	var order []string
	for _, voice := range voices {
		position := fraction.New(0, 1)
		for _, t := range voice.Tickables() {
			if t.ShouldIgnoreTicks() {
				continue
			}
			key := position.Simplify().String()
			g, ok := groups[key]
			if !ok {
				g = &tickGroup{position: position}
				groups[key] = g
				order = append(order, key)
			}
			g.notes = append(g.notes, t)
			position = position.Add(t.Ticks())
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].position.LessThan(groups[order[j]].position)
	})

	// scaleMap tracks the running accidental state per letter+octave,
	// lazily seeded from the key signature.
	scaleMap := make(map[string]string)

	for _, key := range order {
		// Pitches restated at this tick; a second chord member or voice
		// writing the same pitch again forces a redundant accidental.
		var modifiedPitches []string

		var processNote func(t Tickable)
		processNote = func(t Tickable) {
			note, ok := t.(*Note)
			if !ok || note.IsRest() {
				return
			}

			// Grace notes sound before their parent, so they claim
			// accidental state first. Pitches they restate do not force
			// a redundant accidental on the parent itself.
			graceStart := len(modifiedPitches)
			for _, m := range note.Modifiers() {
				if group, isGroup := m.(*GraceNoteGroup); isGroup {
					for _, grace := range group.GraceNotes() {
						processNote(grace)
					}
				}
			}
			ownGracePitches := slices.Clone(modifiedPitches[graceStart:])

			for keyIndex, props := range note.KeyProps() {
				accidentalString := props.Accidental
				if accidentalString == "" {
					accidentalString = "n"
				}
				pitch := props.Letter + accidentalString
				mapKey := props.Letter + strconv.Itoa(props.Octave)

				if _, seeded := scaleMap[mapKey]; !seeded {
					scaleMap[mapKey] = scaleMapKey[props.Letter]
				}
				sameAccidental := scaleMap[mapKey] == pitch
				previouslyModified := slices.Contains(modifiedPitches, props.Key) &&
					!slices.Contains(ownGracePitches, props.Key)

				// Drop accidentals attached on an earlier pass so reruns
				// do not render them twice. Removal compacts the modifier
				// list, so targets are collected before removing.
				var stale []Modifier
				for _, m := range note.Modifiers() {
					if acc, isAcc := m.(*Accidental); isAcc && acc.Type == accidentalString && acc.Index() == keyIndex {
						stale = append(stale, m)
					}
				}
				for _, m := range stale {
					note.RemoveModifier(m)
				}

				if !sameAccidental || previouslyModified {
					scaleMap[mapKey] = pitch
					note.AddModifier(NewAccidental(accidentalString), keyIndex)
					modifiedPitches = append(modifiedPitches, props.Key)
				}
			}
		}

		for _, t := range groups[key].notes {
			processNote(t)
		}
	}
	return nil
}
