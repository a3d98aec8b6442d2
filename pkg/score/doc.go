// Package score defines the notation data model the formatter operates on.
//
// The central abstraction is the Tickable: anything that consumes musical
// time (a note, a rest, a bar marker). Tickables are grouped two ways during
// formatting:
//
//   - A TickContext collects the tickables from every voice that start at
//     the same tick offset. It aggregates their width requirements into a
//     single horizontal slot and owns that slot's final x position.
//   - A ModifierContext collects the modifiers (accidentals, dots,
//     articulations) attached to tickables that share a tick position on the
//     same stave, and resolves their mutual horizontal packing.
//
// Voices tie tickables into ordered musical lines with a declared total
// duration, and supply the softmax weighting used for proportional spacing.
// The formatter in pkg/format drives all of this; this package holds the
// entities and the per-entity layout rules (notehead displacement,
// accidental column packing, automatic accidental application).
//
// All time values are exact fractions (pkg/fraction). Pixel values are
// float64 in stave-space units (pkg/glyph).
package score
