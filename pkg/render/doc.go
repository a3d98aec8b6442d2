// Package render draws formatted scores onto pluggable surfaces.
//
// The layout packages compute x positions only; render owns the y axis
// (stave line geometry) and the drawing primitives. A [Surface] is a
// minimal 2D canvas; [DrawScore] walks a stave and its formatted voices
// and emits noteheads, stems, rests, accidentals, and dots through it.
// Concrete surfaces live in the svg and raster subpackages; the spacing
// subpackage visualizes the formatter's tick-context chain for
// debugging.
package render
