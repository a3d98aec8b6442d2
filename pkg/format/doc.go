// Package format positions the tickables of one or more voices along a
// horizontal axis. Formatting runs in phases: voices are joined into
// shared modifier and tick contexts, every context computes its width
// requirements, contexts are laid out at their minimum widths, and an
// optional justification pass stretches or compresses the layout to a
// target width using duration-proportional spacing. Evaluate scores the
// result and Tune nudges contexts toward more uniform spacing.
package format
