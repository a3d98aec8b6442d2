package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stavekit/stavekit/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
// These options control layout tunables, output formats, and caching.
type renderOpts struct {
	output        string   // output file path (or base path for multiple formats)
	formats       []string // output formats: "svg", "png", "json", "dot"
	width         float64  // stave width override in pixels
	height        float64  // canvas height in pixels
	scale         float64  // raster supersampling factor
	alignRests    bool     // align rest lines with neighboring notes
	softmax       float64  // softmax factor for duration weighting
	globalSoftmax bool     // compute softmax over all voices together
	maxIterations int      // justification iteration cap
	tuneSteps     int      // tuning passes to run after formatting
	tuneAlpha     float64  // tuning damping factor
	detailed      bool     // verbose labels in DOT output
	noCache       bool     // disable the layout/artifact cache
	refresh       bool     // recompute even when cached
}

// renderCommand creates the render command for engraving score files.
// It supports multiple output formats (SVG, PNG, JSON, DOT) written to
// separate files derived from one base path.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [score.toml]",
		Short: "Engrave a score file to SVG, PNG, JSON, or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "stave width (overrides the document)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG supersampling factor")
	cmd.Flags().BoolVar(&opts.alignRests, "align-rests", false, "align rest lines with neighboring notes")
	cmd.Flags().Float64Var(&opts.softmax, "softmax", 0, "softmax factor for duration weighting")
	cmd.Flags().BoolVar(&opts.globalSoftmax, "global-softmax", false, "compute softmax over all voices together")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "justification iteration cap")
	cmd.Flags().IntVar(&opts.tuneSteps, "tune", 0, "tuning passes to run after formatting")
	cmd.Flags().Float64Var(&opts.tuneAlpha, "tune-alpha", 0, "tuning damping factor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show detailed information (dot)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout/artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runRender executes the pipeline for input and writes one file per format.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Path:          input,
		Refresh:       opts.refresh,
		Width:         opts.width,
		SoftmaxFactor: opts.softmax,
		GlobalSoftmax: opts.globalSoftmax,
		MaxIterations: opts.maxIterations,
		AlignRests:    opts.alignRests,
		TuneSteps:     opts.tuneSteps,
		TuneAlpha:     opts.tuneAlpha,
		Formats:       opts.formats,
		Height:        opts.height,
		Scale:         opts.scale,
		Detailed:      opts.detailed,
		Logger:        c.Logger,
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := outputPath(base, opts.output, format, len(opts.formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	title := result.Document.Score.Title
	if title == "" {
		title = input
	}
	printSuccess("Engraved %s", title)
	printStats(result.Stats.NoteCount, len(result.Layout.Contexts), result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	prog.done(fmt.Sprintf("Wrote %d artifact(s)", len(opts.formats)))
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
// This is used when generating multiple files (e.g., etude.svg, etude.json).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Strip known format extensions from output path
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath builds the file path for one artifact. An explicit --output is
// honored as-is when only a single format is requested.
func outputPath(base, output, format string, formatCount int) string {
	if output != "" && formatCount == 1 {
		return output
	}
	return base + "." + format
}
