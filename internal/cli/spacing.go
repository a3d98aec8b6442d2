package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stavekit/stavekit/pkg/render/spacing"
)

// spacingOpts holds the command-line flags for the spacing command.
type spacingOpts struct {
	output   string  // output file path (default: stdout for dot)
	format   string  // "dot", "svg", or "png"
	detailed bool    // include freedom and member counts in labels
	width    float64 // stave width override
}

// spacingCommand creates the spacing command, a debug tool that renders
// the tick-context chain the layout engine produced as a Graphviz graph.
func (c *CLI) spacingCommand() *cobra.Command {
	opts := spacingOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "spacing [score.toml]",
		Short: "Visualize tick-context spacing as a Graphviz graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSpacing(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include freedom and member counts in labels")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "stave width (overrides the document)")

	return cmd
}

func (c *CLI) runSpacing(cmd *cobra.Command, input string, opts *spacingOpts) error {
	f, _, err := loadAndFormat(input, opts.width)
	if err != nil {
		return err
	}

	gaps, _ := f.ContextGaps()
	dot := spacing.ToDOT(f.TickContexts(), gaps, spacing.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case "dot":
		if opts.output == "" {
			fmt.Println(dot)
			return nil
		}
		data = []byte(dot)
	case "svg":
		data, err = spacing.RenderSVG(cmd.Context(), dot)
	case "png":
		data, err = spacing.RenderPNG(cmd.Context(), dot)
	default:
		return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", opts.format)
	}
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "_spacing." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}
