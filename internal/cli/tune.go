package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stavekit/stavekit/pkg/format"
	"github.com/stavekit/stavekit/pkg/pipeline"
	"github.com/stavekit/stavekit/pkg/score"
	"github.com/stavekit/stavekit/pkg/scorefile"
)

// tuneOpts holds the command-line flags for the tune command.
type tuneOpts struct {
	steps       int     // tuning passes to run
	alpha       float64 // damping factor per pass
	width       float64 // stave width override
	interactive bool    // step through passes in a TUI
}

// tuneCommand creates the tune command for inspecting and refining a
// layout's spacing cost.
func (c *CLI) tuneCommand() *cobra.Command {
	opts := tuneOpts{
		steps: 5,
		alpha: pipeline.DefaultTuneAlpha,
	}

	cmd := &cobra.Command{
		Use:   "tune [score.toml]",
		Short: "Refine a layout and report its spacing cost per pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTune(args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "tuning passes to run")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", opts.alpha, "damping factor per pass")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "stave width (overrides the document)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "step through passes interactively")

	return cmd
}

func (c *CLI) runTune(input string, opts *tuneOpts) error {
	f, _, err := loadAndFormat(input, opts.width)
	if err != nil {
		return err
	}

	if opts.interactive {
		_, err := tea.NewProgram(newTuneModel(f, opts.alpha)).Run()
		return err
	}

	costs := []float64{f.TotalCost()}
	for i := 0; i < opts.steps; i++ {
		cost, err := f.Tune(opts.alpha)
		if err != nil {
			return fmt.Errorf("tune step %d: %w", i+1, err)
		}
		costs = append(costs, cost)
		// Stop once a pass no longer buys a meaningful improvement.
		if costs[len(costs)-2]-cost < convergenceDelta {
			break
		}
	}

	fmt.Println(costTable(costs))
	printSuccess("Final cost %.3f after %d passes", costs[len(costs)-1], len(costs)-1)
	return nil
}

// convergenceDelta is the per-pass cost improvement below which tuning
// stops early.
const convergenceDelta = 0.1

// loadAndFormat compiles and formats a score file, returning the formatter
// and stave for further inspection.
func loadAndFormat(input string, width float64) (*format.Formatter, *score.Stave, error) {
	doc, err := scorefile.Load(input)
	if err != nil {
		return nil, nil, err
	}
	voices, err := doc.Compile()
	if err != nil {
		return nil, nil, err
	}

	opts := pipeline.Options{Width: width}
	stave := pipeline.BuildStave(doc, opts.ResolveWidth(doc))

	f := format.New()
	if err := f.JoinVoices(voices); err != nil {
		return nil, nil, err
	}
	if err := f.FormatToStave(voices, stave, format.FormatParams{}); err != nil {
		return nil, nil, err
	}
	return f, stave, nil
}
