package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stavekit/stavekit/pkg/scorefile"
)

// checkCommand creates the check command for validating score files.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [score.toml]",
		Short: "Validate a score file without rendering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scorefile.Load(args[0])
			if err != nil {
				return err
			}
			voices, err := doc.Compile()
			if err != nil {
				return err
			}

			printSuccess("%s is valid", args[0])
			if doc.Score.Title != "" {
				printKeyValue("title", doc.Score.Title)
			}
			ts, _ := doc.TimeSignature()
			printKeyValue("time", fmt.Sprintf("%d/%d", ts.NumBeats, ts.BeatValue))
			if doc.Score.Key != "" {
				printKeyValue("key", doc.Score.Key)
			}
			printKeyValue("voices", fmt.Sprintf("%d", len(voices)))

			for i, v := range voices {
				status := "complete"
				if !v.IsComplete() {
					status = "incomplete"
				}
				printDetail("voice %d: %d notes, %s", i+1, len(v.Tickables()), status)
			}
			return nil
		},
	}
}
