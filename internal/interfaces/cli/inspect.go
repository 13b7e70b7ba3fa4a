package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/StructAlign/internal/application/alignment"
	alignTypes "github.com/turtacn/StructAlign/pkg/types/align"
)

// newInspectCommand summarizes an ensemble document, or looks up a single
// score with --score.
func newInspectCommand() *cobra.Command {
	var scoreName string

	cmd := &cobra.Command{
		Use:   "inspect <ensemble.json>",
		Short: "Summarize an ensemble document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}

			var doc alignTypes.EnsembleDTO
			if err := readDocument(args[0], &doc); err != nil {
				return err
			}

			if scoreName != "" {
				value, err := cliCtx.Service.Score(&doc, scoreName)
				if err != nil {
					return err
				}
				if cliCtx.Output == "json" {
					return writeJSON(cmd, "", map[string]interface{}{
						"name":  scoreName,
						"value": value,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%g\n", value)
				return nil
			}

			ctx, cancel := operationContext(cmd, cliCtx)
			defer cancel()

			summary, err := cliCtx.Service.Describe(ctx, &doc)
			if err != nil {
				return err
			}
			if cliCtx.Output == "json" {
				return writeJSON(cmd, "", summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&scoreName, "score", "", "print a single score instead of the summary")
	return cmd
}

func printSummary(w io.Writer, s *alignment.EnsembleSummary) {
	fmt.Fprintf(w, "Ensemble:    %s\n", s.ID)
	if s.Algorithm != "" {
		if s.Version != "" {
			fmt.Fprintf(w, "Algorithm:   %s (version %s)\n", s.Algorithm, s.Version)
		} else {
			fmt.Fprintf(w, "Algorithm:   %s\n", s.Algorithm)
		}
	}
	fmt.Fprintf(w, "Structures:  %d\n", s.Size)
	fmt.Fprintf(w, "I/O time:    %s\n", time.Duration(s.IOTimeMS)*time.Millisecond)
	fmt.Fprintf(w, "Calc time:   %s\n", time.Duration(s.CalculationTimeMS)*time.Millisecond)
	printScores(w, "", s.Scores)
	fmt.Fprintf(w, "Alignments:  %d\n", len(s.Alignments))
	for i, a := range s.Alignments {
		fmt.Fprintf(w, "  #%d: %d block set(s), %d block(s), length %d, core %d\n",
			i+1, a.BlockSets, a.Blocks, a.Length, a.CoreLength)
		printScores(w, "  ", a.Scores)
	}
}

func printScores(w io.Writer, indent string, scores map[string]float64) {
	if len(scores) == 0 {
		return
	}
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "%sScores:\n", indent)
	for _, name := range names {
		fmt.Fprintf(w, "%s  %s: %g\n", indent, name, scores[name])
	}
}
