package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/StructAlign/internal/application/alignment"
	alignTypes "github.com/turtacn/StructAlign/pkg/types/align"
)

type convertOptions struct {
	Mode        string
	InlineAtoms bool
	File        string
}

// newConvertCommand lifts a pairwise alignment result into an ensemble
// document.
func newConvertCommand() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <pairwise.json>",
		Short: "Convert a pairwise alignment result into an ensemble document",
		Long: "Convert reads a pairwise structure alignment result and lifts it into\n" +
			"the multiple-alignment ensemble model.  The resulting document is\n" +
			"written as JSON to --file, or to stdout when no file is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}

			var doc alignTypes.PairwiseResultDTO
			if err := readDocument(args[0], &doc); err != nil {
				return err
			}

			mode := opts.Mode
			if mode == "" {
				mode = cliCtx.Config.Convert.Mode
			}

			ctx, cancel := operationContext(cmd, cliCtx)
			defer cancel()

			out, err := cliCtx.Service.ConvertPairwise(ctx, &alignment.ConvertInput{
				Result:      &doc,
				Mode:        mode,
				InlineAtoms: opts.InlineAtoms,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, opts.File, out)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "", "conversion mode (rigid, flexible; default from config)")
	cmd.Flags().BoolVar(&opts.InlineAtoms, "inline-atoms", false, "embed the atom arrays in the output document")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "output file (default: stdout)")
	return cmd
}
