package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/StructAlign/internal/application/alignment"
	"github.com/turtacn/StructAlign/pkg/errors"
	alignTypes "github.com/turtacn/StructAlign/pkg/types/align"
)

// newDistMatCommand computes per-structure residue distance matrices, from
// an ensemble document or straight from the structure store.
func newDistMatCommand() *cobra.Command {
	var (
		ids  []string
		file string
	)

	cmd := &cobra.Command{
		Use:   "distmat [ensemble.json]",
		Short: "Compute per-structure residue distance matrices",
		Long: "Distmat computes, for every structure, the matrix of pairwise\n" +
			"distances between its atoms.  Pass an ensemble document to use its\n" +
			"structures, or one or more --id flags to load structures from the\n" +
			"store directly.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 && len(ids) > 0 {
				return errors.InvalidParam("pass either an ensemble document or --id flags, not both")
			}
			if len(args) == 0 && len(ids) == 0 {
				return errors.InvalidParam("an ensemble document or at least one --id is required")
			}

			ctx, cancel := operationContext(cmd, cliCtx)
			defer cancel()

			if len(ids) > 0 {
				loaded, err := cliCtx.Service.LoadEnsemble(ctx, ids)
				if err != nil {
					return err
				}
				if cliCtx.Output == "json" || file != "" {
					return writeJSON(cmd, file, loaded)
				}
				printMatrices(cmd.OutOrStdout(), &alignment.DistanceMatrixResult{
					Identifiers: loaded.Identifiers,
					Source:      "store",
					Matrices:    loaded.Matrices,
				})
				return nil
			}

			var doc alignTypes.EnsembleDTO
			if err := readDocument(args[0], &doc); err != nil {
				return err
			}
			result, err := cliCtx.Service.DistanceMatrices(ctx, &doc)
			if err != nil {
				return err
			}
			if cliCtx.Output == "json" || file != "" {
				return writeJSON(cmd, file, result)
			}
			printMatrices(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ids, "id", nil, "structure identifier to load from the store (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "write the result as JSON to this file")
	return cmd
}

func printMatrices(w io.Writer, result *alignment.DistanceMatrixResult) {
	fmt.Fprintf(w, "Source: %s\n", result.Source)
	for i, m := range result.Matrices {
		name := fmt.Sprintf("structure %d", i)
		if i < len(result.Identifiers) {
			name = result.Identifiers[i]
		}
		fmt.Fprintf(w, "%s (%d residues):\n", name, len(m))
		for _, row := range m {
			for j, v := range row {
				if j > 0 {
					fmt.Fprint(w, " ")
				}
				fmt.Fprintf(w, "%6.2f", v)
			}
			fmt.Fprintln(w)
		}
	}
}
