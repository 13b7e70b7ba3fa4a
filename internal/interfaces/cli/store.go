package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// newStoreCommand manages the on-disk structure store the named documents
// resolve their atoms from.
func newStoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the structure store",
	}
	cmd.AddCommand(newStoreAddCommand(), newStoreGetCommand())
	return cmd
}

func newStoreAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <atoms.json>",
		Short: "Save an atom array under an identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}

			var arr structure.AtomArray
			if err := readDocument(args[1], &arr); err != nil {
				return err
			}

			if err := os.MkdirAll(cliCtx.Config.Store.Dir, 0o755); err != nil {
				return errors.New(errors.ErrCodeStructureStoreUnavailable, "failed to create store directory").
					WithDetail(cliCtx.Config.Store.Dir).WithCause(err)
			}
			id := structure.StructureID(args[0])
			if err := cliCtx.Store.Save(id, arr); err != nil {
				return err
			}

			if cliCtx.Output == "json" {
				return writeJSON(cmd, "", map[string]interface{}{
					"id":    id.String(),
					"atoms": arr.Len(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d atoms)\n", id, arr.Len())
			return nil
		},
	}
}

func newStoreGetCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print the atom array stored under an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := operationContext(cmd, cliCtx)
			defer cancel()

			arr, err := cliCtx.Store.Resolve(ctx, structure.StructureID(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(cmd, file, arr)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "output file (default: stdout)")
	return cmd
}
