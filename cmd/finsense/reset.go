package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var (
		all   bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "reset [id]",
		Short: "Undo decisions and restore the classifier's suggestion",
		Long: `Restore a transaction to the category and confidence the classifier gave
it, with its status recomputed under the current policy and categories.

With --all every transaction is restored. A safety checkpoint is taken
first.`,
		Example: `  finsense reset 01JH2Y8K3V0Q6N7ZP5W4X9RTCD
  finsense reset --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("pass a transaction id or --all")
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return withLedger(ctx, func(store *storage.SQLiteStorage, eng *engine.Engine) error {
				if !all {
					txn, err := eng.Reset(ctx, args[0])
					if err != nil {
						return err
					}
					printDecision(cmd, "Reset", txn)
					return nil
				}

				if !force {
					ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(os.Stdin), out,
						fmt.Sprintf("Reset all %d transactions to their original classification?", eng.CountByStatus(ctx).Total()))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, cli.FormatInfo("Reset canceled"))
						return nil
					}
				}

				if err := autoCheckpoint(ctx, out, store, "reset"); err != nil {
					return err
				}

				n, err := eng.ResetAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Reset %d transactions", n)))
				fmt.Fprintln(out, cli.RenderSummary(eng.CountByStatus(ctx)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Reset every transaction")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}
