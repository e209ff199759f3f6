package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/demo"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/spf13/cobra"
)

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Work with the sample review queue",
	}

	var force bool
	load := &cobra.Command{
		Use:   "load",
		Short: "Replace the ledger with the sample transactions",
		Long: `Replace every transaction with the sample review queue and clear the
session flags. A safety checkpoint is taken first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return withLedger(ctx, func(store *storage.SQLiteStorage, eng *engine.Engine) error {
				if n := eng.CountByStatus(ctx).Total(); n > 0 && !force {
					ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(os.Stdin), out,
						fmt.Sprintf("Replace %d transactions with the demo data?", n))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, cli.FormatInfo("Demo load canceled"))
						return nil
					}
				}

				if err := autoCheckpoint(ctx, out, store, "demo"); err != nil {
					return err
				}

				created, err := demo.Load(ctx, eng, store)
				if err != nil {
					return err
				}

				var counts model.StatusCounts
				for _, txn := range created {
					counts.Add(txn.Status)
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Loaded %d demo transactions", len(created))))
				fmt.Fprintln(out, cli.RenderSummary(counts))
				return nil
			})
		},
	}
	load.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	cmd.AddCommand(load)

	return cmd
}
