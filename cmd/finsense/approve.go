package main

import (
	"fmt"

	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/spf13/cobra"
)

func approveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>...",
		Short: "Accept the suggested category of transactions under review",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), func(_ *storage.SQLiteStorage, eng *engine.Engine) error {
				for _, id := range args {
					txn, err := eng.Approve(cmd.Context(), id)
					if err != nil {
						return err
					}
					printDecision(cmd, "Approved", txn)
				}
				return nil
			})
		},
	}
}

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize <id> <category>",
		Short: "File a transaction under a different category",
		Long: `File a transaction under a different category. A transaction under
review is approved by the correction; an auto-approved or manual one
becomes a manual decision.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), func(_ *storage.SQLiteStorage, eng *engine.Engine) error {
				txn, err := eng.Recategorize(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				printDecision(cmd, "Recategorized", txn)
				return nil
			})
		},
	}
}

func printDecision(cmd *cobra.Command, verb string, txn model.Transaction) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s  %s\n",
		cli.FormatSuccess(verb+" "+txn.Vendor),
		txn.Category,
		cli.FormatStatus(txn.Status),
		cli.SubtleStyle.Render(txn.ID))
}
