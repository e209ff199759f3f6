package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/finsense/internal/api"
	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/session"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var (
		status string
		filter model.Filter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Example: `  finsense list --status needs-review
  finsense list --search travel`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				filter.Status = model.Status(status)
				if !filter.Status.Valid() {
					return fmt.Errorf("unknown status %q (auto-approved, needs-review, manual)", status)
				}
			}

			return withLedger(cmd.Context(), func(_ *storage.SQLiteStorage, eng *engine.Engine) error {
				txns := eng.List(cmd.Context(), filter)
				out := cmd.OutOrStdout()

				if asJSON {
					resp := make([]api.TransactionResponse, 0, len(txns))
					for _, txn := range txns {
						resp = append(resp, api.TransactionFromDomain(txn, eng.Policy()))
					}
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(resp)
				}

				if len(txns) == 0 {
					fmt.Fprintln(out, cli.SubtleStyle.Render("No transactions."))
					return nil
				}
				fmt.Fprintln(out, cli.RenderTransactions(txns))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Only show this status")
	cmd.Flags().StringVar(&filter.Vendor, "vendor", "", "Vendor contains")
	cmd.Flags().StringVar(&filter.Category, "category", "", "Category contains")
	cmd.Flags().StringVarP(&filter.Search, "search", "q", "", "Vendor or category contains")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show how many transactions are in each status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), func(store *storage.SQLiteStorage, eng *engine.Engine) error {
				counts := eng.CountByStatus(cmd.Context())
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.RenderSummary(counts))

				flags, err := session.NewManager(store, eng).Get(cmd.Context())
				if err != nil {
					return err
				}
				switch {
				case flags.ReviewCompleted:
					fmt.Fprintln(out, cli.FormatSuccess("Review marked complete"))
				case counts.Total() > 0 && counts.NeedsReview == 0:
					fmt.Fprintln(out, cli.FormatInfo("All set! Run 'finsense complete' to close this review."))
				}
				return nil
			})
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), func(_ *storage.SQLiteStorage, eng *engine.Engine) error {
				txn, err := eng.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTransaction(txn, eng.Policy()))
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show every decision made on a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), func(store *storage.SQLiteStorage, eng *engine.Engine) error {
				if _, err := eng.Get(cmd.Context(), args[0]); err != nil {
					return err
				}
				events, err := store.GetHistory(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to read history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderHistory(events))
				return nil
			})
		},
	}
}
