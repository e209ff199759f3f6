package main

import (
	"fmt"

	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/config"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/sheets"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger",
	}

	sheetsCmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write the ledger to a Google Sheets spreadsheet",
		Long: `Write the status summary and every transaction to a Google Sheets
spreadsheet. Authenticate with a service account (GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH)
or OAuth2 (GOOGLE_SHEETS_CLIENT_ID, GOOGLE_SHEETS_CLIENT_SECRET,
GOOGLE_SHEETS_REFRESH_TOKEN). The spreadsheet is created when no
GOOGLE_SHEETS_SPREADSHEET_ID is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return err
			}
			if name, _ := cmd.Flags().GetString("name"); name != "" {
				cfg.SpreadsheetName = name
			}

			writer, err := sheets.NewWriter(ctx, *cfg, nil)
			if err != nil {
				return err
			}

			return withLedger(ctx, func(_ *storage.SQLiteStorage, eng *engine.Engine) error {
				txns := eng.List(ctx, model.Filter{})
				id, err := writer.Write(ctx, txns, eng.CountByStatus(ctx))
				if err != nil {
					return fmt.Errorf("failed to export ledger: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d transactions", len(txns))))
				fmt.Fprintf(out, "https://docs.google.com/spreadsheets/d/%s\n", id)
				return nil
			})
		},
	}
	sheetsCmd.Flags().String("name", "", "Spreadsheet name when creating a new one")
	cmd.AddCommand(sheetsCmd)

	return cmd
}
