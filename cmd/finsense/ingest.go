package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/finsense/internal/api"
	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.json|->",
		Short: "Ingest classified transactions from a JSON file",
		Long: `Ingest classifier output. The file holds a JSON array of transactions:

  [{"date": "2025-01-15", "vendor": "Sysco", "amount": "450.00",
    "category": "Inventory - Food & Supplies", "confidence": 0.95,
    "explanation": "Matches inventory purchase pattern"}]

Each transaction gets a status from its confidence and category. The batch
is all or nothing: one bad entry rejects the whole file.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	batch, err := readIngestFile(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	return withLedger(cmd.Context(), func(_ *storage.SQLiteStorage, eng *engine.Engine) error {
		created, err := eng.IngestBatch(cmd.Context(), batch)
		if err != nil {
			return fmt.Errorf("failed to ingest transactions: %w", err)
		}

		var counts model.StatusCounts
		for _, txn := range created {
			counts.Add(txn.Status)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Ingested %d transactions", len(created))))
		fmt.Fprintln(out, cli.RenderSummary(counts))
		return nil
	})
}

func readIngestFile(stdin io.Reader, path string) ([]model.Classified, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var reqs []api.IngestRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&reqs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	batch := make([]model.Classified, 0, len(reqs))
	for i, req := range reqs {
		in, err := req.ToClassified()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		batch = append(batch, in)
	}
	return batch, nil
}
