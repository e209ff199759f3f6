package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/ofx"
	"github.com/Veraticus/finsense/internal/pattern"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx <file>",
		Short: "Classify and ingest an OFX/QFX bank statement",
		Long: `Parse an OFX or QFX statement exported from your bank, classify each
line with the rule file and ingest the result.

Lines no rule matches are skipped unless rules.fallback_category is set,
in which case they are ingested with zero confidence and land in review.`,
		Example: `  finsense import-ofx ~/Downloads/chase_jan_2025.qfx --rules rules.yaml
  finsense import-ofx statement.ofx --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().String("rules", "", "rule file (default: rules.file setting)")
	cmd.Flags().String("fallback", "", "category for lines no rule matches (default: rules.fallback_category setting)")
	cmd.Flags().BoolP("dry-run", "d", false, "Classify and preview without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	rulesPath, _ := cmd.Flags().GetString("rules")
	if rulesPath == "" {
		rulesPath = settings.RulesFile
	}
	if rulesPath == "" {
		return errors.New("no rule file: pass --rules or set rules.file")
	}
	fallback, _ := cmd.Flags().GetString("fallback")
	if fallback == "" {
		fallback = settings.FallbackCategory
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	rules, err := pattern.LoadRules(rulesPath)
	if err != nil {
		return err
	}

	lines, err := parseStatement(cmd, args[0])
	if err != nil {
		return err
	}
	slog.Info("parsed statement", "file", args[0], "lines", len(lines), "rules", len(rules))

	return withLedger(ctx, func(store *storage.SQLiteStorage, eng *engine.Engine) error {
		if err := pattern.NewValidator(store).ValidateRules(ctx, rules); err != nil {
			return fmt.Errorf("rule file %s: %w", rulesPath, err)
		}

		var opts []pattern.ClassifierOption
		if fallback != "" {
			opts = append(opts, pattern.WithFallbackCategory(fallback))
		}
		classifier := pattern.NewClassifier(pattern.NewMatcher(rules), opts...)

		// Nothing is written until the whole statement is classified, so an
		// interrupt leaves the ledger untouched.
		interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
		classifyCtx := interrupts.HandleInterrupts(ctx, true)

		bar := newProgressBar(cmd.ErrOrStderr(), len(lines))
		classified, unmatched, err := classifier.ClassifyAll(classifyCtx, lines, func() { _ = bar.Add(1) })
		if interrupts.WasInterrupted() {
			return nil
		}
		if err != nil {
			return fmt.Errorf("classification failed: %w", err)
		}

		for _, line := range unmatched {
			slog.Warn("no rule matched statement line", "vendor", line.Vendor, "amount", line.Amount.StringFixed(2))
		}
		if len(unmatched) > 0 {
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d lines matched no rule and were skipped", len(unmatched))))
		}

		if dryRun {
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be ingested", len(classified))))
			return nil
		}

		created, err := eng.IngestBatch(ctx, classified)
		if err != nil {
			return fmt.Errorf("failed to ingest statement: %w", err)
		}

		var counts model.StatusCounts
		for _, txn := range created {
			counts.Add(txn.Status)
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %s", len(created), args[0])))
		fmt.Fprintln(out, cli.RenderSummary(counts))
		return nil
	})
}

func parseStatement(cmd *cobra.Command, path string) ([]model.StatementLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	lines, err := ofx.NewParser().ParseFile(cmd.Context(), f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return lines, nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Classifying statement...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
