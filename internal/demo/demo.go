// Package demo provides the sample review queue used by walkthroughs and
// by the demo reset.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/shopspring/decimal"
)

// Ledger is the part of the engine the demo drives.
type Ledger interface {
	Clear(ctx context.Context) (int, error)
	IngestBatch(ctx context.Context, batch []model.Classified) ([]model.Transaction, error)
}

// FlagSaver persists session flags.
type FlagSaver interface {
	SaveSessionFlags(ctx context.Context, flags model.SessionFlags) error
}

type sample struct {
	id, vendor, amount, date, category, reason string
	confidence                                 float64
}

var samples = []sample{
	{"1", "Sysco Boston", "342.50", "2025-01-15", "Inventory - Food & Supplies", "Sysco is your regular food distributor. Pattern matches 47 previous transactions.", 0.98},
	{"2", "Amazon Business", "127.43", "2025-01-14", "Office Supplies", "Amazon purchases vary. Past items: cleaning supplies (60%), office supplies (40%).", 0.83},
	{"3", "Uber", "65.00", "2025-01-13", "Travel", "Higher than typical Uber rides ($15-25). Verify if business travel or meals.", 0.72},
	{"4", "Home Depot", "847.00", "2025-01-13", "Repairs & Maintenance", "Unusual vendor for you. Large amount suggests equipment or facility repair.", 0.78},
	{"5", "Office Depot", "234.56", "2025-01-12", "Office Supplies", "First purchase from Office Depot. Verify if this is office supplies or equipment.", 0.81},
	{"6", "Restaurant Supply Co", "1240.00", "2025-01-11", "Equipment", "Large purchase. Could be equipment or inventory. Please verify category.", 0.75},
	{"7", "Square Payroll", "4200.00", "2025-01-10", "Payroll", "Regular bi-weekly payroll payment. Matches historical pattern.", 0.99},
	{"8", "Gas & Electric", "324.80", "2025-01-09", "Utilities", "Monthly utility bill. Amount is 15% higher than last month.", 0.96},
}

// Transactions returns the sample classifier output. Categories refer to
// the default catalog.
func Transactions() []model.Classified {
	out := make([]model.Classified, 0, len(samples))
	for _, s := range samples {
		date, err := time.Parse(model.DateLayout, s.date)
		if err != nil {
			panic(fmt.Sprintf("demo: bad date %q", s.date))
		}
		out = append(out, model.Classified{
			ID:          s.id,
			Date:        date,
			Vendor:      s.vendor,
			Amount:      decimal.RequireFromString(s.amount),
			Category:    s.category,
			Confidence:  s.confidence,
			Source:      model.SourceModel,
			Explanation: s.reason,
		})
	}
	return out
}

// Load replaces the ledger with the sample transactions and clears the
// session flags. The clear and the ingest are separate writes; if the
// ingest fails the ledger is left empty.
func Load(ctx context.Context, ledger Ledger, flags FlagSaver) ([]model.Transaction, error) {
	removed, err := ledger.Clear(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear ledger: %w", err)
	}

	if err := flags.SaveSessionFlags(ctx, model.SessionFlags{}); err != nil {
		return nil, fmt.Errorf("failed to reset session flags: %w", err)
	}

	created, err := ledger.IngestBatch(ctx, Transactions())
	if err != nil {
		return nil, fmt.Errorf("failed to load demo transactions: %w", err)
	}

	slog.Info("loaded demo dataset", "removed", removed, "loaded", len(created))
	return created, nil
}
