package testutil

import (
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/shopspring/decimal"
)

// Classified builds an ingest input dated January 2025.
func Classified(id, vendor, amount, category string, confidence float64, day int) model.Classified {
	return model.Classified{
		ID:          id,
		Date:        time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC),
		Vendor:      vendor,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Confidence:  confidence,
		Explanation: "test fixture",
	}
}
