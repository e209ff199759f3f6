package pattern

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingMatcher struct{}

func (failingMatcher) Match(context.Context, model.StatementLine) ([]Rule, error) {
	return nil, errors.New("boom")
}

func testRules() []Rule {
	return []Rule{
		{ID: 1, Name: "sysco", MerchantPattern: "sysco", IsRegex: true, DefaultCategory: "Inventory - Food & Supplies",
			Confidence: 0.98, Priority: 5, IsActive: true},
		{ID: 2, Name: "small uber", MerchantPattern: "uber", IsRegex: true, AmountCondition: "lt", AmountValue: decPtr("100"),
			DefaultCategory: "Travel", Confidence: 0.72, Priority: 5, IsActive: true},
	}
}

func TestClassifier_Classify(t *testing.T) {
	ctx := context.Background()
	c := NewClassifier(NewMatcher(testRules()))

	in := model.StatementLine{
		ID:            "abc",
		Date:          time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Vendor:        "Sysco",
		Description:   "SYSCO FOODS 4411",
		Amount:        decimal.RequireFromString("342.50"),
		PaymentMethod: "Credit Card",
	}

	out, err := c.Classify(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "abc", out.ID)
	assert.Equal(t, "Sysco", out.Vendor)
	assert.Equal(t, "Inventory - Food & Supplies", out.Category)
	assert.InDelta(t, 0.98, out.Confidence, 1e-9)
	assert.Equal(t, model.SourceRule, out.Source)
	assert.Equal(t, "SYSCO FOODS 4411", out.OriginalDescription)
	assert.Equal(t, "Credit Card", out.PaymentMethod)
	assert.Contains(t, out.Explanation, "Transactions from Sysco are usually categorized as Inventory - Food & Supplies")

	out, err = c.Classify(ctx, line("Uber", "65"))
	require.NoError(t, err)
	assert.Equal(t, "Travel", out.Category)
	assert.Contains(t, out.Explanation, "under $100.00")
}

func TestClassifier_Unmatched(t *testing.T) {
	ctx := context.Background()

	_, err := NewClassifier(NewMatcher(testRules())).Classify(ctx, line("Uber", "250"))
	require.ErrorIs(t, err, ErrNoMatch)

	out, err := NewClassifier(NewMatcher(testRules()), WithFallbackCategory("Uncategorized")).
		Classify(ctx, line("Uber", "250"))
	require.NoError(t, err)
	assert.Equal(t, "Uncategorized", out.Category)
	assert.Zero(t, out.Confidence)
	assert.Contains(t, out.Explanation, "No rule matched Uber")
}

func TestClassifier_MatcherError(t *testing.T) {
	_, err := NewClassifier(failingMatcher{}).Classify(context.Background(), line("Uber", "1"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch)
}

func TestClassifier_ClassifyAll(t *testing.T) {
	ctx := context.Background()
	c := NewClassifier(NewMatcher(testRules()))

	calls := 0
	classified, unmatched, err := c.ClassifyAll(ctx, []model.StatementLine{
		line("Sysco", "342.50"),
		line("Home Depot", "89.99"),
		line("Uber", "12"),
	}, func() { calls++ })
	require.NoError(t, err)
	assert.Len(t, classified, 2)
	require.Len(t, unmatched, 1)
	assert.Equal(t, "Home Depot", unmatched[0].Vendor)
	assert.Equal(t, 3, calls)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = c.ClassifyAll(canceled, []model.StatementLine{line("Sysco", "1")}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateReason(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want string
	}{
		{
			name: "any amount",
			rule: Rule{DefaultCategory: "Rent"},
			want: "Transactions from Landlord are usually categorized as Rent",
		},
		{
			name: "over",
			rule: Rule{DefaultCategory: "Equipment", AmountCondition: "gt", AmountValue: decPtr("500")},
			want: "Transactions from Landlord over $500.00 are usually categorized as Equipment",
		},
		{
			name: "range with name",
			rule: Rule{Name: "mid", DefaultCategory: "Utilities", AmountCondition: "range", AmountMin: decPtr("10"), AmountMax: decPtr("20.5")},
			want: `Transactions from Landlord between $10.00 and $20.50 are usually categorized as Utilities (rule "mid")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generateReason("Landlord", tt.rule))
		})
	}
}
