package pattern

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry map[string]*model.Category

func (s stubRegistry) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	if name == "explode" {
		return nil, errors.New("database is locked")
	}
	return s[name], nil
}

func TestValidator_ValidateRule(t *testing.T) {
	registry := stubRegistry{
		"Travel":  {Name: "Travel", IsActive: true},
		"Retired": {Name: "Retired"},
	}
	v := NewValidator(registry)
	ctx := context.Background()

	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
		invalid bool
	}{
		{name: "valid", rule: Rule{DefaultCategory: "Travel", Confidence: 0.8}},
		{name: "valid range", rule: Rule{DefaultCategory: "Travel", AmountCondition: "range", AmountMin: decPtr("1"), AmountMax: decPtr("2")}},
		{name: "confidence above one", rule: Rule{DefaultCategory: "Travel", Confidence: 1.2}, wantErr: true, invalid: true},
		{name: "bad regex", rule: Rule{DefaultCategory: "Travel", IsRegex: true, MerchantPattern: "("}, wantErr: true, invalid: true},
		{name: "missing value", rule: Rule{DefaultCategory: "Travel", AmountCondition: "ge"}, wantErr: true, invalid: true},
		{name: "inverted range", rule: Rule{DefaultCategory: "Travel", AmountCondition: "range", AmountMin: decPtr("5"), AmountMax: decPtr("2")}, wantErr: true, invalid: true},
		{name: "unknown condition", rule: Rule{DefaultCategory: "Travel", AmountCondition: "between"}, wantErr: true, invalid: true},
		{name: "no category", rule: Rule{}, wantErr: true, invalid: true},
		{name: "unknown category", rule: Rule{DefaultCategory: "Yachts"}, wantErr: true, invalid: true},
		{name: "inactive category", rule: Rule{DefaultCategory: "Retired"}, wantErr: true, invalid: true},
		{name: "lookup failure", rule: Rule{DefaultCategory: "explode"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRule(ctx, tt.rule)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidRule))
		})
	}
}

func TestValidator_ValidateRulesJoinsErrors(t *testing.T) {
	v := NewValidator(stubRegistry{"Travel": {Name: "Travel", IsActive: true}})

	err := v.ValidateRules(context.Background(), []Rule{
		{Name: "ok", DefaultCategory: "Travel"},
		{Name: "first", DefaultCategory: "Nope"},
		{Name: "second", Confidence: -1, DefaultCategory: "Travel"},
	})
	require.ErrorIs(t, err, ErrInvalidRule)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
	assert.NotContains(t, err.Error(), "ok:")
}
