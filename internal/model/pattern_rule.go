package model

import (
	"github.com/shopspring/decimal"
)

// PatternRule is a deterministic rule that assigns a category to matching
// transactions.
type PatternRule struct {
	AmountValue     *decimal.Decimal `json:"amount_value,omitempty" yaml:"amount_value,omitempty"`
	AmountMin       *decimal.Decimal `json:"amount_min,omitempty" yaml:"amount_min,omitempty"`
	AmountMax       *decimal.Decimal `json:"amount_max,omitempty" yaml:"amount_max,omitempty"`
	Name            string           `json:"name" yaml:"name"`
	Description     string           `json:"description" yaml:"description"`
	MerchantPattern string           `json:"merchant_pattern" yaml:"merchant_pattern"`
	AmountCondition string           `json:"amount_condition" yaml:"amount_condition"`
	DefaultCategory string           `json:"default_category" yaml:"category"`
	Priority        int              `json:"priority" yaml:"priority"`
	ID              int              `json:"id" yaml:"id"`
	Confidence      float64          `json:"confidence" yaml:"confidence"`
	IsActive        bool             `json:"is_active" yaml:"-"`
	IsRegex         bool             `json:"is_regex" yaml:"regex"`
}

// AmountConditionType represents the type of amount comparison.
type AmountConditionType string

// Amount condition constants.
const (
	AmountLessThan     AmountConditionType = "lt"
	AmountLessEqual    AmountConditionType = "le"
	AmountEqual        AmountConditionType = "eq"
	AmountGreaterEqual AmountConditionType = "ge"
	AmountGreaterThan  AmountConditionType = "gt"
	AmountRange        AmountConditionType = "range"
	AmountAny          AmountConditionType = "any"
)
