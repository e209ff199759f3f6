package pattern

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Veraticus/finsense/internal/model"
)

// ErrInvalidRule reports a rule that can never classify correctly.
var ErrInvalidRule = errors.New("invalid rule")

// Validator checks rules against the category registry before an import.
type Validator struct {
	registry CategoryRegistry
}

// NewValidator creates a rule validator.
func NewValidator(registry CategoryRegistry) *Validator {
	return &Validator{registry: registry}
}

// ValidateRules reports every problem in rules.
func (v *Validator) ValidateRules(ctx context.Context, rules []Rule) error {
	var errs []error
	for _, rule := range rules {
		if err := v.ValidateRule(ctx, rule); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateRule checks a single rule.
func (v *Validator) ValidateRule(ctx context.Context, rule Rule) error {
	label := rule.Name
	if label == "" {
		label = fmt.Sprintf("#%d", rule.ID)
	}

	if rule.Confidence < 0 || rule.Confidence > 1 {
		return fmt.Errorf("%w %s: confidence %v outside [0,1]", ErrInvalidRule, label, rule.Confidence)
	}

	if rule.IsRegex {
		if _, err := regexp.Compile(rule.MerchantPattern); err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidRule, label, err)
		}
	}

	switch model.AmountConditionType(rule.AmountCondition) {
	case "", model.AmountAny:
	case model.AmountLessThan, model.AmountLessEqual, model.AmountEqual, model.AmountGreaterEqual, model.AmountGreaterThan:
		if rule.AmountValue == nil {
			return fmt.Errorf("%w %s: condition %q needs amount_value", ErrInvalidRule, label, rule.AmountCondition)
		}
	case model.AmountRange:
		if rule.AmountMin == nil && rule.AmountMax == nil {
			return fmt.Errorf("%w %s: range needs amount_min or amount_max", ErrInvalidRule, label)
		}
		if rule.AmountMin != nil && rule.AmountMax != nil && rule.AmountMin.GreaterThan(*rule.AmountMax) {
			return fmt.Errorf("%w %s: amount_min exceeds amount_max", ErrInvalidRule, label)
		}
	default:
		return fmt.Errorf("%w %s: unknown amount condition %q", ErrInvalidRule, label, rule.AmountCondition)
	}

	if rule.DefaultCategory == "" {
		return fmt.Errorf("%w %s: missing category", ErrInvalidRule, label)
	}
	cat, err := v.registry.GetCategoryByName(ctx, rule.DefaultCategory)
	if err != nil {
		return fmt.Errorf("failed to look up category for rule %s: %w", label, err)
	}
	if cat == nil || !cat.IsActive {
		return fmt.Errorf("%w %s: unknown category %q", ErrInvalidRule, label, rule.DefaultCategory)
	}
	return nil
}
