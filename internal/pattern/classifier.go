package pattern

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/finsense/internal/model"
)

// ErrNoMatch is returned when no rule matches and no fallback is configured.
var ErrNoMatch = errors.New("no rule matched")

// Classifier turns statement lines into classified transactions using the
// highest-priority matching rule.
type Classifier struct {
	matcher  Matcher
	fallback string
}

// ClassifierOption customizes a Classifier.
type ClassifierOption func(*Classifier)

// WithFallbackCategory assigns unmatched lines to category with zero
// confidence so they land in the review queue.
func WithFallbackCategory(category string) ClassifierOption {
	return func(c *Classifier) { c.fallback = category }
}

// NewClassifier creates a rule-based classifier.
func NewClassifier(matcher Matcher, opts ...ClassifierOption) *Classifier {
	c := &Classifier{matcher: matcher}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify picks a category for line.
func (c *Classifier) Classify(ctx context.Context, line model.StatementLine) (model.Classified, error) {
	rules, err := c.matcher.Match(ctx, line)
	if err != nil {
		return model.Classified{}, fmt.Errorf("failed to match patterns: %w", err)
	}

	out := model.Classified{
		ID:                  line.ID,
		Date:                line.Date,
		Vendor:              line.Vendor,
		Amount:              line.Amount,
		Source:              model.SourceRule,
		PaymentMethod:       line.PaymentMethod,
		OriginalDescription: line.Description,
	}
	if out.Vendor == "" {
		out.Vendor = line.Description
	}

	if len(rules) == 0 {
		if c.fallback == "" {
			return model.Classified{}, fmt.Errorf("%w: %s", ErrNoMatch, out.Vendor)
		}
		out.Category = c.fallback
		out.Explanation = fmt.Sprintf("No rule matched %s; filed under %s for review", out.Vendor, c.fallback)
		return out, nil
	}

	rule := rules[0]
	out.Category = rule.DefaultCategory
	out.Confidence = rule.Confidence
	out.Explanation = generateReason(out.Vendor, rule)
	return out, nil
}

// ClassifyAll classifies every line. Lines without a match are returned
// separately instead of failing the batch. progress, if set, is called
// after each line.
func (c *Classifier) ClassifyAll(ctx context.Context, lines []model.StatementLine, progress func()) ([]model.Classified, []model.StatementLine, error) {
	classified := make([]model.Classified, 0, len(lines))
	var unmatched []model.StatementLine

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		out, err := c.Classify(ctx, line)
		switch {
		case errors.Is(err, ErrNoMatch):
			unmatched = append(unmatched, line)
		case err != nil:
			return nil, nil, err
		default:
			classified = append(classified, out)
		}

		if progress != nil {
			progress()
		}
	}

	return classified, unmatched, nil
}

// generateReason creates a human-readable explanation for why a category was chosen.
func generateReason(vendor string, rule Rule) string {
	reason := fmt.Sprintf("Transactions from %s", vendor)

	switch model.AmountConditionType(rule.AmountCondition) {
	case model.AmountLessThan:
		if rule.AmountValue != nil {
			reason += fmt.Sprintf(" under $%s", rule.AmountValue.StringFixed(2))
		}
	case model.AmountGreaterThan:
		if rule.AmountValue != nil {
			reason += fmt.Sprintf(" over $%s", rule.AmountValue.StringFixed(2))
		}
	case model.AmountRange:
		if rule.AmountMin != nil && rule.AmountMax != nil {
			reason += fmt.Sprintf(" between $%s and $%s", rule.AmountMin.StringFixed(2), rule.AmountMax.StringFixed(2))
		}
	}

	reason += fmt.Sprintf(" are usually categorized as %s", rule.DefaultCategory)
	if rule.Name != "" {
		reason += fmt.Sprintf(" (rule %q)", rule.Name)
	}
	return reason
}
