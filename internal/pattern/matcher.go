package pattern

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/finsense/internal/model"
)

// MatcherImpl implements Matcher for evaluating pattern rules.
type MatcherImpl struct {
	compiledRegex map[int]*regexp.Regexp
	rules         []Rule
}

// NewMatcher creates a new pattern matcher with the given rules. Regex
// patterns are compiled case-insensitively; rules whose pattern does not
// compile never match.
func NewMatcher(rules []Rule) *MatcherImpl {
	m := &MatcherImpl{
		rules:         rules,
		compiledRegex: make(map[int]*regexp.Regexp),
	}

	for _, rule := range rules {
		if !rule.IsRegex || rule.MerchantPattern == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + rule.MerchantPattern)
		if err != nil {
			slog.Warn("skipping rule with invalid pattern", "rule", rule.Name, "pattern", rule.MerchantPattern, "error", err)
			continue
		}
		m.compiledRegex[rule.ID] = re
	}

	return m
}

// Match evaluates a statement line against all configured rules.
func (m *MatcherImpl) Match(_ context.Context, line model.StatementLine) ([]Rule, error) {
	var matches []Rule

	for _, rule := range m.rules {
		if rule.IsActive && m.matchesMerchant(line, rule) && matchesAmount(line, rule) {
			matches = append(matches, rule)
		}
	}

	// Highest priority first; equal priorities keep file order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority > matches[j].Priority
	})

	return matches, nil
}

// matchesMerchant checks the vendor, falling back to the raw description.
func (m *MatcherImpl) matchesMerchant(line model.StatementLine, rule Rule) bool {
	if rule.MerchantPattern == "" {
		return true
	}

	merchant := strings.ToLower(strings.TrimSpace(line.Vendor))
	if merchant == "" {
		merchant = strings.ToLower(strings.TrimSpace(line.Description))
	}

	if rule.IsRegex {
		re, ok := m.compiledRegex[rule.ID]
		return ok && re.MatchString(merchant)
	}

	return strings.ToLower(rule.MerchantPattern) == merchant
}

// matchesAmount checks the line amount against the rule's condition.
func matchesAmount(line model.StatementLine, rule Rule) bool {
	amount := line.Amount

	switch model.AmountConditionType(rule.AmountCondition) {
	case "", model.AmountAny:
		return true
	case model.AmountLessThan:
		return rule.AmountValue != nil && amount.LessThan(*rule.AmountValue)
	case model.AmountLessEqual:
		return rule.AmountValue != nil && amount.LessThanOrEqual(*rule.AmountValue)
	case model.AmountEqual:
		return rule.AmountValue != nil && amount.Equal(*rule.AmountValue)
	case model.AmountGreaterEqual:
		return rule.AmountValue != nil && amount.GreaterThanOrEqual(*rule.AmountValue)
	case model.AmountGreaterThan:
		return rule.AmountValue != nil && amount.GreaterThan(*rule.AmountValue)
	case model.AmountRange:
		if rule.AmountMin != nil && amount.LessThan(*rule.AmountMin) {
			return false
		}
		if rule.AmountMax != nil && amount.GreaterThan(*rule.AmountMax) {
			return false
		}
		return true
	}

	return false
}
