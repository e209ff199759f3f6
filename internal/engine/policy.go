package engine

import (
	"fmt"
	"math"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/model"
)

// Default confidence thresholds.
const (
	DefaultHighThreshold = 0.90
	DefaultLowThreshold  = 0.70
)

// Policy maps classifier confidence and category impact to a review status.
type Policy struct {
	HighThreshold float64
	LowThreshold  float64
	// HighImpactOverridesConfidence routes high-impact categories to manual
	// review at any confidence. When false they are only forced to manual
	// below LowThreshold.
	HighImpactOverridesConfidence bool
}

// DefaultPolicy returns the 90%/70% policy with the high-impact override on.
func DefaultPolicy() Policy {
	return Policy{
		HighThreshold:                 DefaultHighThreshold,
		LowThreshold:                  DefaultLowThreshold,
		HighImpactOverridesConfidence: true,
	}
}

// Validate checks 0 <= low <= high <= 1.
func (p Policy) Validate() error {
	if math.IsNaN(p.LowThreshold) || math.IsNaN(p.HighThreshold) {
		return fmt.Errorf("%w: thresholds must be numbers", common.ErrInvalidConfig)
	}
	if p.LowThreshold < 0 || p.HighThreshold > 1 || p.LowThreshold > p.HighThreshold {
		return fmt.Errorf("%w: thresholds must satisfy 0 <= low (%.2f) <= high (%.2f) <= 1",
			common.ErrInvalidConfig, p.LowThreshold, p.HighThreshold)
	}
	return nil
}

// Assign returns the initial status for a classification.
func (p Policy) Assign(confidence float64, highImpact bool) model.Status {
	if highImpact && (p.HighImpactOverridesConfidence || confidence < p.LowThreshold) {
		return model.StatusManual
	}
	if confidence >= p.HighThreshold {
		return model.StatusAutoApproved
	}
	return model.StatusNeedsReview
}

// Describe returns the threshold band label shown next to a confidence.
func (p Policy) Describe(confidence float64) string {
	switch {
	case confidence >= p.HighThreshold:
		return fmt.Sprintf("Meets auto-approval threshold (%.0f%%)", p.HighThreshold*100)
	case confidence >= p.LowThreshold:
		return fmt.Sprintf("Below auto-approval threshold (%.0f%%)", p.HighThreshold*100)
	default:
		return fmt.Sprintf("Below review threshold (%.0f%%)", p.LowThreshold*100)
	}
}

// RecategorizedStatus is the status after a user picks a category.
// Correcting a transaction under review approves it; overriding one the
// machine had settled makes it a manual decision.
func RecategorizedStatus(from model.Status) model.Status {
	if from == model.StatusNeedsReview {
		return model.StatusAutoApproved
	}
	return model.StatusManual
}

// ValidConfidence reports whether c is within [0,1].
func ValidConfidence(c float64) bool {
	return c >= 0 && c <= 1
}
