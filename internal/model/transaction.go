package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Transaction is a classified financial transaction under review.
type Transaction struct {
	Date                time.Time       `json:"date"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Amount              decimal.Decimal `json:"amount"`
	ID                  string          `json:"id"`
	Vendor              string          `json:"vendor"`
	Category            string          `json:"category"`
	Status              Status          `json:"status"`
	Explanation         string          `json:"explanation"`
	DecisionSource      DecisionSource  `json:"decision_source"`
	PaymentMethod       string          `json:"payment_method,omitempty"`
	OriginalDescription string          `json:"original_description,omitempty"`
	Original            Classification  `json:"original"`
	Confidence          float64         `json:"confidence"`
}

// Classified is a freshly classified transaction arriving from the ingestion feed.
type Classified struct {
	Date                time.Time       `json:"date"`
	Amount              decimal.Decimal `json:"amount"`
	ID                  string          `json:"id,omitempty"`
	Vendor              string          `json:"vendor"`
	Category            string          `json:"category"`
	Source              DecisionSource  `json:"decision_source,omitempty"`
	Explanation         string          `json:"explanation"`
	PaymentMethod       string          `json:"payment_method,omitempty"`
	OriginalDescription string          `json:"original_description,omitempty"`
	Confidence          float64         `json:"confidence"`
}

// Filter selects transactions for listing. Zero values match everything.
// String fields match case-insensitive substrings.
type Filter struct {
	Status   Status
	Vendor   string
	Category string
	// Search matches the vendor or the category.
	Search string
}

// Matches reports whether txn satisfies the filter.
func (f Filter) Matches(txn Transaction) bool {
	if f.Status != "" && txn.Status != f.Status {
		return false
	}
	if f.Vendor != "" && !containsFold(txn.Vendor, f.Vendor) {
		return false
	}
	if f.Category != "" && !containsFold(txn.Category, f.Category) {
		return false
	}
	if f.Search != "" && !containsFold(txn.Vendor, f.Search) && !containsFold(txn.Category, f.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// StatusCounts partitions a transaction set by status.
type StatusCounts struct {
	AutoApproved int `json:"auto_approved"`
	NeedsReview  int `json:"needs_review"`
	Manual       int `json:"manual"`
}

// Add counts one transaction with the given status.
func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusAutoApproved:
		c.AutoApproved++
	case StatusNeedsReview:
		c.NeedsReview++
	case StatusManual:
		c.Manual++
	}
}

// Get returns the count for a status.
func (c StatusCounts) Get(s Status) int {
	switch s {
	case StatusAutoApproved:
		return c.AutoApproved
	case StatusNeedsReview:
		return c.NeedsReview
	case StatusManual:
		return c.Manual
	}
	return 0
}

// Total is the size of the partitioned set.
func (c StatusCounts) Total() int {
	return c.AutoApproved + c.NeedsReview + c.Manual
}
