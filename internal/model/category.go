package model

import "time"

// CategoryType indicates how a category is reported.
type CategoryType string

const (
	// CategoryTypeExpense represents operating expenses.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeRevenue represents income.
	CategoryTypeRevenue CategoryType = "revenue"
	// CategoryTypeCOGS represents cost of goods sold.
	CategoryTypeCOGS CategoryType = "cogs"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeExpense, CategoryTypeRevenue, CategoryTypeCOGS:
		return true
	}
	return false
}

// Category is a member of the category registry.
type Category struct {
	CreatedAt   time.Time    `json:"created_at" yaml:"-"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description"`
	Type        CategoryType `json:"type" yaml:"type"`
	Color       string       `json:"color" yaml:"color"`
	ID          int          `json:"id" yaml:"-"`
	// HighImpact categories carry outsized financial or tax risk and always
	// need a human decision.
	HighImpact bool `json:"high_impact" yaml:"high_impact"`
	IsActive   bool `json:"is_active" yaml:"-"`
}
