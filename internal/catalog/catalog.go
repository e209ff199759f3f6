// Package catalog supplies the category registry's seed data and reads
// category definitions from YAML files.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/finsense/internal/model"
	"gopkg.in/yaml.v3"
)

// Importer stores a batch of categories.
type Importer interface {
	ImportCategories(ctx context.Context, cats []model.Category) (int, error)
}

// File is the on-disk layout of a category file.
//
//	categories:
//	  - name: Loan Payments
//	    type: expense
//	    color: "#dc2626"
//	    high_impact: true
type File struct {
	Categories []model.Category `yaml:"categories"`
}

// DefaultCategories returns the standard small-business chart of categories.
// Loan Payments and Equipment carry enough financial risk to always require
// a human decision.
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Inventory - Food & Supplies", Type: model.CategoryTypeCOGS, Color: "#3b82f6", Description: "Food, beverage and consumable supplies for resale"},
		{Name: "Rent", Type: model.CategoryTypeExpense, Color: "#8b5cf6", Description: "Premises rent and lease payments"},
		{Name: "Utilities", Type: model.CategoryTypeExpense, Color: "#06b6d4", Description: "Electricity, gas, water and internet"},
		{Name: "Payroll", Type: model.CategoryTypeExpense, Color: "#f59e0b", Description: "Wages, salaries and payroll taxes"},
		{Name: "Loan Payments", Type: model.CategoryTypeExpense, Color: "#dc2626", Description: "Loan principal and interest", HighImpact: true},
		{Name: "Marketing", Type: model.CategoryTypeExpense, Color: "#ec4899", Description: "Advertising and promotion"},
		{Name: "Office Supplies", Type: model.CategoryTypeExpense, Color: "#10b981", Description: "Stationery, printing and small office items"},
		{Name: "Equipment", Type: model.CategoryTypeExpense, Color: "#6366f1", Description: "Capital equipment purchases", HighImpact: true},
		{Name: "Professional Fees", Type: model.CategoryTypeExpense, Color: "#84cc16", Description: "Accounting, legal and consulting"},
		{Name: "Travel", Type: model.CategoryTypeExpense, Color: "#f97316", Description: "Business travel and transport"},
		{Name: "Revenue", Type: model.CategoryTypeRevenue, Color: "#22c55e", Description: "Sales and other income"},
		{Name: "Repairs & Maintenance", Type: model.CategoryTypeExpense, Color: "#ef4444", Description: "Repairs to premises and equipment"},
	}
}

// Parse decodes a category file.
func Parse(data []byte) ([]model.Category, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	seen := make(map[string]bool, len(file.Categories))
	for i, cat := range file.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d: missing name", i+1)
		}
		if cat.Type != "" && !cat.Type.Valid() {
			return nil, fmt.Errorf("category %q: unknown type %q", name, cat.Type)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("category %q listed twice", name)
		}
		seen[strings.ToLower(name)] = true
		file.Categories[i].Name = name
	}
	return file.Categories, nil
}

// LoadFile reads and parses a category file.
func LoadFile(path string) ([]model.Category, error) {
	// #nosec G304 - path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category file: %w", err)
	}
	return Parse(data)
}

// Seed imports the default categories.
func Seed(ctx context.Context, dst Importer) (int, error) {
	return dst.ImportCategories(ctx, DefaultCategories())
}
