package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/finsense/internal/model"
)

const categoryColumns = `id, name, description, type, color, high_impact, is_active, created_at`

// DefaultCategoryColor is used when a category is created without one.
const DefaultCategoryColor = "#6b7280"

// GetCategories returns all active categories.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE is_active = 1
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns an active category by its name, or nil if there
// is none.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "category name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE name = ? AND is_active = 1`, name)

	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategory creates a new category. An inactive category with the same
// name is reactivated with the new attributes.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, cat model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	cat = normalizeCategory(cat)
	if err := validateCategory(&cat); err != nil {
		return nil, err
	}

	existing, err := s.findCategory(ctx, cat.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsActive {
			return nil, fmt.Errorf("%w: category %q already exists", ErrInvalidCategory, cat.Name)
		}
		cat.ID = existing.ID
		cat.CreatedAt = existing.CreatedAt
		if err := s.updateCategory(ctx, cat); err != nil {
			return nil, fmt.Errorf("failed to reactivate category: %w", err)
		}
		cat.IsActive = true
		slog.Info("reactivated existing category", "name", cat.Name)
		return &cat, nil
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, description, type, color, high_impact, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		cat.Name, cat.Description, string(cat.Type), cat.Color, cat.HighImpact, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	cat.ID = int(id)
	cat.CreatedAt = now
	cat.IsActive = true

	slog.Info("created new category", "name", cat.Name, "id", id, "high_impact", cat.HighImpact)
	return &cat, nil
}

// ImportCategories creates or updates every category in cats. It returns how
// many were newly created.
func (s *SQLiteStorage) ImportCategories(ctx context.Context, cats []model.Category) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	created := 0
	for _, cat := range cats {
		cat = normalizeCategory(cat)
		if err := validateCategory(&cat); err != nil {
			return created, err
		}

		existing, err := s.findCategory(ctx, cat.Name)
		if err != nil {
			return created, err
		}
		if existing == nil {
			if _, err := s.CreateCategory(ctx, cat); err != nil {
				return created, err
			}
			created++
			continue
		}

		cat.ID = existing.ID
		if err := s.updateCategory(ctx, cat); err != nil {
			return created, fmt.Errorf("failed to update category %q: %w", cat.Name, err)
		}
	}

	slog.Info("imported categories", "total", len(cats), "created", created)
	return created, nil
}

// DeactivateCategory hides a category from the registry. Transactions keep
// their category text.
func (s *SQLiteStorage) DeactivateCategory(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "category name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE categories SET is_active = 0 WHERE name = ? AND is_active = 1`, name)
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: category %q not found", ErrInvalidCategory, name)
	}
	return nil
}

func (s *SQLiteStorage) findCategory(ctx context.Context, name string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name)
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *SQLiteStorage) updateCategory(ctx context.Context, cat model.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET description = ?, type = ?, color = ?, high_impact = ?, is_active = 1
		WHERE id = ?`,
		cat.Description, string(cat.Type), cat.Color, cat.HighImpact, cat.ID)
	return err
}

func normalizeCategory(cat model.Category) model.Category {
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Type == "" {
		cat.Type = model.CategoryTypeExpense
	}
	if cat.Color == "" {
		cat.Color = DefaultCategoryColor
	}
	return cat
}

func scanCategory(row rowScanner) (model.Category, error) {
	var (
		cat     model.Category
		catType string
	)
	err := row.Scan(&cat.ID, &cat.Name, &cat.Description, &catType, &cat.Color,
		&cat.HighImpact, &cat.IsActive, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, err
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to scan category: %w", err)
	}
	cat.Type = model.CategoryType(catType)
	return cat, nil
}
