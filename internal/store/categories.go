package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/popis/internal/model"
)

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// GetCategory returns a category by ID, or nil if it does not exist.
func (s *Store) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// GetCategoryByName returns a category by case-insensitive name, or nil.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE name_key = ?`, categoryKey(name),
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category by name: %w", err)
	}
	return c, nil
}

// CreateCategory creates a category. Names are unique regardless of case.
func (s *Store) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, name_key, description) VALUES (?, ?, ?) RETURNING id`,
		name, categoryKey(name), nullable(description),
	).Scan(&id)
	if err != nil {
		return nil, wrapWrite("creating category", err)
	}
	return s.GetCategory(ctx, id)
}

// categoryKey folds a category name for lookups. SQL LOWER only folds
// ASCII in SQLite, so keys are computed here.
func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func scanCategory(s rowScanner) (*model.Category, error) {
	var c model.Category
	var description sql.NullString
	if err := s.Scan(&c.ID, &c.Name, &description, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = description.String
	return &c, nil
}
