package store

import (
	"context"
	"fmt"
	"os"

	"fjacquet/finance-assistant/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultTaxonomy is the category set seeded into a fresh database when no
// taxonomy file is configured. Every kind carries the catch-all category.
var DefaultTaxonomy = models.Taxonomy{
	Income: []string{
		"Salary", "Bonus", "Investment", "Gift", models.CategoryOther,
	},
	Expense: []string{
		"Food & Drink", "Transport", "Shopping", "Housing",
		"Entertainment", "Health", "Education", "Utilities", models.CategoryOther,
	},
}

// taxonomyFile is the YAML shape of a user-supplied taxonomy file.
type taxonomyFile struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// LoadTaxonomyFile reads a category taxonomy from a YAML file. The
// catch-all category is appended to each kind when missing, so extraction
// always has a fallback target.
func LoadTaxonomyFile(path string) (models.Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Taxonomy{}, fmt.Errorf("read taxonomy file: %w", err)
	}

	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.Taxonomy{}, fmt.Errorf("parse taxonomy file: %w", err)
	}

	tax := models.Taxonomy{Income: file.Income, Expense: file.Expense}
	if !tax.Contains(models.KindIncome, models.CategoryOther) {
		tax.Income = append(tax.Income, models.CategoryOther)
	}
	if !tax.Contains(models.KindExpense, models.CategoryOther) {
		tax.Expense = append(tax.Expense, models.CategoryOther)
	}
	return tax, nil
}

// SeedTaxonomy inserts any missing categories from tax into the categories
// table. Existing rows are left untouched.
func (s *Store) SeedTaxonomy(ctx context.Context, tax models.Taxonomy) error {
	for _, kind := range []models.Kind{models.KindIncome, models.KindExpense} {
		for _, name := range tax.Categories(kind) {
			if _, err := s.db.ExecContext(ctx, `
				INSERT OR IGNORE INTO categories (kind, name) VALUES (?, ?)`,
				string(kind), name); err != nil {
				return fmt.Errorf("seed category %s/%s: %w", kind, name, err)
			}
		}
	}
	return nil
}

// Taxonomy returns the category taxonomy currently held in the store.
func (s *Store) Taxonomy(ctx context.Context) (models.Taxonomy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, name FROM categories ORDER BY kind, name`)
	if err != nil {
		return models.Taxonomy{}, fmt.Errorf("load taxonomy: %w", err)
	}
	defer rows.Close()

	var tax models.Taxonomy
	for rows.Next() {
		var kind, name string
		if err := rows.Scan(&kind, &name); err != nil {
			return models.Taxonomy{}, fmt.Errorf("scan category: %w", err)
		}
		switch models.Kind(kind) {
		case models.KindIncome:
			tax.Income = append(tax.Income, name)
		case models.KindExpense:
			tax.Expense = append(tax.Expense, name)
		}
	}
	return tax, rows.Err()
}
