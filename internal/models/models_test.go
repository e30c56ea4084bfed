package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTaxonomy = Taxonomy{
	Income:  []string{"Salary", "Bonus", "Other"},
	Expense: []string{"Food & Drink", "Transport", "Housing", "Other"},
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input       string
		expected    Kind
		expectError bool
	}{
		{"income", KindIncome, false},
		{"expense", KindExpense, false},
		{" Expense ", KindExpense, false},
		{"INCOME", KindIncome, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := ParseKind(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, kind)
			}
		})
	}
}

func TestTaxonomyResolve(t *testing.T) {
	// Known category keeps its canonical spelling
	assert.Equal(t, "Food & Drink", testTaxonomy.Resolve(KindExpense, "food & drink"))

	// Unknown category falls back to the catch-all
	assert.Equal(t, CategoryOther, testTaxonomy.Resolve(KindExpense, "Cryptocurrency"))
	assert.Equal(t, CategoryOther, testTaxonomy.Resolve(KindIncome, "Lottery"))

	// A category valid for one kind is not valid for the other
	assert.Equal(t, CategoryOther, testTaxonomy.Resolve(KindIncome, "Transport"))
}

func TestProposalNormalize(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)

	t.Run("non-transaction clears all fields", func(t *testing.T) {
		p := Proposal{
			IsTransaction: false,
			Kind:          KindExpense,
			Category:      "Food & Drink",
			Amount:        decimal.NewFromInt(50000),
		}
		require.NoError(t, p.Normalize(testTaxonomy, now))
		assert.Equal(t, Proposal{}, p)
	})

	t.Run("defaults date to today and truncates time", func(t *testing.T) {
		p := Proposal{
			IsTransaction: true,
			Kind:          "expense",
			Category:      "Transport",
			Amount:        decimal.NewFromInt(30000),
			Description:   " taxi ride ",
		}
		require.NoError(t, p.Normalize(testTaxonomy, now))
		assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), p.OccurredOn)
		assert.Equal(t, "taxi ride", p.Description)
	})

	t.Run("unknown category rewritten to Other", func(t *testing.T) {
		p := Proposal{
			IsTransaction: true,
			Kind:          KindExpense,
			Category:      "Spacecraft",
			Amount:        decimal.NewFromInt(1000),
		}
		require.NoError(t, p.Normalize(testTaxonomy, now))
		assert.Equal(t, CategoryOther, p.Category)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		p := Proposal{
			IsTransaction: true,
			Kind:          KindExpense,
			Category:      "Transport",
			Amount:        decimal.Zero,
		}
		assert.Error(t, p.Normalize(testTaxonomy, now))
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		p := Proposal{
			IsTransaction: true,
			Kind:          "loan",
			Amount:        decimal.NewFromInt(1000),
		}
		assert.Error(t, p.Normalize(testTaxonomy, now))
	})
}

func TestGroupAmount(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{50000, "50,000"},
		{15000000, "15,000,000"},
		{-1234567, "-1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GroupAmount(decimal.NewFromInt(tt.amount)))
	}
}

func TestNewTransaction(t *testing.T) {
	p := Proposal{
		IsTransaction: true,
		Kind:          KindIncome,
		Category:      "Salary",
		Amount:        decimal.NewFromInt(15000000),
		Description:   "Monthly salary",
		OccurredOn:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	tx := NewTransaction("tx-1", "user-1", p)
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "user-1", tx.OwnerID)
	assert.Equal(t, p.Kind, tx.Kind)
	assert.Equal(t, p.Category, tx.Category)
	assert.True(t, p.Amount.Equal(tx.Amount))
	assert.Equal(t, p.Description, tx.Description)
	assert.Equal(t, p.OccurredOn, tx.OccurredOn)
}
