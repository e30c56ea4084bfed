// Package models defines the domain types shared across the application:
// transaction kinds, proposals awaiting confirmation, persisted transactions,
// budget limits and the category taxonomy.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// CategoryOther is the catch-all category. Any category name the extraction
// oracle produces that is not part of the supplied taxonomy is rewritten to
// this value before the proposal is offered for confirmation.
const CategoryOther = "Other"

// ParseKind normalizes a kind string coming from untrusted input.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", fmt.Errorf("invalid transaction kind: %q", s)
}

// Taxonomy holds the valid category names per transaction kind.
// It is supplied by the caller on every extraction call and never owned
// by the extractor.
type Taxonomy struct {
	Income  []string
	Expense []string
}

// Categories returns the category names for the given kind.
func (t Taxonomy) Categories(kind Kind) []string {
	if kind == KindIncome {
		return t.Income
	}
	return t.Expense
}

// Contains reports whether name is a valid category for kind.
// Matching is case-insensitive.
func (t Taxonomy) Contains(kind Kind, name string) bool {
	for _, c := range t.Categories(kind) {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// Resolve returns the canonical spelling of name within the taxonomy for
// kind, or CategoryOther when the name is unknown.
func (t Taxonomy) Resolve(kind Kind, name string) string {
	name = strings.TrimSpace(name)
	for _, c := range t.Categories(kind) {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	return CategoryOther
}

// Proposal is an extracted candidate transaction awaiting human
// confirmation. It is ephemeral and never persisted directly.
type Proposal struct {
	IsTransaction bool
	Kind          Kind
	Category      string
	Amount        decimal.Decimal
	Description   string
	OccurredOn    time.Time
}

// Normalize defensively validates every field of a proposal produced by the
// extraction oracle: kind membership, positive amount, taxonomy membership
// with fallback to CategoryOther, and date defaulting. A proposal with
// IsTransaction=false carries no other meaningful fields.
func (p *Proposal) Normalize(tax Taxonomy, now time.Time) error {
	if !p.IsTransaction {
		*p = Proposal{}
		return nil
	}

	kind, err := ParseKind(string(p.Kind))
	if err != nil {
		return err
	}
	p.Kind = kind

	if !p.Amount.IsPositive() {
		return fmt.Errorf("proposal amount must be positive, got %s", p.Amount)
	}

	p.Category = tax.Resolve(p.Kind, p.Category)
	p.Description = strings.TrimSpace(p.Description)

	if p.OccurredOn.IsZero() {
		p.OccurredOn = now
	}
	p.OccurredOn = truncateToDate(p.OccurredOn)

	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Transaction is a persisted transaction. It is immutable once created
// except via explicit delete, and owned exclusively by one user.
type Transaction struct {
	ID          string
	OwnerID     string
	Kind        Kind
	Category    string
	Amount      decimal.Decimal
	Description string
	OccurredOn  time.Time
}

// NewTransaction builds a persisted transaction from a confirmed proposal.
func NewTransaction(id, ownerID string, p Proposal) Transaction {
	return Transaction{
		ID:          id,
		OwnerID:     ownerID,
		Kind:        p.Kind,
		Category:    p.Category,
		Amount:      p.Amount,
		Description: p.Description,
		OccurredOn:  p.OccurredOn,
	}
}

// BudgetLimit is a per-owner monthly spending limit. At most one exists
// per (owner, month, year).
type BudgetLimit struct {
	OwnerID string
	Month   int
	Year    int
	Limit   decimal.Decimal
}
