// Package advisor builds monthly spending summaries and turns them into
// financial advice via the completion service.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-assistant/internal/ai"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"
	"fjacquet/finance-assistant/internal/store"

	"github.com/shopspring/decimal"
)

// topCategoryCount bounds how many expense categories appear in summaries
// and advice prompts.
const topCategoryCount = 5

// summaryStore is the slice of the store the advisor reads from.
type summaryStore interface {
	MonthlyTotal(ctx context.Context, ownerID string, kind models.Kind, year int, month time.Month) (decimal.Decimal, error)
	TopCategories(ctx context.Context, ownerID string, kind models.Kind, year int, month time.Month, n int) ([]store.CategoryTotal, error)
	GetBudgetLimit(ctx context.Context, ownerID string, month, year int) (decimal.Decimal, bool, error)
}

// Advisor summarizes a month's finances and answers questions about them.
type Advisor struct {
	store  summaryStore
	client ai.Client
	logger logging.Logger
}

// New creates an Advisor. client may be an unavailable client; Summarize
// still works, only Advise and Ask require the completion service.
func New(store summaryStore, client ai.Client, logger logging.Logger) *Advisor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Advisor{store: store, client: client, logger: logger}
}

// MonthSummary aggregates one owner's month.
type MonthSummary struct {
	Year        int
	Month       time.Month
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Balance     decimal.Decimal
	TopExpenses []store.CategoryTotal
	Limit       decimal.Decimal
	HasLimit    bool
}

// Render formats the summary for terminal display.
func (m MonthSummary) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summary for %s %d\n", m.Month, m.Year)
	fmt.Fprintf(&b, "  Income:  %s\n", models.GroupAmount(m.Income))
	fmt.Fprintf(&b, "  Expense: %s\n", models.GroupAmount(m.Expense))
	fmt.Fprintf(&b, "  Balance: %s\n", models.GroupAmount(m.Balance))

	if m.HasLimit {
		fmt.Fprintf(&b, "  Budget:  %s of %s used\n",
			models.GroupAmount(m.Expense), models.GroupAmount(m.Limit))
	}

	if len(m.TopExpenses) > 0 {
		b.WriteString("  Top spending:\n")
		for _, ct := range m.TopExpenses {
			fmt.Fprintf(&b, "    %-16s %s\n", ct.Category, models.GroupAmount(ct.Total))
		}
	}
	return b.String()
}

// Summarize aggregates the owner's month from stored transactions.
func (a *Advisor) Summarize(ctx context.Context, ownerID string, year int, month time.Month) (MonthSummary, error) {
	m := MonthSummary{Year: year, Month: month}

	var err error
	if m.Income, err = a.store.MonthlyTotal(ctx, ownerID, models.KindIncome, year, month); err != nil {
		return MonthSummary{}, err
	}
	if m.Expense, err = a.store.MonthlyTotal(ctx, ownerID, models.KindExpense, year, month); err != nil {
		return MonthSummary{}, err
	}
	m.Balance = m.Income.Sub(m.Expense)

	if m.TopExpenses, err = a.store.TopCategories(ctx, ownerID, models.KindExpense, year, month, topCategoryCount); err != nil {
		return MonthSummary{}, err
	}
	if m.Limit, m.HasLimit, err = a.store.GetBudgetLimit(ctx, ownerID, int(month), year); err != nil {
		return MonthSummary{}, err
	}
	return m, nil
}

// Advise asks the completion service for spending advice grounded in the
// owner's monthly summary.
func (a *Advisor) Advise(ctx context.Context, ownerID string, year int, month time.Month) (string, error) {
	return a.generate(ctx, ownerID, year, month,
		"Give three short, concrete suggestions to improve this person's finances next month.")
}

// Ask answers a free-form question using the monthly summary as context.
func (a *Advisor) Ask(ctx context.Context, ownerID, question string, year int, month time.Month) (string, error) {
	return a.generate(ctx, ownerID, year, month,
		fmt.Sprintf("Answer the user's question using the data above.\nQuestion: %s", question))
}

func (a *Advisor) generate(ctx context.Context, ownerID string, year int, month time.Month, instruction string) (string, error) {
	if !a.client.Available() {
		return "", ai.ErrNotConfigured
	}

	summary, err := a.Summarize(ctx, ownerID, year, month)
	if err != nil {
		return "", fmt.Errorf("build summary: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a pragmatic personal finance assistant. Amounts are in the user's local currency.\n\n")
	b.WriteString(summary.Render())
	b.WriteString("\n")
	b.WriteString(instruction)
	b.WriteString("\nAnswer in plain text, no markdown headings.")

	answer, err := a.client.Generate(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("generate advice: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
