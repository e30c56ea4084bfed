package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/finance-assistant/internal/ai"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"
	"fjacquet/finance-assistant/internal/store"
)

type fakeSummaryStore struct {
	income   decimal.Decimal
	expense  decimal.Decimal
	top      []store.CategoryTotal
	limit    decimal.Decimal
	hasLimit bool
}

func (f *fakeSummaryStore) MonthlyTotal(ctx context.Context, ownerID string, kind models.Kind, year int, month time.Month) (decimal.Decimal, error) {
	if kind == models.KindIncome {
		return f.income, nil
	}
	return f.expense, nil
}

func (f *fakeSummaryStore) TopCategories(ctx context.Context, ownerID string, kind models.Kind, year int, month time.Month, n int) ([]store.CategoryTotal, error) {
	return f.top, nil
}

func (f *fakeSummaryStore) GetBudgetLimit(ctx context.Context, ownerID string, month, year int) (decimal.Decimal, bool, error) {
	return f.limit, f.hasLimit, nil
}

func testStore() *fakeSummaryStore {
	return &fakeSummaryStore{
		income:  decimal.NewFromInt(15_000_000),
		expense: decimal.NewFromInt(6_500_000),
		top: []store.CategoryTotal{
			{Category: "Food & Drink", Total: decimal.NewFromInt(3_000_000)},
			{Category: "Transport", Total: decimal.NewFromInt(1_500_000)},
		},
		limit:    decimal.NewFromInt(8_000_000),
		hasLimit: true,
	}
}

func TestSummarize(t *testing.T) {
	a := New(testStore(), &ai.MockClient{}, &logging.MockLogger{})

	m, err := a.Summarize(context.Background(), "user-1", 2026, time.August)
	require.NoError(t, err)
	assert.True(t, m.Balance.Equal(decimal.NewFromInt(8_500_000)))
	assert.True(t, m.HasLimit)
	require.Len(t, m.TopExpenses, 2)

	rendered := m.Render()
	assert.Contains(t, rendered, "August 2026")
	assert.Contains(t, rendered, "15,000,000")
	assert.Contains(t, rendered, "Food & Drink")
	assert.Contains(t, rendered, "8,000,000")
}

func TestAdviseUsesSummaryAsContext(t *testing.T) {
	mock := &ai.MockClient{
		AvailableValue: true,
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "  Cook at home more often.  ", nil
		},
	}
	a := New(testStore(), mock, &logging.MockLogger{})

	advice, err := a.Advise(context.Background(), "user-1", 2026, time.August)
	require.NoError(t, err)
	assert.Equal(t, "Cook at home more often.", advice)

	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "6,500,000")
	assert.Contains(t, mock.Prompts[0], "Food & Drink")
}

func TestAskIncludesQuestion(t *testing.T) {
	mock := &ai.MockClient{
		AvailableValue: true,
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "You spent most on food.", nil
		},
	}
	a := New(testStore(), mock, &logging.MockLogger{})

	_, err := a.Ask(context.Background(), "user-1", "where does my money go?", 2026, time.August)
	require.NoError(t, err)
	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "where does my money go?")
}

func TestAdviseUnconfigured(t *testing.T) {
	a := New(testStore(), &ai.MockClient{AvailableValue: false}, &logging.MockLogger{})

	_, err := a.Advise(context.Background(), "user-1", 2026, time.August)
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
}
