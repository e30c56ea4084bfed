package extractor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/finance-assistant/internal/ai"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"
)

var testTaxonomy = models.Taxonomy{
	Income:  []string{"Salary", "Bonus", "Other"},
	Expense: []string{"Food & Drink", "Transport", "Housing", "Other"},
}

var testNow = time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)

func newTestExtractor(response string, err error) *Extractor {
	return New(&ai.MockClient{
		AvailableValue: true,
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return response, err
		},
	}, &logging.MockLogger{})
}

func TestExtractOne(t *testing.T) {
	e := newTestExtractor(`{"is_transaction": true, "type": "expense", "category": "Food & Drink", "amount": 50000, "description": "lunch", "date": "2026-08-28"}`, nil)

	p, err := e.ExtractOne(context.Background(), "lunch 50k", testTaxonomy, testNow)
	require.NoError(t, err)
	assert.True(t, p.IsTransaction)
	assert.Equal(t, models.KindExpense, p.Kind)
	assert.Equal(t, "Food & Drink", p.Category)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "lunch", p.Description)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), p.OccurredOn)
}

func TestExtractOneFencedResponse(t *testing.T) {
	e := newTestExtractor("```json\n{\"is_transaction\": true, \"type\": \"income\", \"category\": \"Salary\", \"amount\": 15000000, \"description\": \"august salary\", \"date\": \"2026-08-25\"}\n```", nil)

	p, err := e.ExtractOne(context.Background(), "got my salary, 15 million", testTaxonomy, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.KindIncome, p.Kind)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(15000000)))
}

func TestExtractOneNotATransaction(t *testing.T) {
	e := newTestExtractor(`{"is_transaction": false}`, nil)

	p, err := e.ExtractOne(context.Background(), "what's the weather like?", testTaxonomy, testNow)
	require.NoError(t, err)
	assert.False(t, p.IsTransaction)
}

func TestExtractOneUnknownCategoryFallsBack(t *testing.T) {
	e := newTestExtractor(`{"is_transaction": true, "type": "expense", "category": "Cryptocurrency", "amount": 200000, "description": "bought coins", "date": ""}`, nil)

	p, err := e.ExtractOne(context.Background(), "bought coins 200k", testTaxonomy, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, p.Category)
	// Missing date defaults to today.
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), p.OccurredOn)
}

func TestExtractOneShorthandAmountStrings(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected int64
	}{
		{"thousand suffix", `"50k"`, 50_000},
		{"vietnamese million", `"15 triệu"`, 15_000_000},
		{"ascii million", `"2 trieu"`, 2_000_000},
		{"english million", `"1.5 million"`, 1_500_000},
		{"comma separated", `"1,200,000"`, 1_200_000},
		{"plain number", `120000`, 120_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(`{"is_transaction": true, "type": "expense", "category": "Transport", "amount": `+tt.amount+`, "description": "taxi", "date": "2026-08-28"}`, nil)
			p, err := e.ExtractOne(context.Background(), "taxi", testTaxonomy, testNow)
			require.NoError(t, err)
			assert.True(t, p.Amount.Equal(decimal.NewFromInt(tt.expected)), "got %s", p.Amount)
		})
	}
}

func TestExtractOneProseAroundJSON(t *testing.T) {
	e := newTestExtractor("Sure! Here is the result:\n{\"is_transaction\": true, \"type\": \"expense\", \"category\": \"Housing\", \"amount\": 3000000, \"description\": \"rent\", \"date\": \"2026-08-01\"}\nLet me know if you need anything else.", nil)

	p, err := e.ExtractOne(context.Background(), "paid rent 3tr", testTaxonomy, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Housing", p.Category)
}

func TestExtractOneFailures(t *testing.T) {
	t.Run("undecodable output", func(t *testing.T) {
		e := newTestExtractor("I cannot help with that.", nil)
		_, err := e.ExtractOne(context.Background(), "lunch 50k", testTaxonomy, testNow)
		assert.ErrorIs(t, err, ErrNoProposal)
	})

	t.Run("transport error", func(t *testing.T) {
		e := newTestExtractor("", errors.New("deadline exceeded"))
		_, err := e.ExtractOne(context.Background(), "lunch 50k", testTaxonomy, testNow)
		assert.ErrorIs(t, err, ErrNoProposal)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		e := newTestExtractor(`{"is_transaction": true, "type": "expense", "category": "Transport", "amount": 0, "description": "taxi", "date": "2026-08-28"}`, nil)
		_, err := e.ExtractOne(context.Background(), "taxi", testTaxonomy, testNow)
		assert.ErrorIs(t, err, ErrNoProposal)
	})

	t.Run("invalid kind", func(t *testing.T) {
		e := newTestExtractor(`{"is_transaction": true, "type": "transfer", "category": "Other", "amount": 100, "description": "x", "date": "2026-08-28"}`, nil)
		_, err := e.ExtractOne(context.Background(), "x", testTaxonomy, testNow)
		assert.ErrorIs(t, err, ErrNoProposal)
	})

	t.Run("unconfigured client", func(t *testing.T) {
		e := New(&ai.MockClient{AvailableValue: false}, &logging.MockLogger{})
		_, err := e.ExtractOne(context.Background(), "lunch 50k", testTaxonomy, testNow)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestExtractAll(t *testing.T) {
	e := newTestExtractor(`[
		{"type": "expense", "category": "Food & Drink", "amount": 50000, "description": "breakfast", "date": "2026-08-28"},
		{"type": "expense", "category": "Transport", "amount": "30k", "description": "bus", "date": "2026-08-28"},
		{"type": "income", "category": "Bonus", "amount": 2000000, "description": "referral bonus", "date": "2026-08-27"}
	]`, nil)

	proposals, err := e.ExtractAll(context.Background(), "breakfast 50k, bus 30k, and got a 2tr referral bonus yesterday", testTaxonomy, testNow)
	require.NoError(t, err)
	require.Len(t, proposals, 3)
	assert.Equal(t, "breakfast", proposals[0].Description)
	assert.True(t, proposals[1].Amount.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, models.KindIncome, proposals[2].Kind)
}

func TestExtractAllEmpty(t *testing.T) {
	e := newTestExtractor(`[]`, nil)

	proposals, err := e.ExtractAll(context.Background(), "hello there", testTaxonomy, testNow)
	require.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestExtractAllDropsInvalidItems(t *testing.T) {
	e := newTestExtractor(`[
		{"type": "expense", "category": "Transport", "amount": 30000, "description": "bus", "date": "2026-08-28"},
		{"type": "expense", "category": "Transport", "amount": -5, "description": "bad", "date": "2026-08-28"}
	]`, nil)

	proposals, err := e.ExtractAll(context.Background(), "bus 30k", testTaxonomy, testNow)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "bus", proposals[0].Description)
}

func TestExtractAllUndecodable(t *testing.T) {
	e := newTestExtractor("no transactions here", nil)
	_, err := e.ExtractAll(context.Background(), "hello", testTaxonomy, testNow)
	assert.ErrorIs(t, err, ErrNoProposal)
}

func TestPromptMentionsTaxonomyAndDate(t *testing.T) {
	mock := &ai.MockClient{
		AvailableValue: true,
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"is_transaction": false}`, nil
		},
	}
	e := New(mock, &logging.MockLogger{})

	_, err := e.ExtractOne(context.Background(), "hi", testTaxonomy, testNow)
	require.NoError(t, err)
	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "Food & Drink")
	assert.Contains(t, mock.Prompts[0], "Salary")
	assert.Contains(t, mock.Prompts[0], "2026-08-28")
	assert.Contains(t, mock.Prompts[0], "hi")
}
