// Package budget classifies monthly spending against a configured limit
// and produces the advisory messages shown after each committed expense.
package budget

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"

	"github.com/shopspring/decimal"
)

// Tier is the severity band of a month's spending relative to its limit.
type Tier string

const (
	TierHealthy  Tier = "healthy"
	TierNominal  Tier = "nominal"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
	TierExceeded Tier = "exceeded"
)

// Tier thresholds as percentages of the limit. Spending above the limit is
// always exceeded regardless of percentage rounding.
var (
	thresholdCritical = decimal.NewFromInt(90)
	thresholdWarning  = decimal.NewFromInt(80)
	thresholdNominal  = decimal.NewFromInt(50)
	hundred           = decimal.NewFromInt(100)
)

// Evaluation is the result of comparing one month's spending to its limit.
type Evaluation struct {
	Tier      Tier
	Spent     decimal.Decimal
	Limit     decimal.Decimal
	Percent   decimal.Decimal
	Remaining decimal.Decimal
	Overage   decimal.Decimal
}

// Classify bands spent against limit. limit must be positive; the caller is
// responsible for skipping evaluation when no limit is configured.
func Classify(spent, limit decimal.Decimal) Evaluation {
	ev := Evaluation{
		Spent:   spent,
		Limit:   limit,
		Percent: spent.Div(limit).Mul(hundred).Round(1),
	}

	if spent.GreaterThan(limit) {
		ev.Tier = TierExceeded
		ev.Overage = spent.Sub(limit)
		return ev
	}

	ev.Remaining = limit.Sub(spent)
	switch {
	case ev.Percent.GreaterThanOrEqual(thresholdCritical):
		ev.Tier = TierCritical
	case ev.Percent.GreaterThanOrEqual(thresholdWarning):
		ev.Tier = TierWarning
	case ev.Percent.GreaterThanOrEqual(thresholdNominal):
		ev.Tier = TierNominal
	default:
		ev.Tier = TierHealthy
	}
	return ev
}

// Message renders the evaluation as a one-line advisory for the user.
func (ev Evaluation) Message() string {
	switch ev.Tier {
	case TierExceeded:
		return fmt.Sprintf("Budget exceeded: spent %s of %s, over by %s",
			models.GroupAmount(ev.Spent), models.GroupAmount(ev.Limit), models.GroupAmount(ev.Overage))
	case TierCritical:
		return fmt.Sprintf("Budget critical: %s%% used, only %s left",
			ev.Percent, models.GroupAmount(ev.Remaining))
	case TierWarning:
		return fmt.Sprintf("Budget warning: %s%% used, %s remaining",
			ev.Percent, models.GroupAmount(ev.Remaining))
	case TierNominal:
		return fmt.Sprintf("Budget on track: %s%% used, %s remaining",
			ev.Percent, models.GroupAmount(ev.Remaining))
	default:
		return fmt.Sprintf("Budget healthy: %s%% used, %s remaining",
			ev.Percent, models.GroupAmount(ev.Remaining))
	}
}

// spendingStore is the slice of the store the evaluator needs.
type spendingStore interface {
	MonthlyTotal(ctx context.Context, ownerID string, kind models.Kind, year int, month time.Month) (decimal.Decimal, error)
	GetBudgetLimit(ctx context.Context, ownerID string, month, year int) (decimal.Decimal, bool, error)
}

// Evaluator evaluates an owner's monthly spending using stored data.
type Evaluator struct {
	store  spendingStore
	logger logging.Logger
}

// NewEvaluator creates an Evaluator reading from the given store.
func NewEvaluator(store spendingStore, logger logging.Logger) *Evaluator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Evaluator{store: store, logger: logger}
}

// Evaluate classifies the owner's spending for a month. When no limit is
// configured for that month it returns ok=false and stays silent.
func (e *Evaluator) Evaluate(ctx context.Context, ownerID string, year int, month time.Month) (Evaluation, bool, error) {
	limit, ok, err := e.store.GetBudgetLimit(ctx, ownerID, int(month), year)
	if err != nil {
		return Evaluation{}, false, err
	}
	if !ok {
		return Evaluation{}, false, nil
	}

	spent, err := e.store.MonthlyTotal(ctx, ownerID, models.KindExpense, year, month)
	if err != nil {
		return Evaluation{}, false, err
	}

	ev := Classify(spent, limit)
	e.logger.WithFields(
		logging.Field{Key: logging.FieldOwner, Value: ownerID},
		logging.Field{Key: logging.FieldTier, Value: ev.Tier},
		logging.Field{Key: logging.FieldAmount, Value: spent.String()},
	).Debug("Budget evaluated")
	return ev, true, nil
}
