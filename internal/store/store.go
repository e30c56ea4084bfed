// Package store provides the local file-backed relational store holding
// transactions, monthly budget limits and the category taxonomy.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/finance-assistant/internal/dateutils"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	kind        TEXT NOT NULL,
	category    TEXT NOT NULL,
	amount      TEXT NOT NULL,
	description TEXT NOT NULL,
	occurred_on TEXT NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_transactions_owner_date
	ON transactions(owner_id, occurred_on);

CREATE TABLE IF NOT EXISTS budget_limits (
	owner_id     TEXT NOT NULL,
	month        INTEGER NOT NULL,
	year         INTEGER NOT NULL,
	limit_amount TEXT NOT NULL,
	PRIMARY KEY (owner_id, month, year)
);

CREATE TABLE IF NOT EXISTS categories (
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (kind, name)
);
`

// Store wraps the SQLite database. All mutations are short auto-committing
// single-statement transactions; the application is single-user and
// single-process.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// New opens (creating if necessary) the SQLite database at dbPath and
// bootstraps the schema.
func New(dbPath string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddTransaction persists a transaction. The write is a single statement;
// either the row exists afterwards or it does not.
func (s *Store) AddTransaction(ctx context.Context, tx models.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, kind, category, amount, description, occurred_on)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerID, string(tx.Kind), tx.Category, tx.Amount.String(),
		tx.Description, dateutils.ToISODate(tx.OccurredOn))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldKind, Value: tx.Kind},
		logging.Field{Key: logging.FieldCategory, Value: tx.Category},
		logging.Field{Key: logging.FieldAmount, Value: tx.Amount.String()},
	).Debug("Transaction saved")

	return nil
}

// DeleteTransaction removes a transaction owned by ownerID.
func (s *Store) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s not found", id)
	}
	return nil
}

// ListTransactions returns the owner's transactions for a month, most
// recent first.
func (s *Store) ListTransactions(ctx context.Context, ownerID string, year int, month time.Month) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, kind, category, amount, description, occurred_on
		FROM transactions
		WHERE owner_id = ? AND strftime('%Y-%m', occurred_on) = ?
		ORDER BY occurred_on DESC, created_at DESC`,
		ownerID, dateutils.YearMonth(year, month))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			tx                   models.Transaction
			kind, amount, isoDay string
		)
		if err := rows.Scan(&tx.ID, &tx.OwnerID, &kind, &tx.Category, &amount, &tx.Description, &isoDay); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = models.Kind(kind)
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
		}
		if tx.OccurredOn, err = time.Parse(dateutils.DateLayoutISO, isoDay); err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", isoDay, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// MonthlyTotal sums the owner's transactions of one kind for a month.
func (s *Store) MonthlyTotal(ctx context.Context, ownerID string, kind models.Kind, year int, month time.Month) (decimal.Decimal, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CAST(amount AS NUMERIC)), 0)
		FROM transactions
		WHERE owner_id = ? AND kind = ? AND strftime('%Y-%m', occurred_on) = ?`,
		ownerID, string(kind), dateutils.YearMonth(year, month)).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monthly %s total: %w", kind, err)
	}
	return decimal.NewFromFloat(total.Float64), nil
}

// CategoryTotal is an aggregated amount per category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// TopCategories returns the owner's largest categories of one kind for a
// month, in descending order of total, limited to n entries.
func (s *Store) TopCategories(ctx context.Context, ownerID string, kind models.Kind, year int, month time.Month, n int) ([]CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COALESCE(SUM(CAST(amount AS NUMERIC)), 0) AS total
		FROM transactions
		WHERE owner_id = ? AND kind = ? AND strftime('%Y-%m', occurred_on) = ?
		GROUP BY category
		ORDER BY total DESC
		LIMIT ?`,
		ownerID, string(kind), dateutils.YearMonth(year, month), n)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var (
			ct    CategoryTotal
			total float64
		)
		if err := rows.Scan(&ct.Category, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Total = decimal.NewFromFloat(total)
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// GetBudgetLimit returns the owner's limit for a month, and whether one is
// configured.
func (s *Store) GetBudgetLimit(ctx context.Context, ownerID string, month, year int) (decimal.Decimal, bool, error) {
	var amount string
	err := s.db.QueryRowContext(ctx, `
		SELECT limit_amount FROM budget_limits
		WHERE owner_id = ? AND month = ? AND year = ?`,
		ownerID, month, year).Scan(&amount)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get budget limit: %w", err)
	}
	limit, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse stored limit %q: %w", amount, err)
	}
	return limit, true, nil
}

// SetBudgetLimit creates or replaces the owner's limit for a month.
func (s *Store) SetBudgetLimit(ctx context.Context, limit models.BudgetLimit) error {
	if !limit.Limit.IsPositive() {
		return fmt.Errorf("budget limit must be positive, got %s", limit.Limit)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budget_limits (owner_id, month, year, limit_amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id, month, year) DO UPDATE SET limit_amount = excluded.limit_amount`,
		limit.OwnerID, limit.Month, limit.Year, limit.Limit.String())
	if err != nil {
		return fmt.Errorf("set budget limit: %w", err)
	}
	return nil
}

// DeleteBudgetLimit removes the owner's limit for a month if present.
func (s *Store) DeleteBudgetLimit(ctx context.Context, ownerID string, month, year int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM budget_limits WHERE owner_id = ? AND month = ? AND year = ?`,
		ownerID, month, year)
	if err != nil {
		return fmt.Errorf("delete budget limit: %w", err)
	}
	return nil
}
