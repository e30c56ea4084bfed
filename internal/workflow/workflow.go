// Package workflow implements the confirmation flow between extraction and
// persistence. A proposal is held in memory until the user confirms or
// discards it; nothing touches the store before an explicit confirmation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/finance-assistant/internal/budget"
	"fjacquet/finance-assistant/internal/dateutils"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNothingPending is returned by Confirm and Discard when no
	// proposal is awaiting a decision.
	ErrNothingPending = errors.New("no proposal pending confirmation")

	// ErrNotATransaction is returned by Propose for degenerate proposals.
	ErrNotATransaction = errors.New("proposal does not describe a transaction")
)

// State is the session's position in the confirmation flow. Confirm and
// Discard are terminal for a proposal; the session returns to StateIdle
// immediately so the next message can be processed.
type State string

const (
	StateIdle     State = "idle"
	StateProposed State = "proposed"
)

// transactionWriter is the slice of the store the session needs to commit.
type transactionWriter interface {
	AddTransaction(ctx context.Context, tx models.Transaction) error
}

// budgetEvaluator re-evaluates the month's budget after a committed expense.
type budgetEvaluator interface {
	Evaluate(ctx context.Context, ownerID string, year int, month time.Month) (budget.Evaluation, bool, error)
}

// Session tracks at most one pending proposal for one owner. It is not
// safe for concurrent use; each chat session owns exactly one.
type Session struct {
	ownerID   string
	store     transactionWriter
	evaluator budgetEvaluator
	logger    logging.Logger

	pending *models.Proposal
}

// NewSession creates an idle session for ownerID. evaluator may be nil when
// budget feedback is not wanted.
func NewSession(ownerID string, store transactionWriter, evaluator budgetEvaluator, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Session{ownerID: ownerID, store: store, evaluator: evaluator, logger: logger}
}

// State reports whether a proposal is awaiting a decision.
func (s *Session) State() State {
	if s.pending != nil {
		return StateProposed
	}
	return StateIdle
}

// Pending returns the proposal awaiting confirmation, if any.
func (s *Session) Pending() (models.Proposal, bool) {
	if s.pending == nil {
		return models.Proposal{}, false
	}
	return *s.pending, true
}

// Propose stages a proposal for confirmation. A proposal that arrives while
// another is pending replaces it; the user moved on, the old one is dropped.
func (s *Session) Propose(p models.Proposal) error {
	if !p.IsTransaction {
		return ErrNotATransaction
	}

	if s.pending != nil {
		s.logger.WithFields(
			logging.Field{Key: logging.FieldOwner, Value: s.ownerID},
			logging.Field{Key: logging.FieldCategory, Value: s.pending.Category},
		).Info("Replacing pending proposal")
	}
	s.pending = &p
	return nil
}

// Summary renders the pending proposal for the confirmation question.
func (s *Session) Summary() string {
	if s.pending == nil {
		return ""
	}
	p := s.pending
	return fmt.Sprintf("%s of %s for %q (%s) on %s",
		p.Kind, models.GroupAmount(p.Amount), p.Description, p.Category,
		dateutils.ToISODate(p.OccurredOn))
}

// Confirm commits the pending proposal: it is assigned an id, stamped with
// the session owner and persisted. On success the month's budget is
// re-evaluated; evaluation failures are logged but never undo the commit.
// On a store failure the proposal stays pending so the user can retry.
func (s *Session) Confirm(ctx context.Context) (models.Transaction, *budget.Evaluation, error) {
	if s.pending == nil {
		return models.Transaction{}, nil, ErrNothingPending
	}

	tx := models.NewTransaction(uuid.NewString(), s.ownerID, *s.pending)
	if err := s.store.AddTransaction(ctx, tx); err != nil {
		return models.Transaction{}, nil, fmt.Errorf("commit transaction: %w", err)
	}
	s.pending = nil

	s.logger.WithFields(
		logging.Field{Key: logging.FieldOwner, Value: s.ownerID},
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldAmount, Value: tx.Amount.String()},
	).Info("Transaction committed")

	if s.evaluator == nil || tx.Kind != models.KindExpense {
		return tx, nil, nil
	}

	ev, ok, err := s.evaluator.Evaluate(ctx, s.ownerID, tx.OccurredOn.Year(), tx.OccurredOn.Month())
	if err != nil {
		s.logger.WithError(err).Warn("Budget evaluation failed after commit")
		return tx, nil, nil
	}
	if !ok {
		return tx, nil, nil
	}
	return tx, &ev, nil
}

// Discard drops the pending proposal without persisting anything.
func (s *Session) Discard() (models.Proposal, error) {
	if s.pending == nil {
		return models.Proposal{}, ErrNothingPending
	}
	p := *s.pending
	s.pending = nil

	s.logger.WithFields(
		logging.Field{Key: logging.FieldOwner, Value: s.ownerID},
		logging.Field{Key: logging.FieldCategory, Value: p.Category},
	).Debug("Proposal discarded")
	return p, nil
}
