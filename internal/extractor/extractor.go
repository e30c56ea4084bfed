// Package extractor turns free-form chat messages into structured
// transaction proposals using the completion service as its oracle. All
// oracle output is treated as untrusted and re-validated before a proposal
// leaves this package.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-assistant/internal/ai"
	"fjacquet/finance-assistant/internal/dateutils"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured mirrors ai.ErrNotConfigured for callers that only
	// import this package.
	ErrNotConfigured = ai.ErrNotConfigured

	// ErrNoProposal is returned when the oracle output cannot be decoded
	// into a usable proposal. The caller should ask the user to rephrase.
	ErrNoProposal = errors.New("no proposal could be extracted")
)

// Extractor extracts transaction proposals from natural-language text.
type Extractor struct {
	client ai.Client
	logger logging.Logger
}

// New creates an Extractor backed by the given completion client.
func New(client ai.Client, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Extractor{client: client, logger: logger}
}

// wireAmount decodes an amount from oracle output. Models are told to
// expand shorthand themselves but occasionally echo it back verbatim, so
// both a JSON number and a string like "50k" or "15 triệu" are accepted.
type wireAmount struct {
	decimal.Decimal
}

func (a *wireAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d, err := ParseAmount(s)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

// amountMultipliers maps shorthand suffixes to their scale. Longer
// suffixes are matched first so "tr" never shadows "triệu".
var amountMultipliers = []struct {
	suffix string
	scale  int64
}{
	{"triệu", 1_000_000},
	{"trieu", 1_000_000},
	{"million", 1_000_000},
	{"tr", 1_000_000},
	{"k", 1_000},
}

// ParseAmount parses a user- or model-written amount, expanding the
// thousand (k) and million (triệu, trieu, tr, million) shorthand.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")

	scale := int64(1)
	for _, m := range amountMultipliers {
		if strings.HasSuffix(s, m.suffix) {
			scale = m.scale
			s = strings.TrimSpace(strings.TrimSuffix(s, m.suffix))
			break
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d.Mul(decimal.NewFromInt(scale)), nil
}

// wireProposal is the JSON shape the oracle is instructed to produce.
type wireProposal struct {
	IsTransaction *bool      `json:"is_transaction"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Amount        wireAmount `json:"amount"`
	Description   string     `json:"description"`
	Date          string     `json:"date"`
}

func (w wireProposal) toProposal(tax models.Taxonomy, now time.Time) (models.Proposal, error) {
	// Multi-mode objects omit is_transaction; their presence in the array
	// is the assertion.
	if w.IsTransaction != nil && !*w.IsTransaction {
		return models.Proposal{}, nil
	}

	occurred, err := dateutils.Resolve(w.Date, now)
	if err != nil {
		// An unparseable date degrades to today rather than losing the
		// whole proposal.
		occurred = now
	}

	p := models.Proposal{
		IsTransaction: true,
		Kind:          models.Kind(w.Type),
		Category:      w.Category,
		Amount:        w.Amount.Decimal,
		Description:   w.Description,
		OccurredOn:    occurred,
	}
	if err := p.Normalize(tax, now); err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// ExtractOne extracts at most one proposal from text. It returns a
// degenerate proposal with IsTransaction=false when the message is not
// about money, and ErrNoProposal when the oracle output is unusable.
func (e *Extractor) ExtractOne(ctx context.Context, text string, tax models.Taxonomy, now time.Time) (models.Proposal, error) {
	if !e.client.Available() {
		return models.Proposal{}, ErrNotConfigured
	}

	raw, err := e.client.Generate(ctx, buildSinglePrompt(text, tax, now))
	if err != nil {
		e.logger.WithError(err).Warn("Extraction call failed")
		return models.Proposal{}, fmt.Errorf("%w: %v", ErrNoProposal, err)
	}

	body := clamp(ai.CleanResponse(raw), '{', '}')
	var wire wireProposal
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		e.logger.WithError(err).WithField(logging.FieldOperation, "extract").Warn("Undecodable extraction output")
		return models.Proposal{}, fmt.Errorf("%w: %v", ErrNoProposal, err)
	}

	p, err := wire.toProposal(tax, now)
	if err != nil {
		e.logger.WithError(err).Warn("Extracted proposal failed validation")
		return models.Proposal{}, fmt.Errorf("%w: %v", ErrNoProposal, err)
	}
	return p, nil
}

// ExtractAll extracts every proposal found in text. A message with no
// transactions yields an empty slice, not an error. Individual items that
// fail validation are dropped with a warning; the rest survive.
func (e *Extractor) ExtractAll(ctx context.Context, text string, tax models.Taxonomy, now time.Time) ([]models.Proposal, error) {
	if !e.client.Available() {
		return nil, ErrNotConfigured
	}

	raw, err := e.client.Generate(ctx, buildMultiPrompt(text, tax, now))
	if err != nil {
		e.logger.WithError(err).Warn("Extraction call failed")
		return nil, fmt.Errorf("%w: %v", ErrNoProposal, err)
	}

	body := clamp(ai.CleanResponse(raw), '[', ']')
	var wires []wireProposal
	if err := json.Unmarshal([]byte(body), &wires); err != nil {
		e.logger.WithError(err).WithField(logging.FieldOperation, "extract").Warn("Undecodable extraction output")
		return nil, fmt.Errorf("%w: %v", ErrNoProposal, err)
	}

	proposals := make([]models.Proposal, 0, len(wires))
	for _, wire := range wires {
		p, err := wire.toProposal(tax, now)
		if err != nil {
			e.logger.WithError(err).Warn("Dropping invalid proposal")
			continue
		}
		if !p.IsTransaction {
			continue
		}
		proposals = append(proposals, p)
	}

	e.logger.WithField(logging.FieldCount, len(proposals)).Debug("Extraction complete")
	return proposals, nil
}

// clamp cuts s down to the outermost open..close span. Models sometimes
// surround the JSON payload with prose even when told not to.
func clamp(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
