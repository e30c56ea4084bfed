// Package receipt extracts an expense proposal from a photographed receipt
// using the completion service's vision capability. Receipts are always
// expenses; the scan result goes through the same confirmation flow as a
// typed message.
package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/finance-assistant/internal/ai"
	"fjacquet/finance-assistant/internal/dateutils"
	"fjacquet/finance-assistant/internal/extractor"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"

	"github.com/shopspring/decimal"
)

// Scanner turns receipt images into expense proposals.
type Scanner struct {
	client ai.Client
	logger logging.Logger
}

// New creates a Scanner backed by the given completion client.
func New(client ai.Client, logger logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Scanner{client: client, logger: logger}
}

// imageFormats maps file extensions to the completion service image format.
var imageFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".webp": "webp",
}

// wireReceipt is the JSON shape the vision prompt asks for.
type wireReceipt struct {
	Merchant string     `json:"merchant"`
	Category string     `json:"category"`
	Total    wireAmount `json:"total"`
	Date     string     `json:"date"`
}

type wireAmount struct {
	decimal.Decimal
}

func (a *wireAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d, err := extractor.ParseAmount(s)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

func buildPrompt(tax models.Taxonomy, now time.Time) string {
	var b strings.Builder
	b.WriteString("Read this receipt image.\n\n")
	fmt.Fprintf(&b, "Today's date: %s\n", dateutils.ToISODate(now))
	fmt.Fprintf(&b, "Valid expense categories: %s\n\n", strings.Join(tax.Expense, ", "))
	b.WriteString("Respond with ONE JSON object:\n")
	b.WriteString(`{"merchant": "...", "category": "...", "total": 0, "date": "YYYY-MM-DD"}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- \"total\" is the grand total paid, as a positive number.\n")
	b.WriteString("- \"category\" MUST be one of the listed categories; use \"Other\" when unsure.\n")
	b.WriteString("- \"date\" is the purchase date printed on the receipt; leave empty when unreadable.\n")
	b.WriteString("- Return RAW JSON only. No markdown, no commentary.\n")
	return b.String()
}

// ScanFile reads the image at path and scans it.
func (s *Scanner) ScanFile(ctx context.Context, path string, tax models.Taxonomy, now time.Time) (models.Proposal, error) {
	format, ok := imageFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return models.Proposal{}, fmt.Errorf("unsupported image type: %s", filepath.Ext(path))
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("read receipt image: %w", err)
	}
	return s.Scan(ctx, image, format, tax, now)
}

// Scan extracts an expense proposal from raw image bytes.
func (s *Scanner) Scan(ctx context.Context, image []byte, format string, tax models.Taxonomy, now time.Time) (models.Proposal, error) {
	if !s.client.Available() {
		return models.Proposal{}, ai.ErrNotConfigured
	}

	raw, err := s.client.GenerateWithImage(ctx, buildPrompt(tax, now), format, image)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("scan receipt: %w", err)
	}

	var wire wireReceipt
	if err := json.Unmarshal([]byte(ai.CleanResponse(raw)), &wire); err != nil {
		s.logger.WithError(err).Warn("Undecodable receipt scan output")
		return models.Proposal{}, fmt.Errorf("decode receipt scan: %w", err)
	}

	occurred, err := dateutils.Resolve(wire.Date, now)
	if err != nil {
		occurred = now
	}

	p := models.Proposal{
		IsTransaction: true,
		Kind:          models.KindExpense,
		Category:      wire.Category,
		Amount:        wire.Total.Decimal,
		Description:   wire.Merchant,
		OccurredOn:    occurred,
	}
	if err := p.Normalize(tax, now); err != nil {
		return models.Proposal{}, fmt.Errorf("invalid receipt proposal: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: p.Category},
		logging.Field{Key: logging.FieldAmount, Value: p.Amount.String()},
	).Debug("Receipt scanned")
	return p, nil
}
