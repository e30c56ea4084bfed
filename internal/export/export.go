// Package export writes stored transactions to CSV for use in spreadsheet
// tools.
package export

import (
	"fmt"
	"io"
	"os"

	"fjacquet/finance-assistant/internal/dateutils"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"

	"github.com/gocarina/gocsv"
)

// csvRow maps one transaction to the exported CSV columns.
type csvRow struct {
	ID          string `csv:"Id"`
	Date        string `csv:"Date"`
	Type        string `csv:"Type"`
	Category    string `csv:"Category"`
	Amount      string `csv:"Amount"`
	Description string `csv:"Description"`
}

func toRows(txs []models.Transaction) []csvRow {
	rows := make([]csvRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, csvRow{
			ID:          tx.ID,
			Date:        dateutils.ToISODate(tx.OccurredOn),
			Type:        string(tx.Kind),
			Category:    tx.Category,
			Amount:      tx.Amount.String(),
			Description: tx.Description,
		})
	}
	return rows
}

// WriteCSV writes transactions to w as CSV, header row included.
func WriteCSV(w io.Writer, txs []models.Transaction) error {
	rows := toRows(txs)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}
	return nil
}

// WriteCSVFile writes transactions to the CSV file at path, creating or
// truncating it.
func WriteCSVFile(path string, txs []models.Transaction, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	if err := WriteCSV(file, txs); err != nil {
		return err
	}

	logger.WithFields(
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
	).Info("Transactions exported")
	return nil
}
