// Package export writes a month's transactions to a CSV file.
package export

import (
	"fmt"

	"fjacquet/finance-assistant/cmd/root"
	exportcsv "fjacquet/finance-assistant/internal/export"

	"github.com/spf13/cobra"
)

var output string

// Cmd represents the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a month's transactions to CSV",
	RunE:  exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "transactions.csv", "Output CSV file")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	year, month, err := root.Period()
	if err != nil {
		return err
	}

	s, err := root.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	txs, err := s.ListTransactions(ctx, root.Cfg.Owner.ID, year, month)
	if err != nil {
		return err
	}

	if err := exportcsv.WriteCSVFile(output, txs, root.Log); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s.\n", len(txs), output)
	return nil
}
