// Package list prints a month's transactions.
package list

import (
	"fmt"
	"text/tabwriter"

	"fjacquet/finance-assistant/cmd/root"
	"fjacquet/finance-assistant/internal/dateutils"
	"fjacquet/finance-assistant/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the list command.
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List a month's transactions",
	RunE:  listFunc,
}

func listFunc(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	if len(txs) == 0 {
		fmt.Fprintf(out, "No transactions for %s %d.\n", month, year)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION\tID")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			dateutils.ToISODate(tx.OccurredOn), tx.Kind, tx.Category,
			models.GroupAmount(tx.Amount), tx.Description, tx.ID)
	}
	return w.Flush()
}
