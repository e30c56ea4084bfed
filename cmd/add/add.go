// Package add handles manual transaction entry, bypassing extraction.
package add

import (
	"fmt"
	"time"

	"fjacquet/finance-assistant/cmd/root"
	"fjacquet/finance-assistant/internal/budget"
	"fjacquet/finance-assistant/internal/dateutils"
	"fjacquet/finance-assistant/internal/extractor"
	"fjacquet/finance-assistant/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	kind        string
	category    string
	amount      string
	description string
	date        string
)

// Cmd represents the add command.
var Cmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction directly",
	Long: `Record a transaction without the conversational flow. Amounts accept
the usual shorthand: "50k" is 50,000 and "15 triệu" is 15,000,000.`,
	RunE: addFunc,
}

func init() {
	Cmd.Flags().StringVarP(&kind, "type", "t", "expense", "Transaction type: income or expense")
	Cmd.Flags().StringVarP(&category, "category", "c", "", "Category name (unknown names fall back to Other)")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount, e.g. 50000, 50k or '1.5 triệu'")
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Short description")
	Cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD or 'yesterday'; default: today)")
	_ = Cmd.MarkFlagRequired("amount")
	_ = Cmd.MarkFlagRequired("description")
}

func addFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parsedKind, err := models.ParseKind(kind)
	if err != nil {
		return err
	}

	parsedAmount, err := extractor.ParseAmount(amount)
	if err != nil {
		return err
	}

	occurred, err := dateutils.Resolve(date, time.Now())
	if err != nil {
		return err
	}

	s, err := root.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	tax, err := root.Taxonomy(ctx, s)
	if err != nil {
		return err
	}

	p := models.Proposal{
		IsTransaction: true,
		Kind:          parsedKind,
		Category:      category,
		Amount:        parsedAmount,
		Description:   description,
		OccurredOn:    occurred,
	}
	if err := p.Normalize(tax, time.Now()); err != nil {
		return err
	}

	tx := models.NewTransaction(uuid.NewString(), root.Cfg.Owner.ID, p)
	if err := s.AddTransaction(ctx, tx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved %s of %s (%s) on %s [%s]\n",
		tx.Kind, models.GroupAmount(tx.Amount), tx.Category,
		dateutils.ToISODate(tx.OccurredOn), tx.ID)

	if tx.Kind == models.KindExpense {
		ev, ok, err := budget.NewEvaluator(s, root.Log).Evaluate(ctx,
			tx.OwnerID, tx.OccurredOn.Year(), tx.OccurredOn.Month())
		if err != nil {
			root.Log.WithError(err).Warn("Budget evaluation failed")
		} else if ok {
			fmt.Fprintln(out, ev.Message())
		}
	}
	return nil
}
