// Package budget manages monthly budget limits and reports their status.
package budget

import (
	"fmt"

	"fjacquet/finance-assistant/cmd/root"
	budgeteval "fjacquet/finance-assistant/internal/budget"
	"fjacquet/finance-assistant/internal/extractor"
	"fjacquet/finance-assistant/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the budget command.
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage and check monthly budget limits",
	RunE:  statusFunc,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how this month's spending compares to its limit",
	RunE:  statusFunc,
}

var setCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the month's spending limit",
	Long:  `Set the month's spending limit. Amounts accept shorthand: "5 triệu" is 5,000,000.`,
	Args:  cobra.ExactArgs(1),
	RunE:  setFunc,
}

var unsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Remove the month's spending limit",
	RunE:  unsetFunc,
}

func init() {
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(unsetCmd)
}

func statusFunc(cmd *cobra.Command, args []string) error {
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

	ev, ok, err := budgeteval.NewEvaluator(s, root.Log).Evaluate(ctx, root.Cfg.Owner.ID, year, month)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintf(out, "No budget limit set for %s %d. Set one with \"budget set\".\n", month, year)
		return nil
	}
	fmt.Fprintf(out, "%s %d: spent %s of %s (%s%%)\n",
		month, year, models.GroupAmount(ev.Spent), models.GroupAmount(ev.Limit), ev.Percent)
	fmt.Fprintln(out, ev.Message())
	return nil
}

func setFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	year, month, err := root.Period()
	if err != nil {
		return err
	}

	amount, err := extractor.ParseAmount(args[0])
	if err != nil {
		return err
	}

	s, err := root.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	limit := models.BudgetLimit{
		OwnerID: root.Cfg.Owner.ID,
		Month:   int(month),
		Year:    year,
		Limit:   amount,
	}
	if err := s.SetBudgetLimit(ctx, limit); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s %d set to %s.\n",
		month, year, models.GroupAmount(amount))
	return nil
}

func unsetFunc(cmd *cobra.Command, args []string) error {
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

	if err := s.DeleteBudgetLimit(ctx, root.Cfg.Owner.ID, int(month), year); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s %d removed.\n", month, year)
	return nil
}
