// Package delete removes a stored transaction by id.
package delete

import (
	"fmt"

	"fjacquet/finance-assistant/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the delete command.
var Cmd = &cobra.Command{
	Use:   "delete <transaction-id>",
	Short: "Delete a transaction by id",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := root.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeleteTransaction(ctx, root.Cfg.Owner.ID, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s.\n", args[0])
	return nil
}
