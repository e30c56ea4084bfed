// Package gold prints the current spot gold price in local units.
package gold

import (
	"fmt"
	"time"

	"fjacquet/finance-assistant/cmd/root"
	"fjacquet/finance-assistant/internal/goldprice"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Cmd represents the gold command.
var Cmd = &cobra.Command{
	Use:   "gold",
	Short: "Show the current gold price",
	RunE:  goldFunc,
}

func goldFunc(cmd *cobra.Command, args []string) error {
	client := goldprice.New(
		root.Cfg.Gold.URL,
		time.Duration(root.Cfg.Gold.TimeoutSeconds)*time.Second,
		decimal.NewFromFloat(root.Cfg.Gold.USDToVND),
		root.Log,
	)

	quote := client.Fetch(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), quote.Render())
	return nil
}
