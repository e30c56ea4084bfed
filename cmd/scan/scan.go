// Package scan extracts an expense from a receipt photo and walks it
// through the usual confirmation step.
package scan

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"fjacquet/finance-assistant/cmd/root"
	"fjacquet/finance-assistant/internal/budget"
	"fjacquet/finance-assistant/internal/models"
	"fjacquet/finance-assistant/internal/receipt"
	"fjacquet/finance-assistant/internal/workflow"

	"github.com/spf13/cobra"
)

var autoConfirm bool

// Cmd represents the scan command.
var Cmd = &cobra.Command{
	Use:   "scan <image-file>",
	Short: "Scan a receipt photo into an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  scanFunc,
}

func init() {
	Cmd.Flags().BoolVar(&autoConfirm, "yes", false, "Save the scanned expense without asking")
}

func scanFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := root.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	tax, err := root.Taxonomy(ctx, s)
	if err != nil {
		return err
	}

	client, err := root.NewAIClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	p, err := receipt.New(client, root.Log).ScanFile(ctx, args[0], tax, time.Now())
	if err != nil {
		return err
	}

	session := workflow.NewSession(root.Cfg.Owner.ID, s,
		budget.NewEvaluator(s, root.Log), root.Log)
	if err := session.Propose(p); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanned: %s\n", session.Summary())

	if !autoConfirm {
		fmt.Fprint(out, "Save it? (y/n) ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			_, _ = session.Discard()
			fmt.Fprintln(out, "Discarded.")
			return nil
		}
	}

	tx, ev, err := session.Confirm(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved expense of %s (%s) [%s]\n",
		models.GroupAmount(tx.Amount), tx.Category, tx.ID)
	if ev != nil {
		fmt.Fprintln(out, ev.Message())
	}
	return nil
}
