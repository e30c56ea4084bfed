// Package advice summarizes a month and asks the completion service for
// spending advice or answers to free-form questions.
package advice

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/finance-assistant/cmd/root"
	"fjacquet/finance-assistant/internal/advisor"
	"fjacquet/finance-assistant/internal/ai"

	"github.com/spf13/cobra"
)

var summaryOnly bool

// Cmd represents the advice command.
var Cmd = &cobra.Command{
	Use:   "advice [question...]",
	Short: "Get spending advice or ask about your finances",
	Long: `Summarize the month's finances and ask the assistant for advice.
With a question as arguments, the assistant answers it instead:

  finance-assistant advice where does my money go?`,
	RunE: adviceFunc,
}

func init() {
	Cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Print the monthly summary without calling the assistant")
}

func adviceFunc(cmd *cobra.Command, args []string) error {
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

	client, err := root.NewAIClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	a := advisor.New(s, client, root.Log)
	out := cmd.OutOrStdout()

	summary, err := a.Summarize(ctx, root.Cfg.Owner.ID, year, month)
	if err != nil {
		return err
	}
	fmt.Fprint(out, summary.Render())

	if summaryOnly {
		return nil
	}

	var answer string
	if len(args) > 0 {
		answer, err = a.Ask(ctx, root.Cfg.Owner.ID, strings.Join(args, " "), year, month)
	} else {
		answer, err = a.Advise(ctx, root.Cfg.Owner.ID, year, month)
	}
	if errors.Is(err, ai.ErrNotConfigured) {
		fmt.Fprintln(out, "\nSet GEMINI_API_KEY to get advice from the assistant.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", answer)
	return nil
}
