// Package chat implements the interactive conversation loop: message in,
// proposal out, confirm or discard, budget feedback after each commit.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fjacquet/finance-assistant/cmd/root"
	"fjacquet/finance-assistant/internal/budget"
	"fjacquet/finance-assistant/internal/extractor"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"
	"fjacquet/finance-assistant/internal/workflow"

	"github.com/spf13/cobra"
)

var multi bool

// Cmd represents the chat command.
var Cmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant about your income and expenses",
	Long: `Start an interactive session. Describe transactions in plain language
("lunch 50k", "got my salary, 15 triệu") and confirm each one before it is
saved. Type "exit" to leave.`,
	RunE: chatFunc,
}

func init() {
	Cmd.Flags().BoolVar(&multi, "multi", false, "Extract every transaction found in a message, not just one")
}

func chatFunc(cmd *cobra.Command, args []string) error {
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

	loop := &chatLoop{
		extractor: extractor.New(client, root.Log),
		session: workflow.NewSession(root.Cfg.Owner.ID, s,
			budget.NewEvaluator(s, root.Log), root.Log),
		taxonomy: tax,
		multi:    multi,
		logger:   root.Log,
	}
	return loop.run(ctx, os.Stdin, cmd.OutOrStdout())
}

type chatLoop struct {
	extractor *extractor.Extractor
	session   *workflow.Session
	taxonomy  models.Taxonomy
	multi     bool
	logger    logging.Logger

	// queued holds the remaining proposals of a multi-transaction message
	// while the first one awaits its decision.
	queued []models.Proposal
}

var exitWords = map[string]bool{"exit": true, "quit": true, "bye": true}

func (c *chatLoop) run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Tell me about your income and expenses. Type \"exit\" to leave.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			break
		}

		if c.session.State() == workflow.StateProposed {
			if c.handleDecision(ctx, out, line) {
				continue
			}
			// Not a yes/no: the user moved on, treat it as a new message.
		}

		if c.multi {
			c.handleMulti(ctx, out, line)
		} else {
			c.handleSingle(ctx, out, line)
		}
	}
	fmt.Fprintln(out, "Goodbye!")
	return scanner.Err()
}

// handleDecision consumes a pending confirmation. It reports whether line
// was a decision.
func (c *chatLoop) handleDecision(ctx context.Context, out io.Writer, line string) bool {
	switch strings.ToLower(line) {
	case "y", "yes":
		tx, ev, err := c.session.Confirm(ctx)
		if err != nil {
			fmt.Fprintf(out, "Could not save the transaction: %v\n", err)
			return true
		}
		fmt.Fprintf(out, "Saved %s of %s (%s).\n",
			tx.Kind, models.GroupAmount(tx.Amount), tx.Category)
		if ev != nil {
			fmt.Fprintln(out, ev.Message())
		}
		c.proposeNextQueued(out)
		return true
	case "n", "no":
		if _, err := c.session.Discard(); err == nil {
			fmt.Fprintln(out, "Okay, discarded.")
		}
		c.proposeNextQueued(out)
		return true
	}
	// Not a yes/no: the user moved on, drop anything still queued.
	c.queued = nil
	return false
}

func (c *chatLoop) proposeNextQueued(out io.Writer) {
	if len(c.queued) == 0 {
		return
	}
	next := c.queued[0]
	c.queued = c.queued[1:]
	c.propose(out, next)
}

func (c *chatLoop) handleSingle(ctx context.Context, out io.Writer, line string) {
	p, err := c.extractor.ExtractOne(ctx, line, c.taxonomy, time.Now())
	if err != nil {
		c.reportExtractionError(out, err)
		return
	}
	if !p.IsTransaction {
		fmt.Fprintln(out, "That doesn't look like a transaction. Tell me about money you spent or received.")
		return
	}
	c.propose(out, p)
}

func (c *chatLoop) handleMulti(ctx context.Context, out io.Writer, line string) {
	proposals, err := c.extractor.ExtractAll(ctx, line, c.taxonomy, time.Now())
	if err != nil {
		c.reportExtractionError(out, err)
		return
	}
	if len(proposals) == 0 {
		fmt.Fprintln(out, "No transactions found in that message.")
		return
	}
	if len(proposals) > 1 {
		fmt.Fprintf(out, "Found %d transactions. Confirm them one by one.\n", len(proposals))
	}
	c.propose(out, proposals[0])
	c.queued = proposals[1:]
}

func (c *chatLoop) propose(out io.Writer, p models.Proposal) {
	if err := c.session.Propose(p); err != nil {
		fmt.Fprintf(out, "Could not stage the transaction: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Got it: %s. Save it? (y/n)\n", c.session.Summary())
}

func (c *chatLoop) reportExtractionError(out io.Writer, err error) {
	switch {
	case errors.Is(err, extractor.ErrNotConfigured):
		fmt.Fprintln(out, "The assistant is not configured. Set GEMINI_API_KEY and try again.")
	case errors.Is(err, extractor.ErrNoProposal):
		fmt.Fprintln(out, "Sorry, I couldn't understand that. Try rephrasing, e.g. \"lunch 50k\".")
	default:
		fmt.Fprintf(out, "Something went wrong: %v\n", err)
	}
}
