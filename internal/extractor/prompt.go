package extractor

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-assistant/internal/dateutils"
	"fjacquet/finance-assistant/internal/models"
)

const promptRules = `Rules:
- "type" is either "income" or "expense".
- "category" MUST be one of the listed categories for the chosen type. If none fits, use "Other".
- "amount" is a positive number in the user's currency. Expand shorthand: "50k" means 50000 (k multiplies by 1,000); "15 triệu", "15tr" or "15 million" means 15000000 (triệu/million multiplies by 1,000,000).
- "date" is the day the transaction happened in YYYY-MM-DD format. Resolve relative words like "yesterday" or "hôm qua" against today's date. When no date is mentioned, use today.
- "description" is a short phrase describing the transaction.
- Return RAW JSON only. No markdown, no code fences, no commentary.`

// buildSinglePrompt asks for exactly one JSON object. The model must either
// describe one transaction or declare the message is not a transaction at
// all via is_transaction=false.
func buildSinglePrompt(text string, tax models.Taxonomy, now time.Time) string {
	var b strings.Builder

	b.WriteString("You extract personal finance transactions from chat messages.\n\n")
	fmt.Fprintf(&b, "Today's date: %s\n\n", dateutils.ToISODate(now))
	writeTaxonomy(&b, tax)

	b.WriteString("Analyze the message below. Respond with ONE JSON object:\n")
	b.WriteString(`{"is_transaction": true, "type": "...", "category": "...", "amount": 0, "description": "...", "date": "YYYY-MM-DD"}`)
	b.WriteString("\n\nIf the message does not describe a financial transaction, respond with exactly:\n")
	b.WriteString(`{"is_transaction": false}`)
	b.WriteString("\n\n")
	b.WriteString(promptRules)
	fmt.Fprintf(&b, "\n\nMessage: %q\n", text)

	return b.String()
}

// buildMultiPrompt asks for a JSON array, one object per transaction found.
func buildMultiPrompt(text string, tax models.Taxonomy, now time.Time) string {
	var b strings.Builder

	b.WriteString("You extract personal finance transactions from chat messages.\n\n")
	fmt.Fprintf(&b, "Today's date: %s\n\n", dateutils.ToISODate(now))
	writeTaxonomy(&b, tax)

	b.WriteString("Analyze the message below. It may describe zero, one or several transactions.\n")
	b.WriteString("Respond with a JSON array holding one object per transaction:\n")
	b.WriteString(`[{"type": "...", "category": "...", "amount": 0, "description": "...", "date": "YYYY-MM-DD"}]`)
	b.WriteString("\n\nIf the message describes no transactions, respond with exactly: []\n\n")
	b.WriteString(promptRules)
	fmt.Fprintf(&b, "\n\nMessage: %q\n", text)

	return b.String()
}

func writeTaxonomy(b *strings.Builder, tax models.Taxonomy) {
	fmt.Fprintf(b, "Valid income categories: %s\n", strings.Join(tax.Income, ", "))
	fmt.Fprintf(b, "Valid expense categories: %s\n\n", strings.Join(tax.Expense, ", "))
}
