package main

import (
	"os"

	"fjacquet/finance-assistant/cmd/add"
	"fjacquet/finance-assistant/cmd/advice"
	"fjacquet/finance-assistant/cmd/budget"
	"fjacquet/finance-assistant/cmd/chat"
	del "fjacquet/finance-assistant/cmd/delete"
	"fjacquet/finance-assistant/cmd/export"
	"fjacquet/finance-assistant/cmd/gold"
	"fjacquet/finance-assistant/cmd/list"
	"fjacquet/finance-assistant/cmd/root"
	"fjacquet/finance-assistant/cmd/scan"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(chat.Cmd)
	root.Cmd.AddCommand(add.Cmd)
	root.Cmd.AddCommand(list.Cmd)
	root.Cmd.AddCommand(del.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(advice.Cmd)
	root.Cmd.AddCommand(scan.Cmd)
	root.Cmd.AddCommand(gold.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
