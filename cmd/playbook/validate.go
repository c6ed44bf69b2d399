package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aegis-response/playbook/internal/graph"
)

var validateCmd = &cobra.Command{
	Use:   "validate <procedure.yaml>",
	Short: "Check a procedure file without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  validateProcedure,
}

func validateProcedure(cmd *cobra.Command, args []string) error {
	g, err := graph.ParseFile(args[0])
	if err != nil {
		return err
	}
	if err := reportIssues(g); err != nil {
		return err
	}

	color.Green("Procedure %q is valid: %d steps, %d connections.",
		g.Name, len(g.Nodes), len(g.Connections))
	return nil
}
