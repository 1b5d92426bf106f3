package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/riskboard/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show the main risk dashboard",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := riskClient.Dashboard(context.Background())
		if err != nil {
			return fmt.Errorf("fetching dashboard: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), snap)
		}
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderDashboard(snap, ui.TerminalWidth(80)))
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}
