package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/riskboard/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Live dashboard that refreshes on an interval",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			return fmt.Errorf("--interval must be positive")
		}
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		p := tea.NewProgram(ui.NewWatchModel(riskClient.Dashboard, interval), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "refresh interval")
}
