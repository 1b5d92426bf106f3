package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Run a snapshot export on the server now",
	GroupID: "actions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := riskClient.TriggerExport(context.Background())
		if res != nil {
			if jsonOutput {
				if perr := printJSON(cmd.OutOrStdout(), res); perr != nil {
					return perr
				}
			} else if perr := printExportResult(cmd.OutOrStdout(), res); perr != nil {
				return perr
			}
		}
		if err != nil {
			return fmt.Errorf("triggering export: %w", err)
		}
		return nil
	},
}
