package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:     "ask <message...>",
	Short:   "Ask the dashboard assistant a question",
	GroupID: "actions",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := riskClient.Ask(context.Background(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("asking assistant: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{"content": content})
		}
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	},
}
