package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/riskboard/internal/config"
)

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Load the seed fixture into an empty store",
	GroupID: "system",
	// Talks to the database directly.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path := cfg.SeedFile
		if f, _ := cmd.Flags().GetString("file"); f != "" {
			path = f
		}

		st, err := openStore(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		return runSeed(context.Background(), st, path, logger)
	},
}

func init() {
	seedCmd.Flags().String("file", "", "YAML fixture to load instead of the built-in one")
}
