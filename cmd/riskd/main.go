package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/riskboard/internal/client"
)

var (
	serverAddr string
	httpURL    string
	transport  string
	jsonOutput bool
	authToken  string
	remoteName string

	riskClient client.RiskClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("RISK_HTTP_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func defaultServer() string {
	if s := os.Getenv("RISK_SERVER"); s != "" {
		return s
	}
	return "localhost:9090"
}

var rootCmd = &cobra.Command{
	Use:          "riskd <command>",
	Short:        "Manufacturing risk dashboard server and client",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyRemote(cmd); err != nil {
			return err
		}
		switch transport {
		case "http":
			riskClient = client.NewHTTPClient(httpURL, authToken)
		case "grpc":
			c, err := client.NewGRPCClient(serverAddr)
			if err != nil {
				return fmt.Errorf("failed to connect to server: %w", err)
			}
			riskClient = c
		default:
			return fmt.Errorf("unknown transport %q (must be http or grpc)", transport)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if riskClient != nil {
			riskClient.Close()
		}
	},
}

// applyRemote fills connection flags from the selected remote (--remote, or
// the active one) unless they were set explicitly.
func applyRemote(cmd *cobra.Command) error {
	r, ok, err := selectedRemote(remoteName)
	if err != nil || !ok {
		return err
	}
	flags := cmd.Flags()
	if r.URL != "" && !flags.Changed("http-url") && os.Getenv("RISK_HTTP_URL") == "" {
		httpURL = r.URL
	}
	if r.GRPCAddr != "" && !flags.Changed("server") && os.Getenv("RISK_SERVER") == "" {
		serverAddr = r.GRPCAddr
	}
	if r.Token != "" && !flags.Changed("token") && os.Getenv("RISK_TOKEN") == "" {
		authToken = r.Token
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "http", "transport protocol (http or grpc)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("RISK_TOKEN"), "bearer token for admin routes")
	rootCmd.PersistentFlags().StringVar(&remoteName, "remote", "", "named remote to use instead of the active one")

	rootCmd.AddGroup(
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "actions", Title: "Actions:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(helpFunc())

	// Views
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(eventsCmd)

	// Actions
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(exportCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
