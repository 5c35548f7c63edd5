package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/knowsim/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Start a Model Context Protocol server exposing knowsim_run,
knowsim_sweep, and knowsim_results tools. Intended to be launched by an
MCP client; communicates over stdin/stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resultsDir, _ := cmd.Flags().GetString("results")

			server, err := mcp.NewServer(&mcp.Config{
				Name:       "knowsim",
				Version:    version,
				ResultsDir: resultsDir,
			})
			if err != nil {
				return fmt.Errorf("create MCP server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}
}
