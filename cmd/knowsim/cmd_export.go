package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/knowsim/internal/results"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored runs as CSV or Arrow IPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			resultsDir, _ := cmd.Flags().GetString("results")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			runID, _ := cmd.Flags().GetString("run")

			store, err := results.NewSQLiteStore(resultsDir)
			if err != nil {
				return fmt.Errorf("open result store: %w", err)
			}
			defer store.Close()

			var runs []results.Run
			if runID != "" {
				run, err := store.GetRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run not found: %s", runID)
				}
				runs = []results.Run{*run}
			} else {
				runs, err = store.ListRuns(cmd.Context())
				if err != nil {
					return err
				}
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				return results.WriteCSV(w, runs)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			case "arrow":
				if output == "" {
					return fmt.Errorf("arrow format requires --output (binary data)")
				}
				return results.WriteArrow(w, runs)
			default:
				return fmt.Errorf("unknown format: %s (valid: csv, json, arrow)", format)
			}
		},
	}

	cmd.Flags().String("format", "csv", "Export format: csv, json, or arrow")
	cmd.Flags().String("output", "", "Output file (default stdout for csv)")
	cmd.Flags().String("run", "", "Export only this run")
	return cmd
}
