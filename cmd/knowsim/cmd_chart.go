package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/knowsim/internal/factspace"
	"github.com/nvandessel/knowsim/internal/results"
	"github.com/nvandessel/knowsim/internal/visualization"
)

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render stored runs as an SVG line chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			resultsDir, _ := cmd.Flags().GetString("results")
			output, _ := cmd.Flags().GetString("output")
			runID, _ := cmd.Flags().GetString("run")
			nFreq, _ := cmd.Flags().GetInt("frequencies")

			if nFreq > 0 {
				sampler, err := factspace.NewSampler(nFreq, rand.NewPCG(1, 1))
				if err != nil {
					return err
				}
				svg := visualization.RenderFrequencyChart(sampler.Frequencies())
				if output == "" {
					fmt.Fprint(cmd.OutOrStdout(), svg)
					return nil
				}
				return os.WriteFile(output, []byte(svg), 0644)
			}

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

			svg := visualization.RenderRateChart(runs)
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), svg)
				return nil
			}
			return os.WriteFile(output, []byte(svg), 0644)
		},
	}

	cmd.Flags().String("output", "", "Output file (default stdout)")
	cmd.Flags().String("run", "", "Chart only this run")
	cmd.Flags().Int("frequencies", 0, "Render the sampling distribution for a fact space of this size instead of run series")
	return cmd
}
