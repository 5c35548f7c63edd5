package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/knowsim/internal/config"
	"github.com/nvandessel/knowsim/internal/constants"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a parameter sweep over population and fact-space sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("agents-grid") || cmd.Flags().Changed("facts-grid") {
				agents, _ := cmd.Flags().GetIntSlice("agents-grid")
				facts, _ := cmd.Flags().GetIntSlice("facts-grid")
				repeats, _ := cmd.Flags().GetInt("repeats")
				workers, _ := cmd.Flags().GetInt("workers")
				cfg.Sweep = &config.SweepConfig{
					Agents:  agents,
					Facts:   facts,
					Repeats: repeats,
					Workers: workers,
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if cfg.Sweep == nil {
				return fmt.Errorf("no sweep defined: use --agents-grid/--facts-grid or a config file with a sweep section")
			}

			runner, _, cleanup, err := openRunner(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			summaries, err := runner.Sweep(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summaries)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %7s %7s %8s %8s %8s\n",
				"cohort", "agents", "facts", "mean", "min", "max")
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %7d %7d %8.3f %8.3f %8.3f\n",
					s.Cohort, s.Agents, s.Facts, s.MeanFinalRate, s.MinFinalRate, s.MaxFinalRate)
			}
			return nil
		},
	}

	cmd.Flags().String("config", "", "Experiment config file (YAML)")
	cmd.Flags().Int("ticks", 0, "Override tick count")
	cmd.Flags().Uint64("seed", 0, "Override base seed")
	cmd.Flags().IntSlice("agents-grid", nil, "Population sizes to sweep (e.g. 10,50,100)")
	cmd.Flags().IntSlice("facts-grid", nil, "Fact-space sizes to sweep (e.g. 50,100)")
	cmd.Flags().Int("repeats", constants.DefaultRepeats, "Runs per grid point")
	cmd.Flags().Int("workers", constants.DefaultSweepWorkers, "Concurrent runs")
	return cmd
}
