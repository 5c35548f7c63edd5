package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/knowsim/internal/config"
	"github.com/nvandessel/knowsim/internal/experiment"
	"github.com/nvandessel/knowsim/internal/logging"
	"github.com/nvandessel/knowsim/internal/results"
)

// openRunner builds the experiment runner shared by run and sweep:
// SQLite store in the results directory, stderr logging, and tick tracing
// when the log level asks for it.
func openRunner(cmd *cobra.Command, cfg *config.Config) (*experiment.Runner, results.ResultStore, func(), error) {
	resultsDir, _ := cmd.Flags().GetString("results")

	store, err := results.NewSQLiteStore(resultsDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open result store: %w", err)
	}

	log := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	ticks := logging.NewTickLogger(resultsDir, cfg.Logging.Level)

	cleanup := func() {
		ticks.Close()
		store.Close()
	}
	return experiment.NewRunner(store, log, ticks), store, cleanup, nil
}

// loadConfig loads the experiment config, applies command-line overrides,
// and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("ticks") {
		cfg.Ticks, _ = cmd.Flags().GetInt("ticks")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("agents") {
		n, _ := cmd.Flags().GetInt("agents")
		for i := range cfg.Cohorts {
			cfg.Cohorts[i].Agents = n
		}
	}
	if cmd.Flags().Changed("facts") {
		n, _ := cmd.Flags().GetInt("facts")
		for i := range cfg.Cohorts {
			cfg.Cohorts[i].Facts = n
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured cohorts once and store the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			runner, _, cleanup, err := openRunner(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			runs, err := runner.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(runs)
			}

			for _, run := range runs {
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s  cohort=%s agents=%d facts=%d seed=%d final_rate=%.3f\n",
					run.ID, run.Cohort, run.Agents, run.Facts, run.Seed, run.FinalRate())
			}
			return nil
		},
	}

	cmd.Flags().String("config", "", "Experiment config file (YAML)")
	cmd.Flags().Int("ticks", 0, "Override tick count")
	cmd.Flags().Uint64("seed", 0, "Override base seed")
	cmd.Flags().Int("agents", 0, "Override population size for every cohort")
	cmd.Flags().Int("facts", 0, "Override fact-space size for every cohort")
	return cmd
}
