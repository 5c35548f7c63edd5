// Package config provides unified configuration loading for knowsim.
// It supports loading experiment definitions from YAML files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/knowsim/internal/constants"
	"github.com/nvandessel/knowsim/internal/sim"
)

// Config describes a complete experiment: one or more cohorts run over the
// same tick budget, plus an optional sweep grid.
type Config struct {
	// Ticks is the number of simulation ticks per run.
	Ticks int `json:"ticks" yaml:"ticks"`

	// Seed fixes the base random seed. Each cohort and sweep run derives its
	// own seed from it, so one value reproduces the whole experiment.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Cohorts are the agent populations to simulate.
	Cohorts []CohortConfig `json:"cohorts" yaml:"cohorts"`

	// Sweep optionally defines a parameter grid run over every cohort policy.
	Sweep *SweepConfig `json:"sweep,omitempty" yaml:"sweep,omitempty"`

	// Logging contains settings for operational and tick-trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig configures knowsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables tick tracing to .knowsim/ticks.jsonl.
	Level string `json:"level" yaml:"level"`
}

// CohortConfig describes one agent population.
type CohortConfig struct {
	// Name identifies the cohort in results and reports.
	Name string `json:"name" yaml:"name"`

	// Agents is the population size.
	Agents int `json:"agents" yaml:"agents"`

	// Facts is the fact-space size.
	Facts int `json:"facts" yaml:"facts"`

	// SharedStore names a knowledge-base instance. Cohorts naming the same
	// store share one instance, modeling a shared organization; an empty
	// name gives the cohort a private store.
	SharedStore string `json:"shared_store,omitempty" yaml:"shared_store,omitempty"`

	// Policy holds the cohort's behavior rates.
	Policy PolicyConfig `json:"policy" yaml:"policy"`
}

// PolicyConfig mirrors sim.Policy in configuration form.
type PolicyConfig struct {
	ForgetRate          float64 `json:"forget_rate" yaml:"forget_rate"`
	SocialiseRate       float64 `json:"socialise_rate" yaml:"socialise_rate"`
	QueryRate           float64 `json:"database_query_rate" yaml:"database_query_rate"`
	WriteRate           float64 `json:"database_write_rate" yaml:"database_write_rate"`
	ContributionSuccess float64 `json:"contribution_success_rate" yaml:"contribution_success_rate"`
}

// ToPolicy converts the configuration form to the engine's Policy.
func (p PolicyConfig) ToPolicy() sim.Policy {
	return sim.Policy{
		ForgetRate:          p.ForgetRate,
		SocialiseRate:       p.SocialiseRate,
		QueryRate:           p.QueryRate,
		WriteRate:           p.WriteRate,
		ContributionSuccess: p.ContributionSuccess,
	}
}

// SweepConfig defines the experiment-sweep grid: every combination of
// population size and fact-space size, repeated with derived seeds.
type SweepConfig struct {
	// Agents lists the population sizes to sweep.
	Agents []int `json:"agents" yaml:"agents"`

	// Facts lists the fact-space sizes to sweep.
	Facts []int `json:"facts" yaml:"facts"`

	// Repeats is the number of independently seeded runs per grid point.
	Repeats int `json:"repeats" yaml:"repeats"`

	// Workers bounds how many runs execute concurrently. Runs share no
	// state, so parallelism here never touches the engine's determinism.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Default returns a Config with a single default cohort.
func Default() *Config {
	return &Config{
		Ticks: constants.DefaultTicks,
		Seed:  constants.DefaultSeed,
		Cohorts: []CohortConfig{
			{
				Name:   "baseline",
				Agents: constants.DefaultAgents,
				Facts:  constants.DefaultFacts,
				Policy: PolicyConfig{
					ForgetRate:          constants.DefaultForgetRate,
					SocialiseRate:       constants.DefaultSocialiseRate,
					QueryRate:           constants.DefaultQueryRate,
					WriteRate:           constants.DefaultWriteRate,
					ContributionSuccess: constants.DefaultContributionSuccessRate,
				},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the given file (when path is non-empty) and
// applies environment variable overrides on top.
// Order: defaults -> file -> environment variables.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid. It fails fast: an invalid
// combination never starts a run.
func (c *Config) Validate() error {
	if c.Ticks < 1 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	if len(c.Cohorts) == 0 {
		return fmt.Errorf("at least one cohort is required")
	}

	names := make(map[string]bool, len(c.Cohorts))
	for i, cohort := range c.Cohorts {
		if cohort.Name == "" {
			return fmt.Errorf("cohort %d: name is required", i)
		}
		if names[cohort.Name] {
			return fmt.Errorf("duplicate cohort name: %s", cohort.Name)
		}
		names[cohort.Name] = true

		if cohort.Agents < 1 {
			return fmt.Errorf("cohort %s: agents must be positive, got %d", cohort.Name, cohort.Agents)
		}
		if cohort.Facts < 1 {
			return fmt.Errorf("cohort %s: facts must be positive, got %d", cohort.Name, cohort.Facts)
		}
		if err := cohort.Policy.ToPolicy().Validate(); err != nil {
			return fmt.Errorf("cohort %s: %w", cohort.Name, err)
		}
	}

	if c.Sweep != nil {
		if len(c.Sweep.Agents) == 0 || len(c.Sweep.Facts) == 0 {
			return fmt.Errorf("sweep requires at least one agents value and one facts value")
		}
		for _, n := range c.Sweep.Agents {
			if n < 1 {
				return fmt.Errorf("sweep agents values must be positive, got %d", n)
			}
		}
		for _, n := range c.Sweep.Facts {
			if n < 1 {
				return fmt.Errorf("sweep facts values must be positive, got %d", n)
			}
		}
		if c.Sweep.Repeats < 1 {
			return fmt.Errorf("sweep repeats must be positive, got %d", c.Sweep.Repeats)
		}
		if c.Sweep.Workers < 0 {
			return fmt.Errorf("sweep workers must be non-negative, got %d", c.Sweep.Workers)
		}
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("KNOWSIM_TICKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Ticks = n
		}
	}

	if v := os.Getenv("KNOWSIM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Seed = n
		}
	}

	if v := os.Getenv("KNOWSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
