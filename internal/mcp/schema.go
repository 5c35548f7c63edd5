package mcp

import (
	"github.com/nvandessel/knowsim/internal/experiment"
)

// PolicyInput carries optional behavior-rate overrides. Unset fields fall
// back to the default cooperative policy.
type PolicyInput struct {
	ForgetRate          *float64 `json:"forget_rate,omitempty" jsonschema:"Per-tick probability of forgetting one known fact (0.0-1.0)"`
	SocialiseRate       *float64 `json:"socialise_rate,omitempty" jsonschema:"Probability of asking a free colleague (0.0-1.0)"`
	QueryRate           *float64 `json:"database_query_rate,omitempty" jsonschema:"Probability of querying the shared store (0.0-1.0)"`
	WriteRate           *float64 `json:"database_write_rate,omitempty" jsonschema:"Probability of writing to the shared store (0.0-1.0)"`
	ContributionSuccess *float64 `json:"contribution_success_rate,omitempty" jsonschema:"Probability that a store write lands (0.0-1.0)"`
}

// RunInput defines the input for the knowsim_run tool.
type RunInput struct {
	Agents int          `json:"agents,omitempty" jsonschema:"Population size (default 50)"`
	Facts  int          `json:"facts,omitempty" jsonschema:"Fact-space size (default 100)"`
	Ticks  int          `json:"ticks,omitempty" jsonschema:"Number of simulation ticks (default 200)"`
	Seed   uint64       `json:"seed,omitempty" jsonschema:"Random seed (default 1); the same seed reproduces the run exactly"`
	Policy *PolicyInput `json:"policy,omitempty" jsonschema:"Behavior-rate overrides"`
}

// RunOutput defines the output for the knowsim_run tool.
type RunOutput struct {
	RunID     string    `json:"run_id" jsonschema:"ID of the stored run"`
	Ticks     int       `json:"ticks" jsonschema:"Number of ticks simulated"`
	FinalRate float64   `json:"final_rate" jsonschema:"Success rate of the last tick"`
	Rates     []float64 `json:"rates" jsonschema:"Per-tick success-rate series"`
}

// SweepInput defines the input for the knowsim_sweep tool.
type SweepInput struct {
	Agents  []int        `json:"agents" jsonschema:"Population sizes to sweep"`
	Facts   []int        `json:"facts" jsonschema:"Fact-space sizes to sweep"`
	Repeats int          `json:"repeats,omitempty" jsonschema:"Independently seeded runs per grid point (default 3)"`
	Ticks   int          `json:"ticks,omitempty" jsonschema:"Number of simulation ticks per run (default 200)"`
	Seed    uint64       `json:"seed,omitempty" jsonschema:"Base random seed (default 1)"`
	Workers int          `json:"workers,omitempty" jsonschema:"Concurrent runs (default 4)"`
	Policy  *PolicyInput `json:"policy,omitempty" jsonschema:"Behavior-rate overrides"`
}

// SweepOutput defines the output for the knowsim_sweep tool.
type SweepOutput struct {
	Points    []experiment.Summary `json:"points" jsonschema:"Aggregated results per grid point"`
	TotalRuns int                  `json:"total_runs" jsonschema:"Number of runs executed"`
}

// ResultsInput defines the input for the knowsim_results tool.
type ResultsInput struct {
	RunID string `json:"run_id,omitempty" jsonschema:"Return this run with its full tick series; omit to list all runs"`
}

// RunListItem provides a list view of a stored run.
type RunListItem struct {
	RunID     string  `json:"run_id"`
	Cohort    string  `json:"cohort"`
	Agents    int     `json:"agents"`
	Facts     int     `json:"facts"`
	Ticks     int     `json:"ticks"`
	Seed      uint64  `json:"seed"`
	FinalRate float64 `json:"final_rate"`
	CreatedAt string  `json:"created_at"`
}

// ResultsOutput defines the output for the knowsim_results tool.
type ResultsOutput struct {
	Runs  []RunListItem `json:"runs,omitempty" jsonschema:"Stored runs, newest first"`
	Run   *RunOutput    `json:"run,omitempty" jsonschema:"The requested run with its series"`
	Count int           `json:"count" jsonschema:"Number of runs returned"`
}
