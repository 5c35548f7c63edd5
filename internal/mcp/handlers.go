package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/knowsim/internal/config"
	"github.com/nvandessel/knowsim/internal/constants"
)

// registerTools registers all knowsim MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "knowsim_run",
		Description: "Run one knowledge-dynamics simulation and return its per-tick success-rate series",
	}, s.handleRun)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "knowsim_sweep",
		Description: "Run a parameter sweep over population and fact-space sizes and return per-point summaries",
	}, s.handleSweep)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "knowsim_results",
		Description: "List stored simulation runs, or fetch one run with its full tick series",
	}, s.handleResults)
}

// applyPolicy builds a cohort policy config from optional overrides.
func applyPolicy(in *PolicyInput) config.PolicyConfig {
	p := config.PolicyConfig{
		ForgetRate:          constants.DefaultForgetRate,
		SocialiseRate:       constants.DefaultSocialiseRate,
		QueryRate:           constants.DefaultQueryRate,
		WriteRate:           constants.DefaultWriteRate,
		ContributionSuccess: constants.DefaultContributionSuccessRate,
	}
	if in == nil {
		return p
	}
	if in.ForgetRate != nil {
		p.ForgetRate = *in.ForgetRate
	}
	if in.SocialiseRate != nil {
		p.SocialiseRate = *in.SocialiseRate
	}
	if in.QueryRate != nil {
		p.QueryRate = *in.QueryRate
	}
	if in.WriteRate != nil {
		p.WriteRate = *in.WriteRate
	}
	if in.ContributionSuccess != nil {
		p.ContributionSuccess = *in.ContributionSuccess
	}
	return p
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func (s *Server) handleRun(ctx context.Context, req *sdk.CallToolRequest, args RunInput) (*sdk.CallToolResult, RunOutput, error) {
	seed := args.Seed
	if seed == 0 {
		seed = constants.DefaultSeed
	}

	cfg := &config.Config{
		Ticks: orDefault(args.Ticks, constants.DefaultTicks),
		Seed:  seed,
		Cohorts: []config.CohortConfig{{
			Name:   "mcp",
			Agents: orDefault(args.Agents, constants.DefaultAgents),
			Facts:  orDefault(args.Facts, constants.DefaultFacts),
			Policy: applyPolicy(args.Policy),
		}},
	}

	runs, err := s.runner.Run(ctx, cfg)
	if err != nil {
		return nil, RunOutput{}, err
	}

	run := runs[0]
	return nil, RunOutput{
		RunID:     run.ID,
		Ticks:     run.Ticks,
		FinalRate: run.FinalRate(),
		Rates:     run.Rates,
	}, nil
}

func (s *Server) handleSweep(ctx context.Context, req *sdk.CallToolRequest, args SweepInput) (*sdk.CallToolResult, SweepOutput, error) {
	if len(args.Agents) == 0 || len(args.Facts) == 0 {
		return nil, SweepOutput{}, fmt.Errorf("agents and facts must each list at least one value")
	}

	seed := args.Seed
	if seed == 0 {
		seed = constants.DefaultSeed
	}

	cfg := &config.Config{
		Ticks: orDefault(args.Ticks, constants.DefaultTicks),
		Seed:  seed,
		Cohorts: []config.CohortConfig{{
			Name:   "sweep",
			Agents: constants.DefaultAgents,
			Facts:  constants.DefaultFacts,
			Policy: applyPolicy(args.Policy),
		}},
		Sweep: &config.SweepConfig{
			Agents:  args.Agents,
			Facts:   args.Facts,
			Repeats: orDefault(args.Repeats, constants.DefaultRepeats),
			Workers: args.Workers,
		},
	}

	points, err := s.runner.Sweep(ctx, cfg)
	if err != nil {
		return nil, SweepOutput{}, err
	}

	total := 0
	for _, p := range points {
		total += p.Repeats
	}

	return nil, SweepOutput{Points: points, TotalRuns: total}, nil
}

func (s *Server) handleResults(ctx context.Context, req *sdk.CallToolRequest, args ResultsInput) (*sdk.CallToolResult, ResultsOutput, error) {
	if args.RunID != "" {
		run, err := s.store.GetRun(ctx, args.RunID)
		if err != nil {
			return nil, ResultsOutput{}, err
		}
		if run == nil {
			return nil, ResultsOutput{}, fmt.Errorf("run not found: %s", args.RunID)
		}
		return nil, ResultsOutput{
			Run: &RunOutput{
				RunID:     run.ID,
				Ticks:     run.Ticks,
				FinalRate: run.FinalRate(),
				Rates:     run.Rates,
			},
			Count: 1,
		}, nil
	}

	runs, err := s.store.ListRuns(ctx)
	if err != nil {
		return nil, ResultsOutput{}, err
	}

	items := make([]RunListItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, RunListItem{
			RunID:     run.ID,
			Cohort:    run.Cohort,
			Agents:    run.Agents,
			Facts:     run.Facts,
			Ticks:     run.Ticks,
			Seed:      run.Seed,
			FinalRate: run.FinalRate(),
			CreatedAt: run.CreatedAt.Format(time.RFC3339),
		})
	}

	return nil, ResultsOutput{Runs: items, Count: len(items)}, nil
}
