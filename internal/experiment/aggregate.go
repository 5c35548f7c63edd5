package experiment

import (
	"sort"

	"github.com/nvandessel/knowsim/internal/results"
)

// Summary aggregates the repeats of one sweep grid point.
type Summary struct {
	Cohort  string  `json:"cohort"`
	Agents  int     `json:"agents"`
	Facts   int     `json:"facts"`
	Repeats int     `json:"repeats"`

	// Final success rates across repeats.
	MeanFinalRate float64 `json:"mean_final_rate"`
	MinFinalRate  float64 `json:"min_final_rate"`
	MaxFinalRate  float64 `json:"max_final_rate"`

	RunIDs []string `json:"run_ids"`
}

type pointKey struct {
	cohort string
	agents int
	facts  int
}

// Aggregate groups runs by (cohort, agents, facts) and summarizes the final
// success rate of each group. Output is sorted by cohort, then agents, then
// facts, for stable reporting.
func Aggregate(runs []results.Run) []Summary {
	groups := make(map[pointKey][]results.Run)
	for _, run := range runs {
		key := pointKey{run.Cohort, run.Agents, run.Facts}
		groups[key] = append(groups[key], run)
	}

	summaries := make([]Summary, 0, len(groups))
	for key, group := range groups {
		s := Summary{
			Cohort:  key.cohort,
			Agents:  key.agents,
			Facts:   key.facts,
			Repeats: len(group),
		}

		sum := 0.0
		s.MinFinalRate = group[0].FinalRate()
		s.MaxFinalRate = group[0].FinalRate()
		for _, run := range group {
			final := run.FinalRate()
			sum += final
			if final < s.MinFinalRate {
				s.MinFinalRate = final
			}
			if final > s.MaxFinalRate {
				s.MaxFinalRate = final
			}
			s.RunIDs = append(s.RunIDs, run.ID)
		}
		s.MeanFinalRate = sum / float64(len(group))
		sort.Strings(s.RunIDs)

		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Cohort != summaries[j].Cohort {
			return summaries[i].Cohort < summaries[j].Cohort
		}
		if summaries[i].Agents != summaries[j].Agents {
			return summaries[i].Agents < summaries[j].Agents
		}
		return summaries[i].Facts < summaries[j].Facts
	})
	return summaries
}
