// Package constants provides named constants used throughout the knowsim codebase.
// This centralizes magic numbers for better maintainability and documentation.
package constants

// Fact distribution constants.
const (
	// BetaAlpha is the alpha shape parameter of the fact-frequency distribution.
	// Values below 1 concentrate mass near zero, making low-numbered facts common.
	BetaAlpha = 0.8

	// BetaBeta is the beta shape parameter of the fact-frequency distribution.
	// Together with BetaAlpha it skews the distribution so high-numbered facts
	// are rare and expensive to find through independent research.
	BetaBeta = 2.0
)

// Default simulation parameters.
const (
	// DefaultAgents is the default cohort population size.
	DefaultAgents = 50

	// DefaultFacts is the default fact-space size.
	DefaultFacts = 100

	// DefaultTicks is the default number of simulation ticks per run.
	DefaultTicks = 200

	// DefaultSeed is the default random seed for reproducible runs.
	DefaultSeed = 1
)

// Default policy rates. The socialise, query and write rates must sum to
// strictly less than 1 so independent research is always reachable.
const (
	// DefaultForgetRate is the per-tick probability of losing one known fact.
	DefaultForgetRate = 0.05

	// DefaultSocialiseRate is the probability threshold for asking a colleague.
	DefaultSocialiseRate = 0.2

	// DefaultQueryRate is the probability threshold for reading the shared store.
	DefaultQueryRate = 0.1

	// DefaultWriteRate is the probability threshold for writing to the shared store.
	DefaultWriteRate = 0.1

	// DefaultContributionSuccessRate is the probability that a shared-store
	// write actually lands.
	DefaultContributionSuccessRate = 0.8
)

// Sweep harness constants.
const (
	// DefaultRepeats is the number of independently seeded repeats per sweep point.
	DefaultRepeats = 3

	// DefaultSweepWorkers bounds how many runs execute concurrently during a sweep.
	DefaultSweepWorkers = 4
)
