package testtable

import "time"

// Config holds configuration for the synthetic table server.
type Config struct {
	Addr           string        // HTTP listen address
	Miners         int           // Number of miner rows to generate
	Environments   []string      // Environment column names
	MutateInterval time.Duration // How often scores drift
	Seed           int64         // Optional deterministic seed (0 = random)
	Verbose        bool          // Enable verbose logging
}

// Performance profile cases. Each miner is assigned one at generation
// time and keeps it across mutations.
const (
	caseElitePerformer = iota
	caseStrongPerformer
	caseAveragePerformer
	caseWeakPerformer
	caseSparsePerformer
	profileCount
)

// Score generation ranges per profile.
const (
	eliteMin    = 85.0
	eliteRange  = 13.0
	strongMin   = 70.0
	strongRange = 15.0
	avgMin      = 40.0
	avgRange    = 30.0
	weakMin     = 5.0
	weakRange   = 35.0
)

// Cell decoration odds out of decorationDivisor.
const (
	decorationDivisor = 100
	starOdds          = 25 // "81.9*"
	ratioOdds         = 15 // "64/100"
	absentOdds        = 10 // empty cell
)
