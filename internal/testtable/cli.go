package testtable

import "os"

// ShowHelp prints usage information for the synthetic table server.
func ShowHelp() {
	os.Stdout.WriteString(`Synthetic Score Table Server
============================

Serves a generated miner score table for exercising the analytics
service's polling, fingerprinting, and dominance pipeline without a live
upstream.

Usage:
  go run cmd/test-table/main.go [options]

Options:
  -addr string
        HTTP listen address (default ":9100")
  -miners int
        Number of miner rows to generate (default 48)
  -envs string
        Comma-separated environment columns (default "SAT,ABD,DED,ELR,HVM")
  -mutate duration
        Score drift interval; 0 disables mutation (default 20s)
  -seed int
        Deterministic seed; 0 picks a random one
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Serve defaults on :9100
  go run cmd/test-table/main.go

  # A small deterministic table that never changes
  go run cmd/test-table/main.go -miners 8 -seed 42 -mutate 0

  # Eight environments, fast drift
  go run cmd/test-table/main.go -envs SAT,ABD,DED,ELR,HVM,L1,L2,L3 -mutate 5s
`)
}
