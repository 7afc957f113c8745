package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/subnetlab/paretoboard/internal/testtable"
	"github.com/subnetlab/paretoboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultAddr   = ":9100"
	defaultMiners = 48
	defaultMutate = 20 * time.Second
)

func main() {
	var (
		addr    = flag.String("addr", defaultAddr, "HTTP listen address")
		miners  = flag.Int("miners", defaultMiners, "Number of miner rows to generate")
		envs    = flag.String("envs", strings.Join(testtable.DefaultEnvironments, ","), "Comma-separated environment columns")
		mutate  = flag.Duration("mutate", defaultMutate, "Score drift interval; 0 disables mutation")
		seed    = flag.Int64("seed", 0, "Deterministic seed; 0 picks a random one")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testtable.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &testtable.Config{
		Addr:           *addr,
		Miners:         *miners,
		Environments:   splitEnvs(*envs),
		MutateInterval: *mutate,
		Seed:           *seed,
		Verbose:        *verbose,
	}

	if err := testtable.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("table server failed: " + err.Error() + "\n")
	}
}

func splitEnvs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
