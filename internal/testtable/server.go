package testtable

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/subnetlab/paretoboard/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 5 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 2 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// tablePayload is the wire shape the analytics service polls.
type tablePayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Run generates a synthetic, slowly drifting miner score table and serves
// it until ctx is cancelled. The same table is exposed on /api/table and
// /api/table2 so a consumer's fallback path can be pointed at the second
// route.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get()

	gen := newGenerator(cfg)

	var mu sync.RWMutex
	cols, rows := gen.payload()
	current := tablePayload{Columns: cols, Rows: rows}

	serve := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		mu.RLock()
		payload := current
		mu.RUnlock()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(payload)
		if cfg.Verbose {
			log.Debug(r.Context(), "served table",
				logger.String("path", r.URL.Path),
				logger.Int("rows", len(payload.Rows)))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/table", serve)
	mux.HandleFunc("/api/table2", serve)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Drift scores on a ticker so refreshes see changing fingerprints.
	go func() {
		if cfg.MutateInterval <= 0 {
			return
		}
		ticker := time.NewTicker(cfg.MutateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				gen.mutate()
				cols, rows := gen.payload()
				mu.Lock()
				current = tablePayload{Columns: cols, Rows: rows}
				mu.Unlock()
				if cfg.Verbose {
					log.Debug(ctx, "mutated table")
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving synthetic table",
			logger.String("addr", cfg.Addr),
			logger.Int("miners", cfg.Miners),
			logger.Int("environments", len(gen.envs)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
