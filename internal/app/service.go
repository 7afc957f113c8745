// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/subnetlab/paretoboard/internal/adapters/repository"
	"github.com/subnetlab/paretoboard/internal/adapters/upstream"
	"github.com/subnetlab/paretoboard/internal/domain/dominance"
	"github.com/subnetlab/paretoboard/internal/domain/fingerprint"
	"github.com/subnetlab/paretoboard/internal/domain/model"
	"github.com/subnetlab/paretoboard/internal/domain/report"
	"github.com/subnetlab/paretoboard/internal/domain/table"
	"github.com/subnetlab/paretoboard/pkg/logger"
	"github.com/subnetlab/paretoboard/pkg/metrics"
)

// Service owns the refresh pipeline and serves derived views to the API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	tracker fingerprint.Tracker
	poller  *upstream.Poller

	// Configuration
	upstreamURL   string
	fallbackURL   string
	pollInterval  time.Duration
	fetchTimeout  time.Duration
	topN          int
	defaultMetric report.Metric
	trackerSize   int
	trackerTTL    time.Duration
	clockOpts     []upstream.PollerOption

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUpstreamURL sets the primary score-table endpoint.
func WithUpstreamURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.upstreamURL = url
		}
	}
}

// WithFallbackURL sets the secondary endpoint tried on primary failure.
func WithFallbackURL(url string) Option {
	return func(s *Service) {
		s.fallbackURL = url
	}
}

// WithPollInterval sets the refresh cadence.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithFetchTimeout bounds a single upstream request.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithTopN sets the summary display cap.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithDefaultMetric sets the metric used when a request names none.
func WithDefaultMetric(m report.Metric) Option {
	return func(s *Service) {
		if m != "" {
			s.defaultMetric = m
		}
	}
}

// WithFingerprintCache sizes the seen-payload digest cache.
func WithFingerprintCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		if size > 0 {
			s.trackerSize = size
		}
		if ttl > 0 {
			s.trackerTTL = ttl
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPollerOptions appends extra poller options; tests inject a fake
// clock through this.
func WithPollerOptions(opts ...upstream.PollerOption) Option {
	return func(s *Service) {
		s.clockOpts = append(s.clockOpts, opts...)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		upstreamURL:   "http://localhost:9100/api/table",
		pollInterval:  15 * time.Second,
		fetchTimeout:  10 * time.Second,
		topN:          report.DefaultTopN,
		defaultMetric: report.MetricSum,
		trackerSize:   1024,
		trackerTTL:    30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes components and launches the poll loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analytics service...",
		logger.String("upstream", s.upstreamURL),
		logger.String("pollInterval", s.pollInterval.String()),
	)

	s.store = repository.NewMemStore()
	s.tracker = fingerprint.NewTracker(
		fingerprint.WithCapacity(s.trackerSize),
		fingerprint.WithTTL(s.trackerTTL),
	)

	client := upstream.NewClient(s.upstreamURL,
		upstream.WithFallbackURL(s.fallbackURL),
		upstream.WithTimeout(s.fetchTimeout),
	)
	pollerOpts := append([]upstream.PollerOption{
		upstream.WithInterval(s.pollInterval),
		upstream.WithLogger(s.logger),
	}, s.clockOpts...)
	s.poller = upstream.NewPoller(client, s.Refresh, pollerOpts...)
	s.poller.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analytics service started")
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping analytics service...")

	if s.poller != nil {
		s.poller.Stop()
	}
	if s.tracker != nil {
		s.tracker.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "analytics service stopped")
}

// Refresh recomputes the derived view from one table payload. It runs
// synchronously to completion: normalize, infer environments, dominance
// engine, publish. Identical payloads (by fingerprint) are skipped since
// the view is a pure function of the table.
func (s *Service) Refresh(ctx context.Context, fetchedAt time.Time, payload model.TablePayload) {
	digest := fingerprint.Digest(payload.Columns, payload.Rows)

	// Skip only when the payload matches the view currently being served.
	// A digest seen further back must still recompute: upstream reverting
	// to an earlier table is new content relative to the published view.
	if current, err := s.store.Current(ctx); err == nil && current.Digest == digest {
		metrics.RecordRefreshSkipped()
		s.logger.Debug(ctx, "payload unchanged, skipping recompute",
			logger.Any("digest", digest),
		)
		return
	}
	if s.tracker.SeenAndRecord(ctx, digest) {
		s.logger.Warn(ctx, "upstream returned a previously seen table",
			logger.Any("digest", digest),
		)
	}

	start := time.Now()

	view := &repository.View{
		FetchedAt: fetchedAt,
		Digest:    digest,
	}

	envs := table.InferEnvironments(payload.Columns)
	if len(envs) < table.MinEnvironments {
		view.Insufficient = true
		metrics.RecordInsufficientPayload()
		s.logger.Warn(ctx, "insufficient environments inferred",
			logger.Int("inferred", len(envs)),
			logger.Int("columns", len(payload.Columns)),
		)
	} else {
		view.Environments = envs
		view.Miners = table.Normalize(payload, envs)
		view.Winners = dominance.Compute(envs, view.Miners)
		metrics.RecordSubsetsPerRun((1 << len(envs)) - 1)
	}

	if err := s.store.Replace(ctx, view); err != nil {
		s.logger.Error(ctx, "failed to publish view", logger.Error(err))
		return
	}

	metrics.RecordRefresh()
	metrics.RecordRefreshDuration(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "view refreshed",
		logger.Int("miners", len(view.Miners)),
		logger.Int("environments", len(view.Environments)),
		logger.Int("winners", len(view.Winners)),
	)
}

// currentView resolves the latest view, translating the insufficient
// state into its sentinel.
func (s *Service) currentView(ctx context.Context) (*repository.View, error) {
	view, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	if view.Insufficient {
		return nil, table.ErrInsufficientEnvironments
	}
	return view, nil
}

// Environments returns the inferred environment list of the current view.
func (s *Service) Environments(ctx context.Context) ([]string, error) {
	view, err := s.currentView(ctx)
	if err != nil {
		return nil, err
	}
	return view.Environments, nil
}

// Miners returns the normalized miner records of the current view.
func (s *Service) Miners(ctx context.Context) ([]model.Miner, error) {
	view, err := s.currentView(ctx)
	if err != nil {
		return nil, err
	}
	return view.Miners, nil
}

// Winners returns the raw subset winner records of the current view.
func (s *Service) Winners(ctx context.Context) ([]dominance.Winner, error) {
	view, err := s.currentView(ctx)
	if err != nil {
		return nil, err
	}
	return view.Winners, nil
}

// Summary aggregates the current winners for one metric and cap.
// metricName "" selects the configured default; topN <= 0 selects the
// configured cap.
func (s *Service) Summary(ctx context.Context, metricName string, topN int) (report.Summary, error) {
	metric, err := s.resolveMetric(metricName)
	if err != nil {
		return report.Summary{}, err
	}
	if topN <= 0 {
		topN = s.topN
	}
	view, err := s.currentView(ctx)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Build(view.Winners, metric, topN), nil
}

// ExportCSV renders the full winner ledger for one metric.
func (s *Service) ExportCSV(ctx context.Context, metricName string) ([]byte, error) {
	metric, err := s.resolveMetric(metricName)
	if err != nil {
		return nil, err
	}
	view, err := s.currentView(ctx)
	if err != nil {
		return nil, err
	}
	return report.ExportCSV(view.Winners, metric)
}

func (s *Service) resolveMetric(name string) (report.Metric, error) {
	if name == "" {
		return s.defaultMetric, nil
	}
	return report.ParseMetric(name)
}

// TriggerRefresh requests an immediate poll; the manual retry surface.
func (s *Service) TriggerRefresh(ctx context.Context) {
	s.mu.RLock()
	p := s.poller
	s.mu.RUnlock()
	if p != nil {
		p.Kick()
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"pollInterval": s.pollInterval.String(),
		"topN":         s.topN,
		"metric":       string(s.defaultMetric),
	}

	if s.store != nil {
		stats["viewGeneration"] = s.store.Generation(ctx)
		if view, err := s.store.Current(ctx); err == nil {
			age := time.Since(view.FetchedAt)
			stats["snapshotAgeSeconds"] = age.Seconds()
			stats["miners"] = len(view.Miners)
			stats["environments"] = view.Environments
			stats["winners"] = len(view.Winners)
			stats["insufficientData"] = view.Insufficient
			metrics.UpdateSnapshotAge(age.Seconds())
		}
	}
	if s.poller != nil {
		if err := s.poller.LastError(); err != nil {
			stats["lastFetchError"] = err.Error()
		}
		if at := s.poller.LastAttempt(); !at.IsZero() {
			stats["lastFetchAttempt"] = at.UTC().Format(time.RFC3339)
		}
	}
	if s.tracker != nil {
		stats["fingerprints"] = s.tracker.Size()
	}
	return stats
}
