package upstream

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/subnetlab/paretoboard/internal/domain/model"
	"github.com/subnetlab/paretoboard/pkg/logger"
)

// Sink receives each successfully fetched payload with its fetch time.
type Sink func(ctx context.Context, fetchedAt time.Time, payload model.TablePayload)

// Poller owns the refresh cycle: fetch, hand off to the sink, sleep. It
// has an explicit Start/Stop lifecycle and an injected clock so tests
// drive the ticks. Results arriving after Stop are discarded.
type Poller struct {
	mu       sync.Mutex
	client   *Client
	sink     Sink
	interval time.Duration
	clock    clockwork.Clock
	log      logger.Logger

	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	kickCh  chan struct{}

	lastErr     error
	lastAttempt time.Time
}

// PollerOption applies a configuration option to the Poller.
type PollerOption func(*Poller)

// WithClock injects the clock; tests pass a fake.
func WithClock(c clockwork.Clock) PollerOption {
	return func(p *Poller) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithInterval sets the poll cadence.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets a custom logger for the poller.
func WithLogger(l logger.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPoller creates a stopped poller.
func NewPoller(client *Client, sink Sink, opts ...PollerOption) *Poller {
	p := &Poller{
		client:   client,
		sink:     sink,
		interval: 15 * time.Second,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the poll loop. The first fetch happens immediately.
// Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.kickCh = make(chan struct{}, 1)
	go p.loop(ctx, p.stopCh, p.doneCh, p.kickCh)
}

// Stop halts the loop and waits for it to exit. An in-flight fetch
// completes but its result is dropped.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	close(p.stopCh)
	done := p.doneCh
	p.mu.Unlock()
	<-done
}

// Kick requests an immediate poll without waiting for the next tick.
// Used by the manual-retry surface.
func (p *Poller) Kick() {
	p.mu.Lock()
	kick := p.kickCh
	started := p.started
	p.mu.Unlock()
	if !started {
		return
	}
	select {
	case kick <- struct{}{}:
	default: // a poll is already pending
	}
}

// LastError returns the most recent fetch error, nil after a success.
func (p *Poller) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// LastAttempt returns when the poller last tried to fetch.
func (p *Poller) LastAttempt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAttempt
}

func (p *Poller) loop(ctx context.Context, stopCh, doneCh chan struct{}, kickCh chan struct{}) {
	defer close(doneCh)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx, stopCh)
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-kickCh:
			p.pollOnce(ctx, stopCh)
		case <-ticker.Chan():
			p.pollOnce(ctx, stopCh)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context, stopCh chan struct{}) {
	now := p.clock.Now()
	payload, err := p.client.Fetch(ctx)

	p.mu.Lock()
	p.lastAttempt = now
	p.lastErr = err
	p.mu.Unlock()

	if err != nil {
		if p.log != nil {
			p.log.Warn(ctx, "upstream fetch failed", logger.Error(err))
		}
		return
	}

	// A stop racing the fetch drops the result rather than publishing a
	// view nobody asked for.
	select {
	case <-stopCh:
		return
	default:
	}

	p.sink(ctx, now, payload)
}
