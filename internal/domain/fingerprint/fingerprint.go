// Package fingerprint hashes table payloads and remembers recently seen
// digests. The digest of the published view decides whether a refresh is
// skipped; the tracker only observes recurrence, surfacing upstreams that
// flap between tables.
package fingerprint

import (
	"context"
	"encoding/binary"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"
)

// Default cache bounds. Snapshots arrive every few seconds; the cache
// only needs to span the window in which upstream can realistically
// repeat itself.
const (
	defaultCapacity = 1024
	defaultTTL      = 30 * time.Minute
)

// Tracker records seen payload digests.
type Tracker interface {
	// SeenAndRecord checks whether the digest was seen within the TTL
	// window and records it. Returns true when it was already seen.
	// Recurrence is informational only; it must not gate a refresh,
	// since an earlier table coming back is new content relative to
	// the currently published view.
	SeenAndRecord(ctx context.Context, digest uint64) bool

	// Size returns the number of tracked digests.
	Size() int

	// Close stops background expiration.
	Close()
}

// Option applies a configuration option to the cache tracker.
type Option func(*cacheTracker)

// WithCapacity bounds the number of digests kept.
func WithCapacity(n int) Option {
	return func(t *cacheTracker) {
		if n > 0 {
			t.capacity = uint64(n)
		}
	}
}

// WithTTL sets how long a digest stays recorded.
func WithTTL(d time.Duration) Option {
	return func(t *cacheTracker) {
		if d > 0 {
			t.ttl = d
		}
	}
}

// cacheTracker implements Tracker on a TTL'd, capacity-bounded cache.
type cacheTracker struct {
	capacity uint64
	ttl      time.Duration
	cache    *ttlcache.Cache[uint64, struct{}]
}

// NewTracker creates a tracker with configuration options.
func NewTracker(opts ...Option) Tracker {
	t := &cacheTracker{
		capacity: defaultCapacity,
		ttl:      defaultTTL,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.cache = ttlcache.New[uint64, struct{}](
		ttlcache.WithTTL[uint64, struct{}](t.ttl),
		ttlcache.WithCapacity[uint64, struct{}](t.capacity),
	)
	go t.cache.Start()

	return t
}

func (t *cacheTracker) SeenAndRecord(_ context.Context, digest uint64) bool {
	if t.cache.Has(digest) {
		return true
	}
	t.cache.Set(digest, struct{}{}, ttlcache.DefaultTTL)
	return false
}

func (t *cacheTracker) Size() int { return t.cache.Len() }

func (t *cacheTracker) Close() { t.cache.Stop() }

// Digest hashes a table payload: column names and every cell's rendered
// form, with length framing so reordered content cannot collide by
// concatenation.
func Digest(columns []string, rows [][]any) uint64 {
	h := xxhash.New()
	var frame [8]byte

	writeStr := func(s string) {
		binary.LittleEndian.PutUint64(frame[:], uint64(len(s)))
		_, _ = h.Write(frame[:])
		_, _ = h.WriteString(s)
	}

	binary.LittleEndian.PutUint64(frame[:], uint64(len(columns)))
	_, _ = h.Write(frame[:])
	for _, c := range columns {
		writeStr(c)
	}
	for _, row := range rows {
		binary.LittleEndian.PutUint64(frame[:], uint64(len(row)))
		_, _ = h.Write(frame[:])
		for _, cell := range row {
			writeStr(cellToken(cell))
		}
	}
	return h.Sum64()
}

// cellToken renders a cell for hashing; the tag prefix keeps "1" (string)
// and 1 (number) distinct.
func cellToken(cell any) string {
	switch v := cell.(type) {
	case nil:
		return "n:"
	case string:
		return "s:" + v
	case float64:
		// strconv's shortest form is stable for equal values.
		return "f:" + strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		if v {
			return "b:1"
		}
		return "b:0"
	default:
		return "x:"
	}
}
