package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	. "github.com/smartystreets/goconvey/convey"
	upstream "github.com/subnetlab/paretoboard/internal/adapters/upstream"
	model "github.com/subnetlab/paretoboard/internal/domain/model"
)

const tableJSON = `{"columns":["UID","Model","SAT","ABD"],"rows":[[1,"alpha",80.5,"60/100"]]}`

func TestClientFetch(t *testing.T) {
	Convey("Given upstream endpoints", t, func() {
		ctx := context.Background()

		Convey("When the primary answers", func() {
			primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tableJSON))
			}))
			defer primary.Close()

			c := upstream.NewClient(primary.URL)
			payload, err := c.Fetch(ctx)

			Convey("Then the payload decodes", func() {
				So(err, ShouldBeNil)
				So(payload.Columns, ShouldResemble, []string{"UID", "Model", "SAT", "ABD"})
				So(len(payload.Rows), ShouldEqual, 1)
			})
		})

		Convey("When the primary fails and a fallback exists", func() {
			primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer primary.Close()
			fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tableJSON))
			}))
			defer fallback.Close()

			c := upstream.NewClient(primary.URL, upstream.WithFallbackURL(fallback.URL))
			payload, err := c.Fetch(ctx)

			Convey("Then the fallback serves the table", func() {
				So(err, ShouldBeNil)
				So(len(payload.Rows), ShouldEqual, 1)
			})
		})

		Convey("When both endpoints fail", func() {
			bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer bad.Close()

			c := upstream.NewClient(bad.URL, upstream.WithFallbackURL(bad.URL))
			_, err := c.Fetch(ctx)

			Convey("Then the error carries the fetch sentinel", func() {
				So(errors.Is(err, upstream.ErrFetch), ShouldBeTrue)
				So(errors.Is(err, upstream.ErrStatus), ShouldBeTrue)
			})
		})

		Convey("When the body is not valid JSON", func() {
			garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>nope</html>"))
			}))
			defer garbled.Close()

			c := upstream.NewClient(garbled.URL)
			_, err := c.Fetch(ctx)

			Convey("Then decode failure is reported, not a panic", func() {
				So(errors.Is(err, upstream.ErrDecode), ShouldBeTrue)
			})
		})
	})
}

func TestPoller(t *testing.T) {
	Convey("Given a poller on a fake clock", t, func() {
		var fetches atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fetches.Add(1)
			_, _ = w.Write([]byte(tableJSON))
		}))
		defer srv.Close()

		clock := clockwork.NewFakeClock()

		var mu sync.Mutex
		var delivered []model.TablePayload
		sink := func(_ context.Context, _ time.Time, p model.TablePayload) {
			mu.Lock()
			delivered = append(delivered, p)
			mu.Unlock()
		}

		p := upstream.NewPoller(
			upstream.NewClient(srv.URL),
			sink,
			upstream.WithClock(clock),
			upstream.WithInterval(10*time.Second),
		)

		Convey("When started", func() {
			p.Start(context.Background())
			defer p.Stop()

			Convey("Then the first fetch happens immediately", func() {
				So(waitFor(func() bool { return fetches.Load() == 1 }), ShouldBeTrue)
				mu.Lock()
				n := len(delivered)
				mu.Unlock()
				So(n, ShouldEqual, 1)
				So(p.LastError(), ShouldBeNil)
			})

			Convey("Then each tick triggers another fetch", func() {
				So(waitFor(func() bool { return fetches.Load() == 1 }), ShouldBeTrue)
				clock.Advance(10 * time.Second)
				So(waitFor(func() bool { return fetches.Load() == 2 }), ShouldBeTrue)
				clock.Advance(10 * time.Second)
				So(waitFor(func() bool { return fetches.Load() == 3 }), ShouldBeTrue)
			})

			Convey("Then Kick polls without waiting for the tick", func() {
				So(waitFor(func() bool { return fetches.Load() == 1 }), ShouldBeTrue)
				p.Kick()
				So(waitFor(func() bool { return fetches.Load() == 2 }), ShouldBeTrue)
			})
		})

		Convey("When stopped", func() {
			p.Start(context.Background())
			So(waitFor(func() bool { return fetches.Load() == 1 }), ShouldBeTrue)
			p.Stop()
			before := fetches.Load()

			Convey("Then no further fetches happen", func() {
				clock.Advance(time.Minute)
				time.Sleep(50 * time.Millisecond)
				So(fetches.Load(), ShouldEqual, before)
			})

			Convey("Then Stop twice and Kick after Stop are safe", func() {
				So(p.Stop, ShouldNotPanic)
				So(p.Kick, ShouldNotPanic)
			})
		})

		Convey("When the upstream keeps failing", func() {
			failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer failing.Close()

			fp := upstream.NewPoller(
				upstream.NewClient(failing.URL),
				sink,
				upstream.WithClock(clock),
				upstream.WithInterval(10*time.Second),
			)
			fp.Start(context.Background())
			defer fp.Stop()

			Convey("Then the sink never fires and the error is retained", func() {
				So(waitFor(func() bool { return fp.LastError() != nil }), ShouldBeTrue)
				mu.Lock()
				n := len(delivered)
				mu.Unlock()
				So(n, ShouldEqual, 0)
				So(errors.Is(fp.LastError(), upstream.ErrFetch), ShouldBeTrue)
			})
		})
	})
}

// waitFor polls a condition for up to two seconds of real time.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
