package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/subnetlab/paretoboard/pkg/metrics"
)

func TestManagerRegistration(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		_ = metrics.NewManager(
			metrics.WithPrometheusRegistry(reg),
			metrics.WithNamespace("pbtest"),
			metrics.WithSubsystem("core"),
		)

		Convey("Then the domain metrics are registered under the namespace", func() {
			families, err := reg.Gather()
			So(err, ShouldBeNil)

			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			joined := strings.Join(names, ",")
			// Counters and histograms without observations do not gather;
			// check a couple of gauges that register eagerly.
			So(joined, ShouldContainSubstring, "pbtest_core")
		})

		Convey("Then a second manager on another registry does not collide", func() {
			So(func() {
				_ = metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
			}, ShouldNotPanic)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through the package helpers", func() {
			So(func() {
				metrics.RecordRefresh()
				metrics.RecordRefreshSkipped()
				metrics.RecordRefreshDuration(12.5)
				metrics.RecordInsufficientPayload()
				metrics.RecordUpstreamFetch("success")
				metrics.RecordUpstreamFetch("error")
				metrics.RecordUpstreamFallback()
				metrics.UpdateSnapshotAge(3.5)
				metrics.UpdateViewGeneration(2)
				metrics.UpdateWinnerCount(255)
				metrics.UpdateMinerCount(64)
				metrics.RecordSubsetsPerRun(255)
				metrics.RecordHTTPRequest("winners", "GET", "200")
				metrics.RecordHTTPRequestDuration("winners", "GET", "200", 1.25)
				metrics.RecordErrorByEndpoint("summary", "GET", "client_error")
				metrics.UpdateSystemMemoryUsage(1 << 20)
				metrics.UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})

		Convey("Then gauges reflect the last written value", func() {
			metrics.UpdateWinnerCount(7)
			count, err := testutil.GatherAndCount(metrics.GetRegistry())
			So(err, ShouldBeNil)
			So(count, ShouldBeGreaterThan, 0)
		})
	})
}
