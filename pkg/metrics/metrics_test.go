package metrics_test

import (
	"testing"

	"github.com/okian/runelens/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording metrics through package helpers", func() {
			So(func() {
				metrics.RecordFetch("mapping")
				metrics.RecordFetchError("latest")
				metrics.RecordFetchDuration("hiscores", 120.5)
				metrics.RecordFeedDecoded()
				metrics.RecordDecodeFailure()
				metrics.RecordRecordSkipped()
				metrics.RecordEnriched(42)
				metrics.RecordUnknownItem()
				metrics.RecordHistoryPoints(7)
				metrics.RecordArtifactWritten("json")
				metrics.UpdateQueueSize(3)
				metrics.UpdateQueueCapacity(100)
				metrics.RecordQueueEnqueueError()
				metrics.UpdateWorkerActiveCount(4)
				metrics.RecordWorkerError()
				metrics.RecordHTTPRequest("player", "GET", "200")
				metrics.RecordHTTPRequestDuration("player", "GET", "200", 8.2)
			}, ShouldNotPanic)
		})

		Convey("When reading the registry", func() {
			reg := metrics.GetRegistry()

			Convey("Then it should gather the recorded families", func() {
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)

				names := make(map[string]bool)
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["runelens_fetch_total"], ShouldBeTrue)
				So(names["runelens_hiscore_feeds_decoded_total"], ShouldBeTrue)
				So(names["runelens_price_records_enriched_total"], ShouldBeTrue)
			})
		})
	})

	Convey("Given a manager on an isolated registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("unit"),
			metrics.WithRegistry(reg),
		)

		Convey("Then construction should succeed", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			// Vec collectors are lazy; only plain counters and gauges show up.
			So(families, ShouldNotBeNil)
		})
	})
}
