package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a custom registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("tui"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names carry the namespace and subsystem", func() {
				manager.RecordSubmission("accepted")
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				So(families[0].GetName(), ShouldStartWith, "test_tui_")
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(WithNamespace(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "sportsmind")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When answers and auto-advances are recorded", func() {
			manager.RecordAnswer("player")
			manager.RecordAnswer("player")
			manager.RecordAnswer("coach")
			manager.RecordAutoAdvance(AutoAdvanceFired)
			manager.RecordAutoAdvance(AutoAdvanceCancelled)
			manager.RecordAutoAdvance(AutoAdvanceCancelled)

			Convey("Then the counters reflect each label", func() {
				So(testutil.ToFloat64(manager.answersRecorded.WithLabelValues("player")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.answersRecorded.WithLabelValues("coach")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.autoAdvance.WithLabelValues(AutoAdvanceCancelled)), ShouldEqual, 2)
			})
		})

		Convey("When LLM and HTTP requests are recorded", func() {
			manager.RecordLLMRequest("anthropic", "insight", false)
			manager.RecordHTTPRequest("/api/v1/tests/submit", "POST", 422, 12)

			Convey("Then the labels are stringified", func() {
				So(testutil.ToFloat64(manager.llmRequests.WithLabelValues("anthropic", "insight", "false")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.httpRequests.WithLabelValues("/api/v1/tests/submit", "POST", "422")), ShouldEqual, 1)
			})
		})
	})
}

func TestManagerDisabled(t *testing.T) {
	Convey("Given a disabled manager", t, func() {
		manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording", func() {
			manager.RecordSubmission("accepted")
			manager.RecordSectionCompleted("self_esteem")

			Convey("Then nothing is counted", func() {
				So(testutil.ToFloat64(manager.submissions.WithLabelValues("accepted")), ShouldEqual, 0)
				So(testutil.ToFloat64(manager.sectionsDone.WithLabelValues("self_esteem")), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalHandler(t *testing.T) {
	Convey("Given the global manager", t, func() {
		RecordSubmission("rejected")
		RecordSubmissionLatency(42)

		Convey("When scraping the handler", func() {
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

			Convey("Then application and runtime metrics are exposed", func() {
				body := rec.Body.String()
				So(rec.Code, ShouldEqual, 200)
				So(strings.Contains(body, `sportsmind_submissions_total{outcome="rejected"}`), ShouldBeTrue)
				So(strings.Contains(body, "go_goroutines"), ShouldBeTrue)
			})
		})
	})
}
