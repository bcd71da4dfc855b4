// Package metrics collects and exposes Prometheus metrics for the
// ingestion pipeline and the API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records pipeline and API metrics.
type Collector struct {
	ingestSuccess    *prometheus.CounterVec
	ingestFail       *prometheus.CounterVec
	imagesLocalized  prometheus.Counter
	imagesSkipped    prometheus.Counter
	imagesFailed     prometheus.Counter
	siteBuilds       prometheus.Counter
	siteBuildLatency prometheus.Histogram
	httpStatus       *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ingestSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repub_ingest_success_total",
			Help: "Successful ingestions by adapter (web or pdf).",
		}, []string{"adapter"}),
		ingestFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repub_ingest_fail_total",
			Help: "Failed ingestions by adapter (web or pdf).",
		}, []string{"adapter"}),
		imagesLocalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repub_images_localized_total",
			Help: "Images downloaded and stored under the media root.",
		}),
		imagesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repub_images_skipped_total",
			Help: "Image downloads skipped because the asset already existed.",
		}),
		imagesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repub_images_failed_total",
			Help: "Image downloads that degraded to the remote reference.",
		}),
		siteBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repub_site_builds_total",
			Help: "Static site rebuilds.",
		}),
		siteBuildLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "repub_site_build_latency_seconds",
			Help:    "Static site rebuild latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repub_http_status_total",
			Help: "API responses by HTTP status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.ingestSuccess,
		c.ingestFail,
		c.imagesLocalized,
		c.imagesSkipped,
		c.imagesFailed,
		c.siteBuilds,
		c.siteBuildLatency,
		c.httpStatus,
	)

	return c
}

// RecordIngest records the outcome of one ingestion call.
func (c *Collector) RecordIngest(adapter string, err error) {
	if err != nil {
		c.ingestFail.WithLabelValues(adapter).Inc()
		return
	}
	c.ingestSuccess.WithLabelValues(adapter).Inc()
}

// RecordLocalization records the per-image outcome counts of one
// localization pass.
func (c *Collector) RecordLocalization(downloaded, skipped, failed int) {
	c.imagesLocalized.Add(float64(downloaded))
	c.imagesSkipped.Add(float64(skipped))
	c.imagesFailed.Add(float64(failed))
}

// RecordSiteBuild records one site rebuild and its latency.
func (c *Collector) RecordSiteBuild(duration time.Duration) {
	c.siteBuilds.Inc()
	c.siteBuildLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus records an API response status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
