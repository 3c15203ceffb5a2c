package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "a2t"

// Collectors holds the batch and upload metrics on a dedicated registry.
type Collectors struct {
	registry *prometheus.Registry

	batchItems           *prometheus.CounterVec
	transcriptionSeconds *prometheus.HistogramVec
	uploadRequests       *prometheus.CounterVec
}

// New registers all collectors, plus the Go runtime and process collectors.
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Batch items processed, by outcome (succeeded or failure kind).",
		}, []string{"outcome"}),
		transcriptionSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_seconds",
			Help:      "Wall-clock time of one normalize and transcribe attempt.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"source"}),
		uploadRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_requests_total",
			Help:      "Upload requests, by HTTP status.",
		}, []string{"status"}),
	}

	c.registry.MustRegister(
		c.batchItems,
		c.transcriptionSeconds,
		c.uploadRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ItemProcessed records one batch item.
func (c *Collectors) ItemProcessed(outcome string, duration time.Duration) {
	c.batchItems.WithLabelValues(outcome).Inc()
	if duration > 0 {
		c.transcriptionSeconds.WithLabelValues("batch").Observe(duration.Seconds())
	}
}

// UploadHandled records one upload request.
func (c *Collectors) UploadHandled(status int, duration time.Duration) {
	c.uploadRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	if duration > 0 {
		c.transcriptionSeconds.WithLabelValues("upload").Observe(duration.Seconds())
	}
}

// Registry exposes the registry, for tests and extra collectors.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
