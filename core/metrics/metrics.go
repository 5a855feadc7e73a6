package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives sync events from the orchestrator and the media syncer.
type Recorder interface {
	RecordPass(season string, outcome string, duration time.Duration)
	RecordBlockWrites(block string, inserts, updates int)
	RecordMediaResolved(source string, count int)
	RecordMediaDeferred(source string)
}

// Pass outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Collector is the Prometheus backed Recorder.
type Collector struct {
	passes        *prometheus.CounterVec
	passDuration  *prometheus.HistogramVec
	blockWrites   *prometheus.CounterVec
	mediaResolved *prometheus.CounterVec
	mediaDeferred *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "natsumin_sync_passes_total",
			Help: "Sync passes by season and outcome.",
		}, []string{"season", "outcome"}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "natsumin_sync_pass_duration_seconds",
			Help:    "Wall time of completed sync passes.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"season"}),
		blockWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "natsumin_block_writes_total",
			Help: "Rows written by block procedures.",
		}, []string{"block", "kind"}),
		mediaResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "natsumin_media_resolved_total",
			Help: "Media ids resolved against external services.",
		}, []string{"source"}),
		mediaDeferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "natsumin_media_deferred_total",
			Help: "Media batches deferred because of rate limiting.",
		}, []string{"source"}),
	}

	reg.MustRegister(c.passes, c.passDuration, c.blockWrites, c.mediaResolved, c.mediaDeferred)
	return c
}

// RecordPass counts a pass and observes its duration when it ran.
func (c *Collector) RecordPass(season string, outcome string, duration time.Duration) {
	c.passes.WithLabelValues(season, outcome).Inc()
	if outcome != OutcomeSkipped {
		c.passDuration.WithLabelValues(season).Observe(duration.Seconds())
	}
}

func (c *Collector) RecordBlockWrites(block string, inserts, updates int) {
	if inserts > 0 {
		c.blockWrites.WithLabelValues(block, "insert").Add(float64(inserts))
	}
	if updates > 0 {
		c.blockWrites.WithLabelValues(block, "update").Add(float64(updates))
	}
}

func (c *Collector) RecordMediaResolved(source string, count int) {
	c.mediaResolved.WithLabelValues(source).Add(float64(count))
}

func (c *Collector) RecordMediaDeferred(source string) {
	c.mediaDeferred.WithLabelValues(source).Inc()
}

// Nop discards every event.
type Nop struct{}

func (Nop) RecordPass(string, string, time.Duration) {}
func (Nop) RecordBlockWrites(string, int, int)      {}
func (Nop) RecordMediaResolved(string, int)         {}
func (Nop) RecordMediaDeferred(string)              {}

// Handler serves the gathered metrics in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
