// Package metrics exposes Prometheus collectors for persistence, preview and export.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "resume_builder"

var (
	snapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "writes_total",
			Help:      "Snapshot writes by result.",
		},
		[]string{"result"},
	)

	saveRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "save_requests_total",
			Help:      "Save calls before debouncing.",
		},
	)

	persistenceDegraded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "degraded",
			Help:      "1 while the last snapshot write failed.",
		},
	)

	snapshotsDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "snapshots_discarded_total",
			Help:      "Stored snapshots dropped on load because they could not be migrated or decoded.",
		},
	)

	previewRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preview",
			Name:      "renders_total",
			Help:      "Preview renders by template.",
		},
		[]string{"template"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "requests_total",
			Help:      "Export requests by template and result.",
		},
		[]string{"template", "result"},
	)

	exportsCoalescedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "coalesced_total",
			Help:      "Export requests that joined an export already in flight.",
		},
	)

	exportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Export latency by format.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	exportPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "pages",
			Help:      "Pages per exported document.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8},
		},
	)
)

// SaveRequested counts one call to the debounced save
func SaveRequested() {
	saveRequestsTotal.Inc()
}

// SnapshotWritten records the outcome of one durable write
func SnapshotWritten(err error) {
	if err != nil {
		snapshotWritesTotal.WithLabelValues("error").Inc()
		persistenceDegraded.Set(1)
		return
	}
	snapshotWritesTotal.WithLabelValues("ok").Inc()
	persistenceDegraded.Set(0)
}

// SnapshotDiscarded counts a snapshot dropped on load
func SnapshotDiscarded() {
	snapshotsDiscardedTotal.Inc()
}

// PreviewRendered counts one preview render
func PreviewRendered(template string) {
	previewRendersTotal.WithLabelValues(template).Inc()
}

// ExportFinished records one export outcome
func ExportFinished(template string, pages int, err error) {
	if err != nil {
		exportsTotal.WithLabelValues(template, "error").Inc()
		return
	}
	exportsTotal.WithLabelValues(template, "ok").Inc()
	exportPages.Observe(float64(pages))
}

// ExportCoalesced counts a request that shared an in-flight export
func ExportCoalesced() {
	exportsCoalescedTotal.Inc()
}

// ObserveEncode records how long encoding took for a format
func ObserveEncode(format string, started time.Time) {
	exportDuration.WithLabelValues(format).Observe(time.Since(started).Seconds())
}
