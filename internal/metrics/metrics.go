package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recompute scopes
const (
	ScopePartial = "partial"
	ScopeFull    = "full"
)

// Metrics holds all Prometheus metrics for flowcanvas
type Metrics struct {
	// Edge path metrics
	EdgeRecomputes   *prometheus.CounterVec
	EdgePathsRebuilt *prometheus.HistogramVec
	FramesDeferred   prometheus.Counter

	// History metrics
	HistorySnapshots prometheus.Counter
	HistoryRestores  *prometheus.CounterVec

	// Edit metrics
	GraphEdits   *prometheus.CounterVec
	Interactions *prometheus.CounterVec

	// Load and telemetry metrics
	GraphLoads        prometheus.Counter
	DroppedReferences *prometheus.CounterVec
	CyclesDetected    prometheus.Counter
	StatusUpdates     *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		// Edge path metrics
		EdgeRecomputes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_edge_recomputes_total",
				Help: "Total number of edge path recompute passes",
			},
			[]string{"scope"},
		),
		EdgePathsRebuilt: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowcanvas_edge_paths_rebuilt",
				Help:    "Number of edge paths rebuilt per recompute pass",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
			},
			[]string{"scope"},
		),
		FramesDeferred: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowcanvas_frames_deferred_total",
				Help: "Total number of drag frames deferred by the recompute throttle",
			},
		),

		// History metrics
		HistorySnapshots: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowcanvas_history_snapshots_total",
				Help: "Total number of snapshots recorded before user edits",
			},
		),
		HistoryRestores: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_history_restores_total",
				Help: "Total number of undo and redo restores",
			},
			[]string{"direction"},
		),

		// Edit metrics
		GraphEdits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_graph_edits_total",
				Help: "Total number of committed user edits",
			},
			[]string{"op"},
		),
		Interactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_interactions_total",
				Help: "Total number of finished pointer interactions",
			},
			[]string{"state", "outcome"},
		),

		// Load and telemetry metrics
		GraphLoads: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowcanvas_graph_loads_total",
				Help: "Total number of bulk graph loads",
			},
		),
		DroppedReferences: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_dropped_references_total",
				Help: "Total number of references dropped during bulk loads",
			},
			[]string{"kind"},
		),
		CyclesDetected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowcanvas_cycles_detected_total",
				Help: "Total number of layouts that found a dependency cycle",
			},
		),
		StatusUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_status_updates_total",
				Help: "Total number of node status updates received",
			},
			[]string{"applied"},
		),

		// Error metrics
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code"},
		),
	}
}

// RecordRecompute records one recompute pass of the given scope
func (m *Metrics) RecordRecompute(scope string, rebuilt int) {
	if m == nil {
		return
	}
	m.EdgeRecomputes.WithLabelValues(scope).Inc()
	m.EdgePathsRebuilt.WithLabelValues(scope).Observe(float64(rebuilt))
}

// RecordEdit records a committed edit and the snapshot taken for it
func (m *Metrics) RecordEdit(op string) {
	if m == nil {
		return
	}
	m.GraphEdits.WithLabelValues(op).Inc()
	m.HistorySnapshots.Inc()
}

// RecordRestore records an undo or redo
func (m *Metrics) RecordRestore(direction string) {
	if m == nil {
		return
	}
	m.HistoryRestores.WithLabelValues(direction).Inc()
}

// RecordInteraction records how a pointer interaction ended
func (m *Metrics) RecordInteraction(state, outcome string) {
	if m == nil {
		return
	}
	m.Interactions.WithLabelValues(state, outcome).Inc()
}

// RecordStatusUpdate records a status update and whether it applied
func (m *Metrics) RecordStatusUpdate(applied bool) {
	if m == nil {
		return
	}
	label := "false"
	if applied {
		label = "true"
	}
	m.StatusUpdates.WithLabelValues(label).Inc()
}

// RecordLoad records a bulk load and the references it dropped
func (m *Metrics) RecordLoad(duplicates, dangling, rejected, invalid int) {
	if m == nil {
		return
	}
	m.GraphLoads.Inc()
	m.DroppedReferences.WithLabelValues("duplicate_node").Add(float64(duplicates))
	m.DroppedReferences.WithLabelValues("dangling_dependency").Add(float64(dangling))
	m.DroppedReferences.WithLabelValues("rejected_edge").Add(float64(rejected))
	m.DroppedReferences.WithLabelValues("invalid_node").Add(float64(invalid))
}

// RecordCycle records a layout that found a cycle
func (m *Metrics) RecordCycle() {
	if m == nil {
		return
	}
	m.CyclesDetected.Inc()
}

// RecordFrameDeferred records a drag frame skipped by the throttle
func (m *Metrics) RecordFrameDeferred() {
	if m == nil {
		return
	}
	m.FramesDeferred.Inc()
}

// RecordError records an error by its code
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(code).Inc()
}
