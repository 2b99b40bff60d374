package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	tests := []struct {
		name   string
		metric interface{}
	}{
		{"EdgeRecomputes", m.EdgeRecomputes},
		{"EdgePathsRebuilt", m.EdgePathsRebuilt},
		{"FramesDeferred", m.FramesDeferred},
		{"HistorySnapshots", m.HistorySnapshots},
		{"HistoryRestores", m.HistoryRestores},
		{"GraphEdits", m.GraphEdits},
		{"Interactions", m.Interactions},
		{"GraphLoads", m.GraphLoads},
		{"DroppedReferences", m.DroppedReferences},
		{"CyclesDetected", m.CyclesDetected},
		{"StatusUpdates", m.StatusUpdates},
		{"Errors", m.Errors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestRecomputeMetrics(t *testing.T) {
	_, m := NewRegistry()

	m.RecordRecompute(ScopePartial, 2)
	m.RecordRecompute(ScopePartial, 3)
	m.RecordRecompute(ScopeFull, 10)

	if got := testutil.ToFloat64(m.EdgeRecomputes.WithLabelValues(ScopePartial)); got != 2 {
		t.Errorf("EdgeRecomputes partial = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EdgeRecomputes.WithLabelValues(ScopeFull)); got != 1 {
		t.Errorf("EdgeRecomputes full = %v, want 1", got)
	}
}

func TestEditAndHistoryMetrics(t *testing.T) {
	_, m := NewRegistry()

	m.RecordEdit("add_node")
	m.RecordEdit("move_node")
	m.RecordRestore("undo")

	if got := testutil.ToFloat64(m.HistorySnapshots); got != 2 {
		t.Errorf("HistorySnapshots = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.GraphEdits.WithLabelValues("add_node")); got != 1 {
		t.Errorf("GraphEdits add_node = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HistoryRestores.WithLabelValues("undo")); got != 1 {
		t.Errorf("HistoryRestores undo = %v, want 1", got)
	}
}

func TestLoadMetrics(t *testing.T) {
	_, m := NewRegistry()

	m.RecordLoad(1, 2, 0, 3)
	m.RecordCycle()
	m.RecordStatusUpdate(true)
	m.RecordStatusUpdate(false)

	if got := testutil.ToFloat64(m.GraphLoads); got != 1 {
		t.Errorf("GraphLoads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DroppedReferences.WithLabelValues("dangling_dependency")); got != 2 {
		t.Errorf("DroppedReferences dangling = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.DroppedReferences.WithLabelValues("invalid_node")); got != 3 {
		t.Errorf("DroppedReferences invalid = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.CyclesDetected); got != 1 {
		t.Errorf("CyclesDetected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.StatusUpdates.WithLabelValues("false")); got != 1 {
		t.Errorf("StatusUpdates false = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	m.RecordRecompute(ScopeFull, 1)
	m.RecordEdit("add_node")
	m.RecordRestore("redo")
	m.RecordInteraction("dragging_node", "committed")
	m.RecordStatusUpdate(true)
	m.RecordLoad(0, 0, 0, 0)
	m.RecordCycle()
	m.RecordFrameDeferred()
	m.RecordError("PLAN-001")
}

func TestHandlerFor(t *testing.T) {
	reg, m := NewRegistry()
	m.RecordInteraction("panning_canvas", "released")
	m.RecordError("IO-001")

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %v, want %v", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, want := range []string{"flowcanvas_interactions_total", "flowcanvas_errors_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("response missing %s", want)
		}
	}
}
