package metrics

import (
	"testing"
)

// BenchmarkRecordRecompute benchmarks the per-frame recompute bookkeeping
func BenchmarkRecordRecompute(b *testing.B) {
	_, m := NewRegistry()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		m.RecordRecompute(ScopePartial, 3)
	}
}

// BenchmarkRecordEdit benchmarks edit counters
func BenchmarkRecordEdit(b *testing.B) {
	_, m := NewRegistry()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		m.RecordEdit("move_node")
	}
}
