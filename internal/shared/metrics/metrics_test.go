package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{1, 10, 100})
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	var cumulative uint64
	want := []uint64{1, 2, 3}
	for i := range snap.buckets {
		cumulative += snap.counts[i]
		if cumulative != want[i] {
			t.Fatalf("bucket %v: expected cumulative %d, got %d", snap.buckets[i], want[i], cumulative)
		}
	}
	if snap.count != 4 {
		t.Fatalf("expected count 4, got %d", snap.count)
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	IncRecommendationQueries()
	out := Render()
	for _, name := range []string{
		"recommendation_queries_total",
		"recommendations_saved_total",
		"feedback_recorded_total",
		"recommendation_query_duration_ms_bucket",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}
