package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	queriesTotal       atomic.Uint64
	queriesFailedTotal atomic.Uint64
	savedTotal         atomic.Uint64
	saveFailedTotal    atomic.Uint64
	feedbackTotal      atomic.Uint64

	queryDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncRecommendationQueries increments the query counter.
func IncRecommendationQueries() {
	queriesTotal.Add(1)
}

// IncRecommendationQueriesFailed increments the failed query counter.
func IncRecommendationQueriesFailed() {
	queriesFailedTotal.Add(1)
}

// IncRecommendationsSaved increments the saved recommendation counter.
func IncRecommendationsSaved() {
	savedTotal.Add(1)
}

// IncRecommendationSaveFailed increments the failed save counter.
func IncRecommendationSaveFailed() {
	saveFailedTotal.Add(1)
}

// IncFeedbackRecorded increments the feedback counter.
func IncFeedbackRecorded() {
	feedbackTotal.Add(1)
}

// ObserveQueryDurationMs records a recommendation query duration in milliseconds.
func ObserveQueryDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	queryDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "recommendation_queries_total", "Total recommendation queries", queriesTotal.Load())
	writeCounter(&buf, "recommendation_queries_failed_total", "Total recommendation queries that failed", queriesFailedTotal.Load())
	writeCounter(&buf, "recommendations_saved_total", "Total recommendations persisted", savedTotal.Load())
	writeCounter(&buf, "recommendation_save_failed_total", "Total recommendation saves that failed", saveFailedTotal.Load())
	writeCounter(&buf, "feedback_recorded_total", "Total feedback entries recorded", feedbackTotal.Load())
	writeHistogram(&buf, "recommendation_query_duration_ms", "Recommendation query duration in milliseconds", queryDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value into the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
