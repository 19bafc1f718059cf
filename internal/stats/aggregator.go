// Package stats aggregates per-session submission statistics in memory:
// acceptance and rejection totals, rejections by reason, submissions by
// category, and content-length percentiles.
package stats

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// SessionStats is a point-in-time copy of the aggregator's state.
type SessionStats struct {
	Accepted              int64            `json:"accepted"`
	Rejected              int64            `json:"rejected"`
	RejectionsByReason    map[string]int64 `json:"rejections_by_reason"`
	SubmissionsByCategory map[string]int64 `json:"submissions_by_category"`
	AvgContentLength      float64          `json:"avg_content_length"`
	P50ContentLength      int              `json:"p50_content_length"`
	P95ContentLength      int              `json:"p95_content_length"`
	P99ContentLength      int              `json:"p99_content_length"`
	SubmissionsPerMinute  float64          `json:"submissions_per_minute"`
}

// Aggregator is safe for concurrent use.
type Aggregator struct {
	mu             sync.RWMutex
	accepted       atomic.Int64
	rejected       atomic.Int64
	contentLengths []int
	byCategory     map[string]int64
	byReason       map[string]int64
	startTime      time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		contentLengths: make([]int, 0, 1024),
		byCategory:     make(map[string]int64),
		byReason:       make(map[string]int64),
		startTime:      time.Now(),
	}
}

// RecordAccepted tracks one successful submission.
func (a *Aggregator) RecordAccepted(category string, contentLength int) {
	a.accepted.Add(1)

	a.mu.Lock()
	a.contentLengths = append(a.contentLengths, contentLength)
	a.byCategory[category]++
	a.mu.Unlock()
}

// RecordRejected tracks one gate failure by reason.
func (a *Aggregator) RecordRejected(reason string) {
	a.rejected.Add(1)

	a.mu.Lock()
	a.byReason[reason]++
	a.mu.Unlock()
}

// Snapshot returns a copy of the current session statistics.
func (a *Aggregator) Snapshot() SessionStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot := SessionStats{
		Accepted:              a.accepted.Load(),
		Rejected:              a.rejected.Load(),
		RejectionsByReason:    make(map[string]int64, len(a.byReason)),
		SubmissionsByCategory: make(map[string]int64, len(a.byCategory)),
	}
	for reason, count := range a.byReason {
		snapshot.RejectionsByReason[reason] = count
	}
	for category, count := range a.byCategory {
		snapshot.SubmissionsByCategory[category] = count
	}

	if len(a.contentLengths) > 0 {
		sorted := make([]int, len(a.contentLengths))
		copy(sorted, a.contentLengths)
		sort.Ints(sorted)

		var sum int
		for _, l := range sorted {
			sum += l
		}
		snapshot.AvgContentLength = float64(sum) / float64(len(sorted))
		snapshot.P50ContentLength = percentile(sorted, 50)
		snapshot.P95ContentLength = percentile(sorted, 95)
		snapshot.P99ContentLength = percentile(sorted, 99)
	}

	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		snapshot.SubmissionsPerMinute = float64(snapshot.Accepted) / elapsed
	}

	return snapshot
}

func percentile(sorted []int, pct int) int {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
