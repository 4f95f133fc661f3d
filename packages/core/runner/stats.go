package runner

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Stats is the live progress counter set, updated after every item.
type Stats struct {
	// Total is the planned result count: iterations × selected requests.
	Total      int
	Dispatched int
	Passed     int
	Failed     int
	Elapsed    time.Duration

	// Latency percentiles over the dispatched items so far.
	P50 time.Duration
	P95 time.Duration
	P99 time.Duration
}

// newLatencyHistogram tracks 1µs..60s at 3 significant digits, matching
// dispatch latencies without overflow on timeouts.
func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, 60_000_000, 3)
}

func percentiles(h *hdrhistogram.Histogram) (p50, p95, p99 time.Duration) {
	if h.TotalCount() == 0 {
		return 0, 0, 0
	}
	p50 = time.Duration(h.ValueAtQuantile(50)) * time.Microsecond
	p95 = time.Duration(h.ValueAtQuantile(95)) * time.Microsecond
	p99 = time.Duration(h.ValueAtQuantile(99)) * time.Microsecond
	return p50, p95, p99
}
