package socket

import (
	"sort"
	"sync"
	"time"
)

// Samples needed before a rate is reported.
const minRateSamples = 5

// rateTracker keeps (bytes, elapsed) samples from completed scans and reports
// the median throughput over a rolling window. Scans too small to time
// reliably are ignored.
type rateTracker struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	samples []rateSample
}

type rateSample struct {
	ts          time.Time
	bytesPerSec float64
}

func newRateTracker(window time.Duration) *rateTracker {
	return &rateTracker{window: window, now: time.Now}
}

// record adds one scan. Inputs under 1 KiB or faster than a microsecond
// carry mostly call overhead and are skipped.
func (r *rateTracker) record(bytes int, elapsed time.Duration) {
	if bytes < 1024 || elapsed < time.Microsecond {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.samples = append(r.samples, rateSample{ts: now, bytesPerSec: float64(bytes) / elapsed.Seconds()})
	r.evict(now)
}

// median returns the P50 throughput in MiB/s, or 0 with too few samples.
func (r *rateTracker) median() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evict(r.now())
	if len(r.samples) < minRateSamples {
		return 0
	}
	rates := make([]float64, len(r.samples))
	for i, s := range r.samples {
		rates[i] = s.bytesPerSec
	}
	sort.Float64s(rates)
	return rates[len(rates)/2] / (1 << 20)
}

// evict drops samples older than the window. Caller holds mu.
func (r *rateTracker) evict(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.samples) && r.samples[i].ts.Before(cutoff) {
		i++
	}
	if i > 0 {
		r.samples = r.samples[i:]
	}
}
