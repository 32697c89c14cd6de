package socket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateTracker_NeedsSamples(t *testing.T) {
	r := newRateTracker(time.Minute)
	for range minRateSamples - 1 {
		r.record(1<<20, time.Second)
	}
	assert.Zero(t, r.median())

	r.record(1<<20, time.Second)
	assert.InDelta(t, 1.0, r.median(), 1e-9)
}

func TestRateTracker_SkipsTinyScans(t *testing.T) {
	r := newRateTracker(time.Minute)
	for range 10 {
		r.record(100, time.Millisecond)
		r.record(1<<20, 0)
	}
	assert.Empty(t, r.samples)
}

func TestRateTracker_Median(t *testing.T) {
	r := newRateTracker(time.Minute)
	// 1, 2, 3, 4 and 100 MiB/s: the outlier does not move the median.
	for _, mib := range []int{100, 1, 4, 2, 3} {
		r.record(mib<<20, time.Second)
	}
	assert.InDelta(t, 3.0, r.median(), 1e-9)
}

func TestRateTracker_WindowEviction(t *testing.T) {
	r := newRateTracker(time.Minute)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	for range minRateSamples {
		r.record(1<<20, time.Second)
	}
	assert.InDelta(t, 1.0, r.median(), 1e-9)

	now = now.Add(2 * time.Minute)
	assert.Zero(t, r.median())
	assert.Empty(t, r.samples)
}
