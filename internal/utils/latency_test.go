package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLatencyTrackerPercentile(t *testing.T) {
	tracker := NewLatencyTracker(10)
	for _, ms := range []int{30, 10, 50, 20, 40} {
		tracker.Observe(time.Duration(ms) * time.Millisecond)
	}

	require.Equal(t, 5, tracker.Count())
	require.GreaterOrEqual(t, tracker.Percentile(95), 40*time.Millisecond)
	require.Equal(t, 10*time.Millisecond, tracker.Percentile(0))
	require.Equal(t, 50*time.Millisecond, tracker.Percentile(100))
}

func TestLatencyTrackerBoundedSize(t *testing.T) {
	tracker := NewLatencyTracker(3)
	for i := 0; i < 10; i++ {
		tracker.Observe(time.Duration(i) * time.Millisecond)
	}
	require.Equal(t, 3, tracker.Count())
	// Only the three most recent samples survive.
	require.Equal(t, 7*time.Millisecond, tracker.Percentile(0))
}

func TestLatencyTrackerEmpty(t *testing.T) {
	require.Zero(t, NewLatencyTracker(0).Percentile(50))
}
