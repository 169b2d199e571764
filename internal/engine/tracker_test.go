package engine

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

func TestWindowTrackerAttributeWithinWindow(t *testing.T) {
	clock := quartz.NewMock(t)
	tracker := NewWindowTracker(clock)

	w := tracker.Open("com.example.app", 7, time.Minute)
	require.Equal(t, clock.Now(), w.OpenedAt)

	clock.Advance(time.Minute)
	id, ok := tracker.Attribute("com.example.app")
	require.True(t, ok)
	require.Equal(t, int64(7), id)
}

func TestWindowTrackerExpiresLazily(t *testing.T) {
	clock := quartz.NewMock(t)
	tracker := NewWindowTracker(clock)

	tracker.Open("com.example.app", 7, time.Minute)
	clock.Advance(time.Minute + time.Millisecond)

	require.Equal(t, 1, tracker.Len())
	_, ok := tracker.Attribute("com.example.app")
	require.False(t, ok)
	require.Zero(t, tracker.Len())
}

func TestWindowTrackerReplace(t *testing.T) {
	clock := quartz.NewMock(t)
	tracker := NewWindowTracker(clock)

	tracker.Open("com.example.app", 1, 10*time.Second)
	clock.Advance(8 * time.Second)
	tracker.Open("com.example.app", 2, 10*time.Second)
	clock.Advance(8 * time.Second)

	// The replacement restarted the window rather than extending the old one.
	id, ok := tracker.Attribute("com.example.app")
	require.True(t, ok)
	require.Equal(t, int64(2), id)
	require.Equal(t, 1, tracker.Len())
}

func TestWindowTrackerKeepsDurationSnapshot(t *testing.T) {
	clock := quartz.NewMock(t)
	tracker := NewWindowTracker(clock)

	tracker.Open("a", 1, time.Minute)
	tracker.Open("b", 2, time.Second)
	clock.Advance(2 * time.Second)

	_, ok := tracker.Attribute("a")
	require.True(t, ok)
	_, ok = tracker.Attribute("b")
	require.False(t, ok)
}

func TestWindowTrackerInvalidateAndSweep(t *testing.T) {
	clock := quartz.NewMock(t)
	tracker := NewWindowTracker(clock)

	tracker.Open("a", 1, time.Second)
	tracker.Open("b", 2, time.Hour)
	clock.Advance(time.Minute)

	require.Equal(t, 1, tracker.Sweep())
	id, ok := tracker.Attribute("b")
	require.True(t, ok)
	require.Equal(t, int64(2), id)

	require.Equal(t, 1, tracker.InvalidateAll())
	_, ok = tracker.Attribute("b")
	require.False(t, ok)
}

func TestWindowTrackerActiveSkipsExpired(t *testing.T) {
	clock := quartz.NewMock(t)
	tracker := NewWindowTracker(clock)

	tracker.Open("a", 1, time.Second)
	tracker.Open("b", 2, time.Hour)
	require.Equal(t, 2, tracker.Active())

	clock.Advance(time.Minute)
	require.Equal(t, 1, tracker.Active())
	require.Equal(t, 2, tracker.Len(), "expired window is held until evicted")
}
