package engine

import (
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/miradorstack/broadcast-response/internal/models"
)

// WindowTracker holds at most one open correlation window per package. Expired windows
// are evicted when looked up or swept, never on a timer of their own.
type WindowTracker struct {
	clock quartz.Clock

	mu      sync.Mutex
	windows map[string]models.CorrelationWindow
}

// NewWindowTracker constructs an empty tracker reading time from clock.
func NewWindowTracker(clock quartz.Clock) *WindowTracker {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &WindowTracker{
		clock:   clock,
		windows: make(map[string]models.CorrelationWindow),
	}
}

// Open starts a window for pkg, replacing any window already open for it.
func (t *WindowTracker) Open(pkg string, correlationID int64, duration time.Duration) models.CorrelationWindow {
	w := models.CorrelationWindow{
		PackageName:   pkg,
		CorrelationID: correlationID,
		OpenedAt:      t.clock.Now("tracker", "open"),
		Duration:      duration,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.windows[pkg] = w
	return w
}

// Attribute returns the correlation id of pkg's open window if it has not expired.
func (t *WindowTracker) Attribute(pkg string) (int64, bool) {
	now := t.clock.Now("tracker", "attribute")

	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[pkg]
	if !ok {
		return 0, false
	}
	if w.Expired(now) {
		delete(t.windows, pkg)
		return 0, false
	}
	return w.CorrelationID, true
}

// Active returns the number of windows that would still attribute a response now.
func (t *WindowTracker) Active() int {
	now := t.clock.Now("tracker", "active")

	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, w := range t.windows {
		if !w.Expired(now) {
			n++
		}
	}
	return n
}

// InvalidateAll drops every open window and returns how many were dropped.
func (t *WindowTracker) InvalidateAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.windows)
	clear(t.windows)
	return n
}

// Sweep evicts expired windows and returns how many were removed.
func (t *WindowTracker) Sweep() int {
	now := t.clock.Now("tracker", "sweep")

	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for pkg, w := range t.windows {
		if w.Expired(now) {
			delete(t.windows, pkg)
			removed++
		}
	}
	return removed
}

// Len returns the number of windows held, expired or not.
func (t *WindowTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.windows)
}
