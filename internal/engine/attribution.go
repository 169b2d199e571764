package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/quartz"

	"github.com/miradorstack/broadcast-response/internal/models"
	"github.com/miradorstack/broadcast-response/internal/policy"
)

// DispatchOutcome describes what RecordDispatch did with a dispatch.
type DispatchOutcome string

const (
	// DispatchRecorded means the dispatch was counted and a window opened.
	DispatchRecorded DispatchOutcome = "recorded"
	// DispatchIneligible means the app was already at or above the foreground threshold.
	DispatchIneligible DispatchOutcome = "ineligible"
	// DispatchNotRequested means the broadcast carried no correlation id.
	DispatchNotRequested DispatchOutcome = "not_requested"
)

// Engine correlates broadcast dispatches with the notification responses that follow them.
// One Engine is constructed per process and shared by every caller.
type Engine struct {
	logger   *slog.Logger
	clock    quartz.Clock
	policies *policy.Holder
	tracker  *WindowTracker
	stats    *StatsStore
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for window bookkeeping.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// NewEngine constructs an Engine reading its policy from policies.
func NewEngine(logger *slog.Logger, policies *policy.Holder, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		logger:   logger,
		clock:    quartz.NewReal(),
		policies: policies,
		stats:    NewStatsStore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.policies == nil {
		e.policies, _ = policy.NewHolder(policy.Default())
	}
	e.tracker = NewWindowTracker(e.clock)
	return e
}

// Policy returns the policy snapshot currently in effect.
func (e *Engine) Policy() policy.Policy {
	return e.policies.Load()
}

// RecordDispatch applies the eligibility gate to a dispatch. Eligible dispatches bump the
// dispatched counter and open (or replace) the package's window; ineligible ones change nothing.
func (e *Engine) RecordDispatch(d models.Dispatch) DispatchOutcome {
	if d.CorrelationID == 0 || d.PackageName == "" {
		return DispatchNotRequested
	}

	snapshot := e.policies.Load()
	if !snapshot.Eligible(d.Importance) {
		e.logger.Debug("dispatch not eligible for attribution",
			slog.String("package", d.PackageName),
			slog.Int64("correlation_id", d.CorrelationID),
			slog.String("importance", d.Importance.String()),
			slog.String("threshold", snapshot.ForegroundThreshold.String()))
		return DispatchIneligible
	}

	e.stats.Increment(d.PackageName, d.CorrelationID, CounterBroadcastDispatched)
	w := e.tracker.Open(d.PackageName, d.CorrelationID, snapshot.WindowDuration)
	e.logger.Debug("attribution window opened",
		slog.String("package", d.PackageName),
		slog.Int64("correlation_id", d.CorrelationID),
		slog.Time("expires_at", w.ExpiresAt()))
	return DispatchRecorded
}

// RecordNotificationEvent credits ev to the package's open window, if any. It returns the
// correlation id the event was attributed to.
func (e *Engine) RecordNotificationEvent(ev models.NotificationEvent) (int64, bool) {
	counter, ok := CounterFor(ev.Kind)
	if !ok || ev.PackageName == "" {
		return 0, false
	}
	id, ok := e.tracker.Attribute(ev.PackageName)
	if !ok {
		return 0, false
	}
	e.stats.Increment(ev.PackageName, id, counter)
	e.logger.Debug("notification attributed",
		slog.String("package", ev.PackageName),
		slog.String("kind", string(ev.Kind)),
		slog.Int64("correlation_id", id))
	return id, true
}

// Query returns response stats; see StatsStore.Query for the matching rules.
func (e *Engine) Query(pkg string, correlationID int64) []models.ResponseStats {
	return e.stats.Query(pkg, correlationID)
}

// ClearStats removes aggregated counters. Open windows survive and keep attributing into
// fresh counters.
func (e *Engine) ClearStats(pkg string, correlationID int64) int {
	removed := e.stats.Clear(pkg, correlationID)
	e.logger.Info("response stats cleared",
		slog.String("package", pkg),
		slog.Int64("correlation_id", correlationID),
		slog.Int("removed", removed))
	return removed
}

// ClearEvents forgets every in-flight window without touching stored counters.
func (e *Engine) ClearEvents() int {
	dropped := e.tracker.InvalidateAll()
	e.logger.Info("attribution windows invalidated", slog.Int("dropped", dropped))
	return dropped
}

// OpenWindows returns the number of unexpired windows. Expired windows awaiting eviction
// are not counted.
func (e *Engine) OpenWindows() int {
	return e.tracker.Active()
}

// RunSweeper evicts expired windows every interval until ctx is done. Lazy eviction on
// lookup already guarantees correctness; the sweep only bounds memory held for packages
// that never respond.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	w := e.clock.TickerFunc(ctx, interval, func() error {
		if removed := e.tracker.Sweep(); removed > 0 {
			e.logger.Debug("expired windows swept", slog.Int("removed", removed))
		}
		return nil
	}, "engine", "sweep")
	err := w.Wait("engine", "sweep")
	if ctx.Err() != nil {
		return nil
	}
	return err
}
