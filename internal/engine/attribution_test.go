package engine

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/miradorstack/broadcast-response/internal/models"
	"github.com/miradorstack/broadcast-response/internal/policy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testPkg = "com.example.receiver"

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestEngine(t *testing.T, window time.Duration) (*Engine, *quartz.Mock, *policy.Holder) {
	t.Helper()
	clock := quartz.NewMock(t)
	holder, err := policy.NewHolder(policy.Policy{
		WindowDuration:      window,
		ForegroundThreshold: models.ImportanceTop,
	})
	require.NoError(t, err)
	return NewEngine(nil, holder, WithClock(clock)), clock, holder
}

func background(id int64) models.Dispatch {
	return models.Dispatch{PackageName: testPkg, CorrelationID: id, Importance: models.ImportanceCachedEmpty}
}

func notify(kind models.NotificationKind) models.NotificationEvent {
	return models.NotificationEvent{PackageName: testPkg, NotificationKey: "n1", Kind: kind}
}

func requireStats(t *testing.T, e *Engine, id int64, dispatched, posted, updated, cancelled uint64) {
	t.Helper()
	got := e.Query(testPkg, id)
	require.Len(t, got, 1)
	require.Equal(t, models.ResponseStats{
		PackageName:            testPkg,
		CorrelationID:          id,
		BroadcastsDispatched:   dispatched,
		NotificationsPosted:    posted,
		NotificationsUpdated:   updated,
		NotificationsCancelled: cancelled,
	}, got[0])
}

func TestEngineWindowReplacement(t *testing.T) {
	e, _, _ := newTestEngine(t, time.Minute)

	require.Equal(t, DispatchRecorded, e.RecordDispatch(background(1)))
	require.Equal(t, DispatchRecorded, e.RecordDispatch(background(2)))

	id, ok := e.RecordNotificationEvent(notify(models.NotificationPosted))
	require.True(t, ok)
	require.Equal(t, int64(2), id)

	requireStats(t, e, 1, 1, 0, 0, 0)
	requireStats(t, e, 2, 1, 1, 0, 0)
}

func TestEngineWindowExpiry(t *testing.T) {
	e, clock, _ := newTestEngine(t, 2*time.Minute)

	e.RecordDispatch(background(1))
	clock.Advance(2 * time.Minute)
	_, ok := e.RecordNotificationEvent(notify(models.NotificationPosted))
	require.True(t, ok, "response at the window boundary is attributed")

	e.RecordDispatch(background(1))
	clock.Advance(2*time.Minute + time.Millisecond)
	_, ok = e.RecordNotificationEvent(notify(models.NotificationPosted))
	require.False(t, ok)

	requireStats(t, e, 1, 2, 1, 0, 0)
}

func TestEnginePolicyChangeDoesNotResizeOpenWindow(t *testing.T) {
	e, clock, holder := newTestEngine(t, 2*time.Minute)

	e.RecordDispatch(background(1))
	require.NoError(t, holder.Store(policy.Policy{WindowDuration: time.Second, ForegroundThreshold: models.ImportanceTop}))
	clock.Advance(time.Minute)

	_, ok := e.RecordNotificationEvent(notify(models.NotificationPosted))
	require.True(t, ok)
}

func TestEngineEligibilityGateMonotonicity(t *testing.T) {
	e, _, holder := newTestEngine(t, time.Minute)
	app := models.Dispatch{PackageName: testPkg, CorrelationID: 1, Importance: models.ImportanceTop}

	require.Equal(t, DispatchIneligible, e.RecordDispatch(app))
	requireStats(t, e, 1, 0, 0, 0, 0)

	// An ineligible dispatch opens no window either.
	_, ok := e.RecordNotificationEvent(notify(models.NotificationPosted))
	require.False(t, ok)

	lower := models.ImportancePersistentUI
	_, err := holder.Apply(models.PolicyOverrides{ForegroundThreshold: &lower})
	require.NoError(t, err)
	require.Equal(t, DispatchRecorded, e.RecordDispatch(app))
	requireStats(t, e, 1, 1, 0, 0, 0)

	higher := models.ImportanceService
	_, err = holder.Apply(models.PolicyOverrides{ForegroundThreshold: &higher})
	require.NoError(t, err)
	require.Equal(t, DispatchIneligible, e.RecordDispatch(app))
	requireStats(t, e, 1, 1, 0, 0, 0)
}

func TestEngineDispatchWithoutCorrelationID(t *testing.T) {
	e, _, _ := newTestEngine(t, time.Minute)

	require.Equal(t, DispatchNotRequested, e.RecordDispatch(background(0)))
	require.Empty(t, e.Query("", 0))
	require.Zero(t, e.OpenWindows())
}

func TestEngineClearSemantics(t *testing.T) {
	e, _, _ := newTestEngine(t, time.Minute)
	other := models.Dispatch{PackageName: "com.example.other", CorrelationID: 5, Importance: models.ImportanceService}

	e.RecordDispatch(background(5))
	e.RecordDispatch(background(6))
	e.RecordDispatch(other)

	require.Equal(t, 2, e.ClearStats(testPkg, 0))
	requireStats(t, e, 5, 0, 0, 0, 0)
	requireStats(t, e, 6, 0, 0, 0, 0)
	require.Len(t, e.Query("", 5), 1)

	require.Equal(t, 1, e.ClearStats("", 0))
	require.Empty(t, e.Query("", 0))
}

func TestEngineClearEventsKeepsCounters(t *testing.T) {
	e, _, _ := newTestEngine(t, time.Minute)

	e.RecordDispatch(background(3))
	require.Equal(t, 1, e.ClearEvents())

	_, ok := e.RecordNotificationEvent(notify(models.NotificationPosted))
	require.False(t, ok)
	requireStats(t, e, 3, 1, 0, 0, 0)
}

func TestEngineClearStatsKeepsWindow(t *testing.T) {
	e, _, _ := newTestEngine(t, time.Minute)

	e.RecordDispatch(background(3))
	e.ClearStats(testPkg, 3)

	_, ok := e.RecordNotificationEvent(notify(models.NotificationCancelled))
	require.True(t, ok)
	requireStats(t, e, 3, 0, 0, 0, 1)
}

func TestEngineZeroQuery(t *testing.T) {
	e, _, _ := newTestEngine(t, time.Minute)
	requireStats(t, e, 77, 0, 0, 0, 0)
}

func TestEngineEndToEnd(t *testing.T) {
	e, clock, _ := newTestEngine(t, time.Minute)

	require.Equal(t, DispatchRecorded, e.RecordDispatch(background(11)))
	requireStats(t, e, 11, 1, 0, 0, 0)

	clock.Advance(time.Second)
	e.RecordNotificationEvent(notify(models.NotificationPosted))
	requireStats(t, e, 11, 1, 1, 0, 0)

	clock.Advance(time.Second)
	e.RecordNotificationEvent(notify(models.NotificationUpdated))
	requireStats(t, e, 11, 1, 1, 1, 0)

	clock.Advance(time.Second)
	e.RecordNotificationEvent(notify(models.NotificationCancelled))
	requireStats(t, e, 11, 1, 1, 1, 1)

	require.Equal(t, 1, e.ClearStats(testPkg, 11))
	requireStats(t, e, 11, 0, 0, 0, 0)
}

func TestEngineIgnoresMalformedEvents(t *testing.T) {
	e, _, _ := newTestEngine(t, time.Minute)
	e.RecordDispatch(background(1))

	_, ok := e.RecordNotificationEvent(models.NotificationEvent{PackageName: testPkg, Kind: "snoozed"})
	require.False(t, ok)
	_, ok = e.RecordNotificationEvent(models.NotificationEvent{Kind: models.NotificationPosted})
	require.False(t, ok)
	requireStats(t, e, 1, 1, 0, 0, 0)
}

func TestEngineSweeper(t *testing.T) {
	ctx := testContext(t)
	e, clock, _ := newTestEngine(t, 30*time.Second)

	trap := clock.Trap().TickerFunc("engine", "sweep")
	defer trap.Close()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- e.RunSweeper(runCtx, time.Minute)
	}()
	trap.MustWait(ctx).MustRelease(ctx)

	e.RecordDispatch(background(1))
	require.Equal(t, 1, e.OpenWindows())

	clock.Advance(time.Minute).MustWait(ctx)
	require.Zero(t, e.OpenWindows())
	requireStats(t, e, 1, 1, 0, 0, 0)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("sweeper did not stop")
	}
}

func TestEngineSweeperDisabled(t *testing.T) {
	e, _, _ := newTestEngine(t, time.Minute)
	require.NoError(t, e.RunSweeper(context.Background(), 0))
}

func TestEngineOpenWindowsExcludesExpired(t *testing.T) {
	e, clock, _ := newTestEngine(t, 30*time.Second)

	e.RecordDispatch(background(1))
	require.Equal(t, 1, e.OpenWindows())

	clock.Advance(31 * time.Second)
	require.Zero(t, e.OpenWindows())
}
