package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "broadcast_response"

const (
	// AttributionHit labels notification events credited to an open window.
	AttributionHit = "attributed"
	// AttributionMiss labels notification events with no open window.
	AttributionMiss = "unattributed"
)

var (
	dispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Broadcast dispatches seen by the engine, partitioned by gate outcome.",
		},
		[]string{"outcome"},
	)

	notificationEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_events_total",
			Help:      "Classified notification events, partitioned by kind and attribution result.",
		},
		[]string{"kind", "result"},
	)

	clearsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clears_total",
			Help:      "Clear operations, partitioned by target (stats or events).",
		},
		[]string{"target"},
	)

	openWindows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_windows",
			Help:      "Unexpired attribution windows, sampled after dispatches and window clears.",
		},
	)

	requestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_seconds",
			Help:      "Engine request latency in seconds.",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		},
		[]string{"operation"},
	)
)

// Register attaches the engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		dispatchesTotal,
		notificationEventsTotal,
		clearsTotal,
		openWindows,
		requestDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveDispatch counts a dispatch by its gate outcome.
func ObserveDispatch(outcome string) {
	dispatchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveNotificationEvent counts a classified notification event.
func ObserveNotificationEvent(kind string, attributed bool) {
	result := AttributionMiss
	if attributed {
		result = AttributionHit
	}
	notificationEventsTotal.WithLabelValues(kind, result).Inc()
}

// ObserveClear counts a clear of "stats" or "events".
func ObserveClear(target string) {
	clearsTotal.WithLabelValues(target).Inc()
}

// SetOpenWindows publishes the tracker size.
func SetOpenWindows(n int) {
	openWindows.Set(float64(n))
}

// ObserveRequest records how long an engine operation took.
func ObserveRequest(operation string, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	requestDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}
