package models

import (
	"fmt"
	"strings"
	"time"
)

// Dispatch describes a broadcast delivered to PackageName with a response-recording request.
type Dispatch struct {
	PackageName   string
	CorrelationID int64
	// Importance is the destination's importance class at delivery time.
	Importance ImportanceClass
}

// CorrelationWindow is the single open attribution window of a package.
type CorrelationWindow struct {
	PackageName   string
	CorrelationID int64
	OpenedAt      time.Time
	// Duration is the policy window captured when the window was opened.
	Duration time.Duration
}

// ExpiresAt returns the last instant at which a response is still attributed.
func (w CorrelationWindow) ExpiresAt() time.Time {
	return w.OpenedAt.Add(w.Duration)
}

// Expired reports whether now lies strictly after the window.
func (w CorrelationWindow) Expired(now time.Time) bool {
	return now.Sub(w.OpenedAt) > w.Duration
}

// ResponseStats aggregates the responses attributed to one (package, correlation id) key.
type ResponseStats struct {
	PackageName            string
	CorrelationID          int64
	BroadcastsDispatched   uint64 // eligible dispatches recorded
	NotificationsPosted    uint64
	NotificationsUpdated   uint64
	NotificationsCancelled uint64
}

// IsZero reports whether every counter is zero.
func (s ResponseStats) IsZero() bool {
	return s.BroadcastsDispatched == 0 &&
		s.NotificationsPosted == 0 &&
		s.NotificationsUpdated == 0 &&
		s.NotificationsCancelled == 0
}

// NotificationKind classifies a notification lifecycle transition.
type NotificationKind string

const (
	NotificationPosted    NotificationKind = "posted"
	NotificationUpdated   NotificationKind = "updated"
	NotificationCancelled NotificationKind = "cancelled"
)

// ParseNotificationKind validates a wire value.
func ParseNotificationKind(value string) (NotificationKind, error) {
	switch kind := NotificationKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case NotificationPosted, NotificationUpdated, NotificationCancelled:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown notification kind %q", value)
	}
}

// NotificationEvent is a classified notification transition reported for a package.
type NotificationEvent struct {
	PackageName     string
	NotificationKey string
	Kind            NotificationKind
}

// PolicyOverrides carries a partial policy update; nil fields keep the current value.
type PolicyOverrides struct {
	WindowDuration      *time.Duration
	ForegroundThreshold *ImportanceClass
}

// Empty reports whether no field is set.
func (o PolicyOverrides) Empty() bool {
	return o.WindowDuration == nil && o.ForegroundThreshold == nil
}
