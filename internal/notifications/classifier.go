// Package notifications turns raw notification post/cancel calls into classified
// lifecycle events and forwards them to the attribution engine.
package notifications

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/miradorstack/broadcast-response/internal/models"
)

// Sink receives classified notification events.
type Sink interface {
	RecordNotificationEvent(ev models.NotificationEvent) (int64, bool)
}

// Result reports the classification of one call and whether the sink attributed it.
type Result struct {
	Event         models.NotificationEvent
	Attributed    bool
	CorrelationID int64
}

// Classifier tracks the active notifications of each package by key. Content is only
// fingerprinted so reposts with changed content can be told apart from identical ones.
type Classifier struct {
	logger *slog.Logger
	sink   Sink

	mu     sync.Mutex
	active map[string]map[string]uint64
}

// NewClassifier constructs a Classifier forwarding to sink.
func NewClassifier(logger *slog.Logger, sink Sink) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		logger: logger,
		sink:   sink,
		active: make(map[string]map[string]uint64),
	}
}

// Post records a notification being enqueued. An unseen key is posted, an active key with
// different content is updated, and an identical repost produces no event.
func (c *Classifier) Post(pkg, key string, content []byte) (Result, bool) {
	fingerprint := xxhash.Sum64(content)

	c.mu.Lock()
	keys, ok := c.active[pkg]
	if !ok {
		keys = make(map[string]uint64)
		c.active[pkg] = keys
	}
	previous, existed := keys[key]
	keys[key] = fingerprint
	c.mu.Unlock()

	switch {
	case !existed:
		return c.emit(pkg, key, models.NotificationPosted), true
	case previous != fingerprint:
		return c.emit(pkg, key, models.NotificationUpdated), true
	default:
		c.logger.Debug("identical notification repost ignored", slog.String("package", pkg), slog.String("key", key))
		return Result{}, false
	}
}

// Cancel records removal of an active notification. Unknown keys produce no event.
func (c *Classifier) Cancel(pkg, key string) (Result, bool) {
	c.mu.Lock()
	keys := c.active[pkg]
	_, existed := keys[key]
	if existed {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.active, pkg)
		}
	}
	c.mu.Unlock()

	if !existed {
		return Result{}, false
	}
	return c.emit(pkg, key, models.NotificationCancelled), true
}

// CancelAll cancels every active notification of pkg in key order.
func (c *Classifier) CancelAll(pkg string) []Result {
	c.mu.Lock()
	keys := make([]string, 0, len(c.active[pkg]))
	for key := range c.active[pkg] {
		keys = append(keys, key)
	}
	delete(c.active, pkg)
	c.mu.Unlock()

	sort.Strings(keys)
	results := make([]Result, 0, len(keys))
	for _, key := range keys {
		results = append(results, c.emit(pkg, key, models.NotificationCancelled))
	}
	return results
}

func (c *Classifier) emit(pkg, key string, kind models.NotificationKind) Result {
	res := Result{Event: models.NotificationEvent{PackageName: pkg, NotificationKey: key, Kind: kind}}
	if c.sink != nil {
		res.CorrelationID, res.Attributed = c.sink.RecordNotificationEvent(res.Event)
	}
	return res
}
