package engine

import (
	"sort"
	"sync"

	"github.com/miradorstack/broadcast-response/internal/models"
)

// CounterKind selects one of the four response counters.
type CounterKind int

const (
	CounterBroadcastDispatched CounterKind = iota
	CounterNotificationPosted
	CounterNotificationUpdated
	CounterNotificationCancelled
)

func (k CounterKind) String() string {
	switch k {
	case CounterBroadcastDispatched:
		return "broadcast_dispatched"
	case CounterNotificationPosted:
		return "notification_posted"
	case CounterNotificationUpdated:
		return "notification_updated"
	case CounterNotificationCancelled:
		return "notification_cancelled"
	default:
		return "unknown"
	}
}

// CounterFor maps a notification kind onto its counter.
func CounterFor(kind models.NotificationKind) (CounterKind, bool) {
	switch kind {
	case models.NotificationPosted:
		return CounterNotificationPosted, true
	case models.NotificationUpdated:
		return CounterNotificationUpdated, true
	case models.NotificationCancelled:
		return CounterNotificationCancelled, true
	default:
		return 0, false
	}
}

// StatsStore aggregates response counters keyed by (package, correlation id) for the
// lifetime of the process.
type StatsStore struct {
	mu        sync.RWMutex
	byPackage map[string]map[int64]*models.ResponseStats
}

// NewStatsStore constructs an empty store.
func NewStatsStore() *StatsStore {
	return &StatsStore{byPackage: make(map[string]map[int64]*models.ResponseStats)}
}

// Increment bumps one counter for the key, creating the entry when absent.
func (s *StatsStore) Increment(pkg string, correlationID int64, kind CounterKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, ok := s.byPackage[pkg]
	if !ok {
		ids = make(map[int64]*models.ResponseStats)
		s.byPackage[pkg] = ids
	}
	stats, ok := ids[correlationID]
	if !ok {
		stats = &models.ResponseStats{PackageName: pkg, CorrelationID: correlationID}
		ids[correlationID] = stats
	}

	switch kind {
	case CounterBroadcastDispatched:
		stats.BroadcastsDispatched++
	case CounterNotificationPosted:
		stats.NotificationsPosted++
	case CounterNotificationUpdated:
		stats.NotificationsUpdated++
	case CounterNotificationCancelled:
		stats.NotificationsCancelled++
	}
}

// Query returns copies of the matching records.
//
// With a package and a non-zero id the result always holds exactly one record, zero-valued
// when the key was never touched. An empty package fans out across packages, and a zero id
// matches every id; wildcard queries omit keys without activity. Results are ordered by
// package then id.
func (s *StatsStore) Query(pkg string, correlationID int64) []models.ResponseStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pkg != "" && correlationID != 0 {
		if stats, ok := s.byPackage[pkg][correlationID]; ok {
			return []models.ResponseStats{*stats}
		}
		return []models.ResponseStats{{PackageName: pkg, CorrelationID: correlationID}}
	}

	var out []models.ResponseStats
	collect := func(ids map[int64]*models.ResponseStats) {
		if correlationID != 0 {
			if stats, ok := ids[correlationID]; ok && !stats.IsZero() {
				out = append(out, *stats)
			}
			return
		}
		for _, stats := range ids {
			if !stats.IsZero() {
				out = append(out, *stats)
			}
		}
	}

	if pkg != "" {
		collect(s.byPackage[pkg])
	} else {
		for _, ids := range s.byPackage {
			collect(ids)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PackageName != out[j].PackageName {
			return out[i].PackageName < out[j].PackageName
		}
		return out[i].CorrelationID < out[j].CorrelationID
	})
	return out
}

// Clear removes matching keys and returns how many were removed. An empty package matches
// every package and a zero id matches every id, so Clear("", 0) resets the store.
func (s *StatsStore) Clear(pkg string, correlationID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case pkg == "" && correlationID == 0:
		removed := s.countLocked()
		clear(s.byPackage)
		return removed
	case pkg == "":
		removed := 0
		for name, ids := range s.byPackage {
			removed += s.removeLocked(name, ids, correlationID)
		}
		return removed
	default:
		ids, ok := s.byPackage[pkg]
		if !ok {
			return 0
		}
		if correlationID == 0 {
			delete(s.byPackage, pkg)
			return len(ids)
		}
		return s.removeLocked(pkg, ids, correlationID)
	}
}

// Len returns the number of stored keys.
func (s *StatsStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked()
}

func (s *StatsStore) removeLocked(pkg string, ids map[int64]*models.ResponseStats, correlationID int64) int {
	if _, ok := ids[correlationID]; !ok {
		return 0
	}
	delete(ids, correlationID)
	if len(ids) == 0 {
		delete(s.byPackage, pkg)
	}
	return 1
}

func (s *StatsStore) countLocked() int {
	n := 0
	for _, ids := range s.byPackage {
		n += len(ids)
	}
	return n
}
