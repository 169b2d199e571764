package notifications

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miradorstack/broadcast-response/internal/models"
)

type recordingSink struct {
	events []models.NotificationEvent
	id     int64
}

func (s *recordingSink) RecordNotificationEvent(ev models.NotificationEvent) (int64, bool) {
	s.events = append(s.events, ev)
	return s.id, s.id != 0
}

func kinds(events []models.NotificationEvent) []models.NotificationKind {
	out := make([]models.NotificationKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestClassifierLifecycle(t *testing.T) {
	sink := &recordingSink{id: 11}
	c := NewClassifier(nil, sink)

	res, ok := c.Post("pkg", "n1", []byte("hello"))
	require.True(t, ok)
	require.Equal(t, models.NotificationPosted, res.Event.Kind)
	require.True(t, res.Attributed)
	require.Equal(t, int64(11), res.CorrelationID)

	_, ok = c.Post("pkg", "n1", []byte("hello"))
	require.False(t, ok, "identical repost is not an update")

	res, ok = c.Post("pkg", "n1", []byte("hello again"))
	require.True(t, ok)
	require.Equal(t, models.NotificationUpdated, res.Event.Kind)

	res, ok = c.Cancel("pkg", "n1")
	require.True(t, ok)
	require.Equal(t, models.NotificationCancelled, res.Event.Kind)

	_, ok = c.Cancel("pkg", "n1")
	require.False(t, ok)

	require.Equal(t, []models.NotificationKind{
		models.NotificationPosted,
		models.NotificationUpdated,
		models.NotificationCancelled,
	}, kinds(sink.events))
}

func TestClassifierKeysArePerPackage(t *testing.T) {
	sink := &recordingSink{}
	c := NewClassifier(nil, sink)

	c.Post("a", "n1", []byte("x"))
	res, ok := c.Post("b", "n1", []byte("x"))
	require.True(t, ok)
	require.Equal(t, models.NotificationPosted, res.Event.Kind)
	require.False(t, res.Attributed)
}

func TestClassifierCancelAll(t *testing.T) {
	sink := &recordingSink{}
	c := NewClassifier(nil, sink)

	c.Post("pkg", "n2", nil)
	c.Post("pkg", "n1", nil)
	c.Post("other", "n1", nil)

	results := c.CancelAll("pkg")
	require.Len(t, results, 2)
	require.Equal(t, "n1", results[0].Event.NotificationKey)
	require.Equal(t, "n2", results[1].Event.NotificationKey)
	require.Empty(t, c.CancelAll("pkg"))

	_, ok := c.Cancel("other", "n1")
	require.True(t, ok, "other packages keep their notifications")
}
