package api

import (
	"fmt"

	attrv1 "github.com/miradorstack/broadcast-response/internal/grpc/attributionv1"
	"github.com/miradorstack/broadcast-response/internal/models"
	"github.com/miradorstack/broadcast-response/internal/notifications"
	"github.com/miradorstack/broadcast-response/internal/policy"
	"github.com/miradorstack/broadcast-response/internal/utils"
)

// FromRPCDispatch maps a dispatch request into the domain Dispatch.
func FromRPCDispatch(req *attrv1.RecordDispatchRequest) (models.Dispatch, error) {
	if req == nil {
		return models.Dispatch{}, fmt.Errorf("request is nil")
	}
	if req.GetPackageName() == "" {
		return models.Dispatch{}, fmt.Errorf("package_name is required")
	}
	importance, err := models.ParseImportanceClass(req.GetImportance())
	if err != nil {
		return models.Dispatch{}, fmt.Errorf("importance: %w", err)
	}
	return models.Dispatch{
		PackageName:   req.GetPackageName(),
		CorrelationID: req.GetCorrelationId(),
		Importance:    importance,
	}, nil
}

// FromRPCNotificationEvent maps a classified event request into the domain event.
func FromRPCNotificationEvent(req *attrv1.NotificationEventRequest) (models.NotificationEvent, error) {
	if req == nil {
		return models.NotificationEvent{}, fmt.Errorf("request is nil")
	}
	if req.GetPackageName() == "" {
		return models.NotificationEvent{}, fmt.Errorf("package_name is required")
	}
	kind, err := models.ParseNotificationKind(req.GetKind())
	if err != nil {
		return models.NotificationEvent{}, fmt.Errorf("kind: %w", err)
	}
	return models.NotificationEvent{
		PackageName:     req.GetPackageName(),
		NotificationKey: req.GetNotificationKey(),
		Kind:            kind,
	}, nil
}

// ToRPCNotificationEvents converts classifier results into the response shape.
func ToRPCNotificationEvents(results ...notifications.Result) *attrv1.NotificationEventResponse {
	resp := &attrv1.NotificationEventResponse{Events: make([]*attrv1.NotificationEvent, 0, len(results))}
	for _, res := range results {
		resp.Events = append(resp.Events, &attrv1.NotificationEvent{
			PackageName:     res.Event.PackageName,
			NotificationKey: res.Event.NotificationKey,
			Kind:            string(res.Event.Kind),
			Attributed:      res.Attributed,
			CorrelationId:   res.CorrelationID,
		})
	}
	return resp
}

// ToRPCQueryResponse converts domain stats into the response shape.
func ToRPCQueryResponse(stats []models.ResponseStats) *attrv1.QueryResponse {
	resp := &attrv1.QueryResponse{Stats: make([]*attrv1.ResponseStats, 0, len(stats))}
	for _, s := range stats {
		resp.Stats = append(resp.Stats, &attrv1.ResponseStats{
			PackageName:                 s.PackageName,
			CorrelationId:               s.CorrelationID,
			BroadcastsDispatchedCount:   s.BroadcastsDispatched,
			NotificationsPostedCount:    s.NotificationsPosted,
			NotificationsUpdatedCount:   s.NotificationsUpdated,
			NotificationsCancelledCount: s.NotificationsCancelled,
		})
	}
	return resp
}

// FromRPCResponseStats converts a wire record back into the domain record.
func FromRPCResponseStats(s *attrv1.ResponseStats) models.ResponseStats {
	if s == nil {
		return models.ResponseStats{}
	}
	return models.ResponseStats{
		PackageName:            s.PackageName,
		CorrelationID:          s.CorrelationId,
		BroadcastsDispatched:   s.BroadcastsDispatchedCount,
		NotificationsPosted:    s.NotificationsPostedCount,
		NotificationsUpdated:   s.NotificationsUpdatedCount,
		NotificationsCancelled: s.NotificationsCancelledCount,
	}
}

// ToRPCPolicy converts a policy snapshot.
func ToRPCPolicy(p policy.Policy) *attrv1.Policy {
	return &attrv1.Policy{
		WindowDurationMs:    utils.Millis(p.WindowDuration),
		ForegroundThreshold: p.ForegroundThreshold.String(),
	}
}
