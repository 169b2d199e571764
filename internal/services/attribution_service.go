package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/miradorstack/broadcast-response/internal/api"
	"github.com/miradorstack/broadcast-response/internal/auth"
	"github.com/miradorstack/broadcast-response/internal/engine"
	attrv1 "github.com/miradorstack/broadcast-response/internal/grpc/attributionv1"
	"github.com/miradorstack/broadcast-response/internal/metrics"
	"github.com/miradorstack/broadcast-response/internal/notifications"
	"github.com/miradorstack/broadcast-response/internal/utils"
)

// AttributionService implements the gRPC AttributionEngine service.
type AttributionService struct {
	attrv1.UnimplementedAttributionEngineServer

	logger     *slog.Logger
	engine     *engine.Engine
	classifier *notifications.Classifier
	authorizer *auth.Authorizer
	latencies  *utils.LatencyTracker
}

// NewAttributionService constructs the service facade. A nil classifier is replaced by one
// feeding eng; a nil authorizer allows every call.
func NewAttributionService(logger *slog.Logger, eng *engine.Engine, classifier *notifications.Classifier, authorizer *auth.Authorizer) *AttributionService {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil && eng != nil {
		classifier = notifications.NewClassifier(logger, eng)
	}
	return &AttributionService{
		logger:     logger,
		engine:     eng,
		classifier: classifier,
		authorizer: authorizer,
		latencies:  utils.NewLatencyTracker(1024),
	}
}

// RecordDispatch reports a broadcast delivery to a package.
func (s *AttributionService) RecordDispatch(ctx context.Context, req *attrv1.RecordDispatchRequest) (*attrv1.RecordDispatchResponse, error) {
	if err := s.ready(req); err != nil {
		return nil, err
	}
	dispatch, err := api.FromRPCDispatch(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.authorizer.AuthorizePackage(ctx, dispatch.PackageName); err != nil {
		return nil, authStatus(err)
	}

	start := time.Now()
	outcome := s.engine.RecordDispatch(dispatch)
	s.observe("record_dispatch", start)
	metrics.ObserveDispatch(string(outcome))
	metrics.SetOpenWindows(s.engine.OpenWindows())

	return &attrv1.RecordDispatchResponse{
		Recorded: outcome == engine.DispatchRecorded,
		Outcome:  string(outcome),
	}, nil
}

// RecordNotificationEvent ingests an already classified notification event.
func (s *AttributionService) RecordNotificationEvent(ctx context.Context, req *attrv1.NotificationEventRequest) (*attrv1.NotificationEventResponse, error) {
	if err := s.ready(req); err != nil {
		return nil, err
	}
	ev, err := api.FromRPCNotificationEvent(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	start := time.Now()
	id, attributed := s.engine.RecordNotificationEvent(ev)
	s.observe("record_notification_event", start)

	result := notifications.Result{Event: ev, Attributed: attributed, CorrelationID: id}
	s.observeEvents(result)
	return api.ToRPCNotificationEvents(result), nil
}

// PostNotification classifies a raw enqueue as posted or updated.
func (s *AttributionService) PostNotification(ctx context.Context, req *attrv1.PostNotificationRequest) (*attrv1.NotificationEventResponse, error) {
	if err := s.ready(req); err != nil {
		return nil, err
	}
	if req.GetPackageName() == "" || req.GetNotificationKey() == "" {
		return nil, status.Error(codes.InvalidArgument, "package_name and notification_key are required")
	}

	start := time.Now()
	result, ok := s.classifier.Post(req.GetPackageName(), req.GetNotificationKey(), req.GetContent())
	s.observe("post_notification", start)
	if !ok {
		return api.ToRPCNotificationEvents(), nil
	}
	s.observeEvents(result)
	return api.ToRPCNotificationEvents(result), nil
}

// CancelNotification classifies a raw removal, optionally of every active notification.
func (s *AttributionService) CancelNotification(ctx context.Context, req *attrv1.CancelNotificationRequest) (*attrv1.NotificationEventResponse, error) {
	if err := s.ready(req); err != nil {
		return nil, err
	}
	if req.GetPackageName() == "" {
		return nil, status.Error(codes.InvalidArgument, "package_name is required")
	}

	start := time.Now()
	var results []notifications.Result
	switch {
	case req.GetAll():
		results = s.classifier.CancelAll(req.GetPackageName())
	case req.GetNotificationKey() == "":
		return nil, status.Error(codes.InvalidArgument, "notification_key is required unless all is set")
	default:
		if result, ok := s.classifier.Cancel(req.GetPackageName(), req.GetNotificationKey()); ok {
			results = append(results, result)
		}
	}
	s.observe("cancel_notification", start)
	s.observeEvents(results...)
	return api.ToRPCNotificationEvents(results...), nil
}

// QueryResponseStats returns aggregated stats for a package, or every package for privileged callers.
func (s *AttributionService) QueryResponseStats(ctx context.Context, req *attrv1.QueryRequest) (*attrv1.QueryResponse, error) {
	if err := s.ready(req); err != nil {
		return nil, err
	}
	if req.GetCorrelationId() < 0 {
		return nil, status.Error(codes.InvalidArgument, "correlation_id must not be negative")
	}
	if err := s.authorizer.AuthorizePackage(ctx, req.GetPackageName()); err != nil {
		return nil, authStatus(err)
	}

	start := time.Now()
	stats := s.engine.Query(req.GetPackageName(), req.GetCorrelationId())
	s.observe("query_response_stats", start)
	return api.ToRPCQueryResponse(stats), nil
}

// ClearResponseStats removes aggregated stats matching the request.
func (s *AttributionService) ClearResponseStats(ctx context.Context, req *attrv1.ClearStatsRequest) (*attrv1.ClearStatsResponse, error) {
	if err := s.ready(req); err != nil {
		return nil, err
	}
	if req.GetCorrelationId() < 0 {
		return nil, status.Error(codes.InvalidArgument, "correlation_id must not be negative")
	}
	if err := s.authorizer.AuthorizePackage(ctx, req.GetPackageName()); err != nil {
		return nil, authStatus(err)
	}

	start := time.Now()
	removed := s.engine.ClearStats(req.GetPackageName(), req.GetCorrelationId())
	s.observe("clear_response_stats", start)
	metrics.ObserveClear("stats")
	return &attrv1.ClearStatsResponse{Removed: int64(removed)}, nil
}

// ClearEvents invalidates every open window. Stored stats are left intact.
func (s *AttributionService) ClearEvents(ctx context.Context, req *attrv1.ClearEventsRequest) (*attrv1.ClearEventsResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	if err := s.authorizer.AuthorizePrivileged(ctx); err != nil {
		return nil, authStatus(err)
	}

	start := time.Now()
	dropped := s.engine.ClearEvents()
	s.observe("clear_events", start)
	metrics.ObserveClear("events")
	metrics.SetOpenWindows(s.engine.OpenWindows())
	return &attrv1.ClearEventsResponse{Invalidated: int64(dropped)}, nil
}

// GetPolicy returns the policy currently in effect.
func (s *AttributionService) GetPolicy(ctx context.Context, req *attrv1.GetPolicyRequest) (*attrv1.Policy, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	return api.ToRPCPolicy(s.engine.Policy()), nil
}

// LatencyP95 returns the current p95 latency across engine operations.
func (s *AttributionService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

func (s *AttributionService) ready(req any) error {
	if isNil(req) {
		return status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	if s.engine == nil {
		return status.Error(codes.FailedPrecondition, "engine not configured")
	}
	return nil
}

func (s *AttributionService) observe(operation string, start time.Time) {
	duration := time.Since(start)
	metrics.ObserveRequest(operation, duration)
	s.latencies.Observe(duration)
	if count := s.latencies.Count(); count >= 1000 && count%1000 == 0 {
		s.logger.Info("engine latency", slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}
}

func (s *AttributionService) observeEvents(results ...notifications.Result) {
	for _, res := range results {
		metrics.ObserveNotificationEvent(string(res.Event.Kind), res.Attributed)
	}
}

func authStatus(err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, auth.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func isNil(req any) bool {
	switch r := req.(type) {
	case nil:
		return true
	case *attrv1.RecordDispatchRequest:
		return r == nil
	case *attrv1.NotificationEventRequest:
		return r == nil
	case *attrv1.PostNotificationRequest:
		return r == nil
	case *attrv1.CancelNotificationRequest:
		return r == nil
	case *attrv1.QueryRequest:
		return r == nil
	case *attrv1.ClearStatsRequest:
		return r == nil
	default:
		return false
	}
}
