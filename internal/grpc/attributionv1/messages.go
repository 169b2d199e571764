// Package attributionv1 defines the wire contract of the AttributionEngine gRPC service.
package attributionv1

// RecordDispatchRequest reports a broadcast delivered with a response-recording request.
type RecordDispatchRequest struct {
	PackageName   string `json:"package_name"`
	CorrelationId int64  `json:"correlation_id"`
	// Importance is the destination's importance class name ("top") or number.
	Importance string `json:"importance"`
}

func (x *RecordDispatchRequest) GetPackageName() string {
	if x == nil {
		return ""
	}
	return x.PackageName
}

func (x *RecordDispatchRequest) GetCorrelationId() int64 {
	if x == nil {
		return 0
	}
	return x.CorrelationId
}

func (x *RecordDispatchRequest) GetImportance() string {
	if x == nil {
		return ""
	}
	return x.Importance
}

type RecordDispatchResponse struct {
	Recorded bool   `json:"recorded"`
	Outcome  string `json:"outcome"`
}

func (x *RecordDispatchResponse) GetRecorded() bool {
	return x != nil && x.Recorded
}

func (x *RecordDispatchResponse) GetOutcome() string {
	if x == nil {
		return ""
	}
	return x.Outcome
}

// NotificationEventRequest carries an already classified notification transition.
type NotificationEventRequest struct {
	PackageName     string `json:"package_name"`
	NotificationKey string `json:"notification_key"`
	Kind            string `json:"kind"`
}

func (x *NotificationEventRequest) GetPackageName() string {
	if x == nil {
		return ""
	}
	return x.PackageName
}

func (x *NotificationEventRequest) GetNotificationKey() string {
	if x == nil {
		return ""
	}
	return x.NotificationKey
}

func (x *NotificationEventRequest) GetKind() string {
	if x == nil {
		return ""
	}
	return x.Kind
}

// PostNotificationRequest reports a notification being enqueued by PackageName.
type PostNotificationRequest struct {
	PackageName     string `json:"package_name"`
	NotificationKey string `json:"notification_key"`
	Content         []byte `json:"content,omitempty"`
}

func (x *PostNotificationRequest) GetPackageName() string {
	if x == nil {
		return ""
	}
	return x.PackageName
}

func (x *PostNotificationRequest) GetNotificationKey() string {
	if x == nil {
		return ""
	}
	return x.NotificationKey
}

func (x *PostNotificationRequest) GetContent() []byte {
	if x == nil {
		return nil
	}
	return x.Content
}

// CancelNotificationRequest removes one notification, or every notification of the
// package when All is set.
type CancelNotificationRequest struct {
	PackageName     string `json:"package_name"`
	NotificationKey string `json:"notification_key,omitempty"`
	All             bool   `json:"all,omitempty"`
}

func (x *CancelNotificationRequest) GetPackageName() string {
	if x == nil {
		return ""
	}
	return x.PackageName
}

func (x *CancelNotificationRequest) GetNotificationKey() string {
	if x == nil {
		return ""
	}
	return x.NotificationKey
}

func (x *CancelNotificationRequest) GetAll() bool {
	return x != nil && x.All
}

// NotificationEvent is one classified transition and its attribution.
type NotificationEvent struct {
	PackageName     string `json:"package_name"`
	NotificationKey string `json:"notification_key"`
	Kind            string `json:"kind"`
	Attributed      bool   `json:"attributed"`
	CorrelationId   int64  `json:"correlation_id,omitempty"`
}

type NotificationEventResponse struct {
	Events []*NotificationEvent `json:"events"`
}

func (x *NotificationEventResponse) GetEvents() []*NotificationEvent {
	if x == nil {
		return nil
	}
	return x.Events
}

// QueryRequest selects response stats; an empty package or a zero id acts as a wildcard.
type QueryRequest struct {
	PackageName   string `json:"package_name,omitempty"`
	CorrelationId int64  `json:"correlation_id"`
}

func (x *QueryRequest) GetPackageName() string {
	if x == nil {
		return ""
	}
	return x.PackageName
}

func (x *QueryRequest) GetCorrelationId() int64 {
	if x == nil {
		return 0
	}
	return x.CorrelationId
}

type ResponseStats struct {
	PackageName                 string `json:"package_name"`
	CorrelationId               int64  `json:"correlation_id"`
	BroadcastsDispatchedCount   uint64 `json:"broadcasts_dispatched_count"`
	NotificationsPostedCount    uint64 `json:"notifications_posted_count"`
	NotificationsUpdatedCount   uint64 `json:"notifications_updated_count"`
	NotificationsCancelledCount uint64 `json:"notifications_cancelled_count"`
}

type QueryResponse struct {
	Stats []*ResponseStats `json:"stats"`
}

func (x *QueryResponse) GetStats() []*ResponseStats {
	if x == nil {
		return nil
	}
	return x.Stats
}

// ClearStatsRequest selects the counters to remove; zero fields act as wildcards.
type ClearStatsRequest struct {
	PackageName   string `json:"package_name,omitempty"`
	CorrelationId int64  `json:"correlation_id"`
}

func (x *ClearStatsRequest) GetPackageName() string {
	if x == nil {
		return ""
	}
	return x.PackageName
}

func (x *ClearStatsRequest) GetCorrelationId() int64 {
	if x == nil {
		return 0
	}
	return x.CorrelationId
}

type ClearStatsResponse struct {
	Removed int64 `json:"removed"`
}

func (x *ClearStatsResponse) GetRemoved() int64 {
	if x == nil {
		return 0
	}
	return x.Removed
}

type ClearEventsRequest struct{}

type ClearEventsResponse struct {
	Invalidated int64 `json:"invalidated"`
}

func (x *ClearEventsResponse) GetInvalidated() int64 {
	if x == nil {
		return 0
	}
	return x.Invalidated
}

type GetPolicyRequest struct{}

type Policy struct {
	WindowDurationMs    int64  `json:"window_duration_ms"`
	ForegroundThreshold string `json:"foreground_threshold"`
}

func (x *Policy) GetWindowDurationMs() int64 {
	if x == nil {
		return 0
	}
	return x.WindowDurationMs
}

func (x *Policy) GetForegroundThreshold() string {
	if x == nil {
		return ""
	}
	return x.ForegroundThreshold
}
