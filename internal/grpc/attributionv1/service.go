package attributionv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "attribution.v1.AttributionEngine"

const (
	AttributionEngine_RecordDispatch_FullMethodName          = "/" + serviceName + "/RecordDispatch"
	AttributionEngine_RecordNotificationEvent_FullMethodName = "/" + serviceName + "/RecordNotificationEvent"
	AttributionEngine_PostNotification_FullMethodName        = "/" + serviceName + "/PostNotification"
	AttributionEngine_CancelNotification_FullMethodName      = "/" + serviceName + "/CancelNotification"
	AttributionEngine_QueryResponseStats_FullMethodName      = "/" + serviceName + "/QueryResponseStats"
	AttributionEngine_ClearResponseStats_FullMethodName      = "/" + serviceName + "/ClearResponseStats"
	AttributionEngine_ClearEvents_FullMethodName             = "/" + serviceName + "/ClearEvents"
	AttributionEngine_GetPolicy_FullMethodName               = "/" + serviceName + "/GetPolicy"
)

// AttributionEngineServer is the server API for the AttributionEngine service.
type AttributionEngineServer interface {
	RecordDispatch(context.Context, *RecordDispatchRequest) (*RecordDispatchResponse, error)
	RecordNotificationEvent(context.Context, *NotificationEventRequest) (*NotificationEventResponse, error)
	PostNotification(context.Context, *PostNotificationRequest) (*NotificationEventResponse, error)
	CancelNotification(context.Context, *CancelNotificationRequest) (*NotificationEventResponse, error)
	QueryResponseStats(context.Context, *QueryRequest) (*QueryResponse, error)
	ClearResponseStats(context.Context, *ClearStatsRequest) (*ClearStatsResponse, error)
	ClearEvents(context.Context, *ClearEventsRequest) (*ClearEventsResponse, error)
	GetPolicy(context.Context, *GetPolicyRequest) (*Policy, error)
	mustEmbedUnimplementedAttributionEngineServer()
}

// UnimplementedAttributionEngineServer must be embedded to have forward compatible implementations.
type UnimplementedAttributionEngineServer struct{}

func (UnimplementedAttributionEngineServer) RecordDispatch(context.Context, *RecordDispatchRequest) (*RecordDispatchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordDispatch not implemented")
}

func (UnimplementedAttributionEngineServer) RecordNotificationEvent(context.Context, *NotificationEventRequest) (*NotificationEventResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordNotificationEvent not implemented")
}

func (UnimplementedAttributionEngineServer) PostNotification(context.Context, *PostNotificationRequest) (*NotificationEventResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PostNotification not implemented")
}

func (UnimplementedAttributionEngineServer) CancelNotification(context.Context, *CancelNotificationRequest) (*NotificationEventResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelNotification not implemented")
}

func (UnimplementedAttributionEngineServer) QueryResponseStats(context.Context, *QueryRequest) (*QueryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method QueryResponseStats not implemented")
}

func (UnimplementedAttributionEngineServer) ClearResponseStats(context.Context, *ClearStatsRequest) (*ClearStatsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearResponseStats not implemented")
}

func (UnimplementedAttributionEngineServer) ClearEvents(context.Context, *ClearEventsRequest) (*ClearEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearEvents not implemented")
}

func (UnimplementedAttributionEngineServer) GetPolicy(context.Context, *GetPolicyRequest) (*Policy, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPolicy not implemented")
}

func (UnimplementedAttributionEngineServer) mustEmbedUnimplementedAttributionEngineServer() {}

// RegisterAttributionEngineServer registers srv on s.
func RegisterAttributionEngineServer(s grpc.ServiceRegistrar, srv AttributionEngineServer) {
	s.RegisterService(&AttributionEngine_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to the handler signature of grpc.MethodDesc.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AttributionEngineServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AttributionEngineServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AttributionEngineServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AttributionEngine_ServiceDesc is the grpc.ServiceDesc for the AttributionEngine service.
var AttributionEngine_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AttributionEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RecordDispatch",
			Handler:    unaryHandler(AttributionEngine_RecordDispatch_FullMethodName, AttributionEngineServer.RecordDispatch),
		},
		{
			MethodName: "RecordNotificationEvent",
			Handler:    unaryHandler(AttributionEngine_RecordNotificationEvent_FullMethodName, AttributionEngineServer.RecordNotificationEvent),
		},
		{
			MethodName: "PostNotification",
			Handler:    unaryHandler(AttributionEngine_PostNotification_FullMethodName, AttributionEngineServer.PostNotification),
		},
		{
			MethodName: "CancelNotification",
			Handler:    unaryHandler(AttributionEngine_CancelNotification_FullMethodName, AttributionEngineServer.CancelNotification),
		},
		{
			MethodName: "QueryResponseStats",
			Handler:    unaryHandler(AttributionEngine_QueryResponseStats_FullMethodName, AttributionEngineServer.QueryResponseStats),
		},
		{
			MethodName: "ClearResponseStats",
			Handler:    unaryHandler(AttributionEngine_ClearResponseStats_FullMethodName, AttributionEngineServer.ClearResponseStats),
		},
		{
			MethodName: "ClearEvents",
			Handler:    unaryHandler(AttributionEngine_ClearEvents_FullMethodName, AttributionEngineServer.ClearEvents),
		},
		{
			MethodName: "GetPolicy",
			Handler:    unaryHandler(AttributionEngine_GetPolicy_FullMethodName, AttributionEngineServer.GetPolicy),
		},
	},
	Streams: []grpc.StreamDesc{},
	// No descriptor file backs this service, so reflection lists it without a schema.
	Metadata: "",
}

// AttributionEngineClient is the client API for the AttributionEngine service.
type AttributionEngineClient interface {
	RecordDispatch(ctx context.Context, in *RecordDispatchRequest, opts ...grpc.CallOption) (*RecordDispatchResponse, error)
	RecordNotificationEvent(ctx context.Context, in *NotificationEventRequest, opts ...grpc.CallOption) (*NotificationEventResponse, error)
	PostNotification(ctx context.Context, in *PostNotificationRequest, opts ...grpc.CallOption) (*NotificationEventResponse, error)
	CancelNotification(ctx context.Context, in *CancelNotificationRequest, opts ...grpc.CallOption) (*NotificationEventResponse, error)
	QueryResponseStats(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error)
	ClearResponseStats(ctx context.Context, in *ClearStatsRequest, opts ...grpc.CallOption) (*ClearStatsResponse, error)
	ClearEvents(ctx context.Context, in *ClearEventsRequest, opts ...grpc.CallOption) (*ClearEventsResponse, error)
	GetPolicy(ctx context.Context, in *GetPolicyRequest, opts ...grpc.CallOption) (*Policy, error)
}

type attributionEngineClient struct {
	cc grpc.ClientConnInterface
}

// NewAttributionEngineClient wraps cc. Every call is sent with the JSON codec.
func NewAttributionEngineClient(cc grpc.ClientConnInterface) AttributionEngineClient {
	return &attributionEngineClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *attributionEngineClient) RecordDispatch(ctx context.Context, in *RecordDispatchRequest, opts ...grpc.CallOption) (*RecordDispatchResponse, error) {
	return invoke[RecordDispatchResponse](ctx, c.cc, AttributionEngine_RecordDispatch_FullMethodName, in, opts)
}

func (c *attributionEngineClient) RecordNotificationEvent(ctx context.Context, in *NotificationEventRequest, opts ...grpc.CallOption) (*NotificationEventResponse, error) {
	return invoke[NotificationEventResponse](ctx, c.cc, AttributionEngine_RecordNotificationEvent_FullMethodName, in, opts)
}

func (c *attributionEngineClient) PostNotification(ctx context.Context, in *PostNotificationRequest, opts ...grpc.CallOption) (*NotificationEventResponse, error) {
	return invoke[NotificationEventResponse](ctx, c.cc, AttributionEngine_PostNotification_FullMethodName, in, opts)
}

func (c *attributionEngineClient) CancelNotification(ctx context.Context, in *CancelNotificationRequest, opts ...grpc.CallOption) (*NotificationEventResponse, error) {
	return invoke[NotificationEventResponse](ctx, c.cc, AttributionEngine_CancelNotification_FullMethodName, in, opts)
}

func (c *attributionEngineClient) QueryResponseStats(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error) {
	return invoke[QueryResponse](ctx, c.cc, AttributionEngine_QueryResponseStats_FullMethodName, in, opts)
}

func (c *attributionEngineClient) ClearResponseStats(ctx context.Context, in *ClearStatsRequest, opts ...grpc.CallOption) (*ClearStatsResponse, error) {
	return invoke[ClearStatsResponse](ctx, c.cc, AttributionEngine_ClearResponseStats_FullMethodName, in, opts)
}

func (c *attributionEngineClient) ClearEvents(ctx context.Context, in *ClearEventsRequest, opts ...grpc.CallOption) (*ClearEventsResponse, error) {
	return invoke[ClearEventsResponse](ctx, c.cc, AttributionEngine_ClearEvents_FullMethodName, in, opts)
}

func (c *attributionEngineClient) GetPolicy(ctx context.Context, in *GetPolicyRequest, opts ...grpc.CallOption) (*Policy, error) {
	return invoke[Policy](ctx, c.cc, AttributionEngine_GetPolicy_FullMethodName, in, opts)
}
