package attributionv1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

func TestJSONCodecRegistered(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec)

	data, err := codec.Marshal(&QueryRequest{PackageName: "com.example.app", CorrelationId: 11})
	require.NoError(t, err)
	require.JSONEq(t, `{"package_name":"com.example.app","correlation_id":11}`, string(data))

	var decoded QueryRequest
	require.NoError(t, codec.Unmarshal(data, &decoded))
	require.Equal(t, int64(11), decoded.GetCorrelationId())

	var empty ClearEventsRequest
	require.NoError(t, codec.Unmarshal(nil, &empty))
	require.Error(t, codec.Unmarshal([]byte("{"), &decoded))
}

func TestNilGetters(t *testing.T) {
	var req *RecordDispatchRequest
	require.Empty(t, req.GetPackageName())
	require.Zero(t, req.GetCorrelationId())

	var resp *QueryResponse
	require.Nil(t, resp.GetStats())
}

type dispatchRecorder struct {
	UnimplementedAttributionEngineServer
	got *RecordDispatchRequest
}

func (d *dispatchRecorder) RecordDispatch(_ context.Context, req *RecordDispatchRequest) (*RecordDispatchResponse, error) {
	d.got = req
	return &RecordDispatchResponse{Recorded: true, Outcome: "recorded"}, nil
}

func TestServiceDescHandlers(t *testing.T) {
	require.Empty(t, AttributionEngine_ServiceDesc.Metadata)
	require.Len(t, AttributionEngine_ServiceDesc.Methods, 8)

	var handler func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error)
	for _, m := range AttributionEngine_ServiceDesc.Methods {
		require.NotNil(t, m.Handler, m.MethodName)
		if m.MethodName == "RecordDispatch" {
			handler = m.Handler
		}
	}
	require.NotNil(t, handler)

	srv := &dispatchRecorder{}
	dec := func(v any) error {
		return encoding.GetCodec(CodecName).Unmarshal([]byte(`{"package_name":"com.example.app","correlation_id":3}`), v)
	}

	out, err := handler(srv, context.Background(), dec, nil)
	require.NoError(t, err)
	require.True(t, out.(*RecordDispatchResponse).GetRecorded())
	require.Equal(t, int64(3), srv.got.GetCorrelationId())

	var seen string
	intercept := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return next(ctx, req)
	}
	_, err = handler(srv, context.Background(), dec, intercept)
	require.NoError(t, err)
	require.Equal(t, AttributionEngine_RecordDispatch_FullMethodName, seen)

	_, err = (UnimplementedAttributionEngineServer{}).GetPolicy(context.Background(), &GetPolicyRequest{})
	require.Equal(t, codes.Unimplemented, status.Code(err))
}
