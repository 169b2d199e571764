package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/miradorstack/broadcast-response/internal/auth"
	attrv1 "github.com/miradorstack/broadcast-response/internal/grpc/attributionv1"
	"github.com/miradorstack/broadcast-response/internal/utils"
)

type step struct {
	name string
	run  func(ctx context.Context) error
	want attrv1.ResponseStats
}

func main() {
	var (
		addr   string
		caller string
		pkg    string
		id     int64
	)
	flag.StringVar(&addr, "addr", "localhost:50061", "Engine address")
	flag.StringVar(&caller, "caller", "com.android.shell", "Caller package")
	flag.StringVar(&pkg, "package", "com.example.receiver", "Receiving package")
	flag.Int64Var(&id, "id", 11, "Correlation id")
	flag.Parse()

	logger := utils.NewLogger("info", false).With(slog.String("component", "scenario"))

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Error("dial engine", slog.String("address", addr), slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()
	client := attrv1.NewAttributionEngineClient(conn)

	ctx, cancel := context.WithTimeout(auth.WithCaller(context.Background(), caller), 30*time.Second)
	defer cancel()

	notification := func(content string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			_, err := client.PostNotification(ctx, &attrv1.PostNotificationRequest{PackageName: pkg, NotificationKey: "scenario", Content: []byte(content)})
			return err
		}
	}
	steps := []step{
		{
			name: "clear",
			run: func(ctx context.Context) error {
				_, err := client.ClearResponseStats(ctx, &attrv1.ClearStatsRequest{PackageName: pkg, CorrelationId: id})
				return err
			},
		},
		{
			name: "dispatch",
			run: func(ctx context.Context) error {
				_, err := client.RecordDispatch(ctx, &attrv1.RecordDispatchRequest{PackageName: pkg, CorrelationId: id, Importance: "cached_empty"})
				return err
			},
			want: attrv1.ResponseStats{BroadcastsDispatchedCount: 1},
		},
		{
			name: "post",
			run:  notification("first"),
			want: attrv1.ResponseStats{BroadcastsDispatchedCount: 1, NotificationsPostedCount: 1},
		},
		{
			name: "update",
			run:  notification("second"),
			want: attrv1.ResponseStats{BroadcastsDispatchedCount: 1, NotificationsPostedCount: 1, NotificationsUpdatedCount: 1},
		},
		{
			name: "cancel",
			run: func(ctx context.Context) error {
				_, err := client.CancelNotification(ctx, &attrv1.CancelNotificationRequest{PackageName: pkg, NotificationKey: "scenario"})
				return err
			},
			want: attrv1.ResponseStats{BroadcastsDispatchedCount: 1, NotificationsPostedCount: 1, NotificationsUpdatedCount: 1, NotificationsCancelledCount: 1},
		},
		{
			name: "clear",
			run: func(ctx context.Context) error {
				_, err := client.ClearResponseStats(ctx, &attrv1.ClearStatsRequest{PackageName: pkg, CorrelationId: id})
				return err
			},
		},
	}

	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			logger.Error("step failed", slog.String("step", s.name), slog.Any("error", err))
			os.Exit(1)
		}
		if err := verify(ctx, client, pkg, id, s.want); err != nil {
			logger.Error("unexpected stats", slog.String("step", s.name), slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("step ok", slog.String("step", s.name))
	}
	logger.Info("scenario passed", slog.String("package", pkg), slog.Int64("correlation_id", id))
}

func verify(ctx context.Context, client attrv1.AttributionEngineClient, pkg string, id int64, want attrv1.ResponseStats) error {
	resp, err := client.QueryResponseStats(ctx, &attrv1.QueryRequest{PackageName: pkg, CorrelationId: id})
	if err != nil {
		return err
	}
	if len(resp.GetStats()) != 1 {
		return fmt.Errorf("expected one record, got %d", len(resp.GetStats()))
	}
	got := resp.GetStats()[0]
	if got.BroadcastsDispatchedCount != want.BroadcastsDispatchedCount ||
		got.NotificationsPostedCount != want.NotificationsPostedCount ||
		got.NotificationsUpdatedCount != want.NotificationsUpdatedCount ||
		got.NotificationsCancelledCount != want.NotificationsCancelledCount {
		return fmt.Errorf("got %+v, want %+v", *got, want)
	}
	return nil
}
