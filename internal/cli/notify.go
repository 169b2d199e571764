package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	attrv1 "github.com/miradorstack/broadcast-response/internal/grpc/attributionv1"
)

func init() {
	notify := &cobra.Command{
		Use:   "notify",
		Short: "Feed notification activity for a package",
	}
	notify.PersistentFlags().StringP("package", "p", "", "Posting package (required)")
	notify.MarkPersistentFlagRequired("package")

	post := &cobra.Command{
		Use:     "post",
		Aliases: []string{"update"},
		Short:   "Post a notification; reposting a key with new content is an update",
		RunE:    runNotifyPost,
	}
	post.Flags().StringP("key", "k", "", "Notification key (required)")
	post.Flags().String("content", "", "Notification content")
	post.MarkFlagRequired("key")

	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel an active notification",
		RunE:  runNotifyCancel,
	}
	cancel.Flags().StringP("key", "k", "", "Notification key (required)")
	cancel.MarkFlagRequired("key")

	cancelAll := &cobra.Command{
		Use:   "cancel-all",
		Short: "Cancel every active notification of the package",
		RunE:  runNotifyCancelAll,
	}

	event := &cobra.Command{
		Use:   "event",
		Short: "Record an already classified notification event",
		RunE:  runNotifyEvent,
	}
	event.Flags().StringP("key", "k", "", "Notification key")
	event.Flags().String("kind", "", "posted, updated or cancelled (required)")
	event.MarkFlagRequired("kind")

	notify.AddCommand(post, cancel, cancelAll, event)
	RootCmd.AddCommand(notify)
}

func runNotifyPost(cmd *cobra.Command, args []string) error {
	pkg, _ := cmd.Flags().GetString("package")
	key, _ := cmd.Flags().GetString("key")
	content, _ := cmd.Flags().GetString("content")

	return withClient(cmd, func(ctx context.Context, client attrv1.AttributionEngineClient) error {
		resp, err := client.PostNotification(ctx, &attrv1.PostNotificationRequest{
			PackageName:     pkg,
			NotificationKey: key,
			Content:         []byte(content),
		})
		if err != nil {
			return fmt.Errorf("post notification: %w", err)
		}
		return renderEvents(cmd, resp)
	})
}

func runNotifyCancel(cmd *cobra.Command, args []string) error {
	pkg, _ := cmd.Flags().GetString("package")
	key, _ := cmd.Flags().GetString("key")
	return cancelNotifications(cmd, &attrv1.CancelNotificationRequest{PackageName: pkg, NotificationKey: key})
}

func runNotifyCancelAll(cmd *cobra.Command, args []string) error {
	pkg, _ := cmd.Flags().GetString("package")
	return cancelNotifications(cmd, &attrv1.CancelNotificationRequest{PackageName: pkg, All: true})
}

func cancelNotifications(cmd *cobra.Command, req *attrv1.CancelNotificationRequest) error {
	return withClient(cmd, func(ctx context.Context, client attrv1.AttributionEngineClient) error {
		resp, err := client.CancelNotification(ctx, req)
		if err != nil {
			return fmt.Errorf("cancel notification: %w", err)
		}
		return renderEvents(cmd, resp)
	})
}

func runNotifyEvent(cmd *cobra.Command, args []string) error {
	pkg, _ := cmd.Flags().GetString("package")
	key, _ := cmd.Flags().GetString("key")
	kind, _ := cmd.Flags().GetString("kind")

	return withClient(cmd, func(ctx context.Context, client attrv1.AttributionEngineClient) error {
		resp, err := client.RecordNotificationEvent(ctx, &attrv1.NotificationEventRequest{
			PackageName:     pkg,
			NotificationKey: key,
			Kind:            kind,
		})
		if err != nil {
			return fmt.Errorf("record notification event: %w", err)
		}
		return renderEvents(cmd, resp)
	})
}

func renderEvents(cmd *cobra.Command, resp *attrv1.NotificationEventResponse) error {
	return render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
		return writeEvents(w, resp.GetEvents())
	})
}
