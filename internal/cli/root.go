// Package cli implements the responsectl admin commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/miradorstack/broadcast-response/internal/auth"
	attrv1 "github.com/miradorstack/broadcast-response/internal/grpc/attributionv1"
)

var (
	addrFlag    string
	callerFlag  string
	timeoutFlag time.Duration
	formatFlag  string

	// dialOptions are appended to every connection; tests swap in an in-memory dialer.
	dialOptions []grpc.DialOption
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "responsectl",
	Short:         "Inspect and drive the broadcast response engine",
	Long:          "Admin client for the broadcast response engine: record dispatches, feed notification events, query and clear response stats.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&addrFlag, "addr", "a", "", "Engine address (default: $RESPONSECTL_ADDR or localhost:50061)")
	RootCmd.PersistentFlags().StringVarP(&callerFlag, "caller", "c", "com.android.shell", "Caller package sent with every request")
	RootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 5*time.Second, "Per-request timeout")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
}

func getAddr() string {
	if addrFlag != "" {
		return addrFlag
	}
	if env := os.Getenv("RESPONSECTL_ADDR"); env != "" {
		return env
	}
	return "localhost:50061"
}

// withClient dials the engine, runs fn with a caller-scoped context and closes the connection.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client attrv1.AttributionEngineClient) error) error {
	opts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, dialOptions...)
	conn, err := grpc.NewClient(getAddr(), opts...)
	if err != nil {
		return fmt.Errorf("dial %s: %w", getAddr(), err)
	}
	defer conn.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeoutFlag)
	defer cancel()

	return fn(auth.WithCaller(ctx, callerFlag), attrv1.NewAttributionEngineClient(conn))
}
