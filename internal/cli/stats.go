package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	attrv1 "github.com/miradorstack/broadcast-response/internal/grpc/attributionv1"
)

func init() {
	query := &cobra.Command{
		Use:   "query",
		Short: "Show response stats; omit --package to list every package",
		RunE:  runQuery,
	}
	query.Flags().StringP("package", "p", "", "Package to query")
	query.Flags().Int64P("id", "i", 0, "Correlation id; 0 lists every id")

	clearStats := &cobra.Command{
		Use:   "clear-stats",
		Short: "Clear response stats; omit --package to clear every package",
		RunE:  runClearStats,
	}
	clearStats.Flags().StringP("package", "p", "", "Package to clear")
	clearStats.Flags().Int64P("id", "i", 0, "Correlation id; 0 clears every id")

	clearEvents := &cobra.Command{
		Use:   "clear-events",
		Short: "Forget every open attribution window",
		RunE:  runClearEvents,
	}

	policy := &cobra.Command{
		Use:   "policy",
		Short: "Show the attribution policy in effect",
		RunE:  runPolicy,
	}

	RootCmd.AddCommand(query, clearStats, clearEvents, policy)
}

func runQuery(cmd *cobra.Command, args []string) error {
	pkg, _ := cmd.Flags().GetString("package")
	id, _ := cmd.Flags().GetInt64("id")

	return withClient(cmd, func(ctx context.Context, client attrv1.AttributionEngineClient) error {
		resp, err := client.QueryResponseStats(ctx, &attrv1.QueryRequest{PackageName: pkg, CorrelationId: id})
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
			return writeStats(w, resp.GetStats())
		})
	})
}

func runClearStats(cmd *cobra.Command, args []string) error {
	pkg, _ := cmd.Flags().GetString("package")
	id, _ := cmd.Flags().GetInt64("id")

	return withClient(cmd, func(ctx context.Context, client attrv1.AttributionEngineClient) error {
		resp, err := client.ClearResponseStats(ctx, &attrv1.ClearStatsRequest{PackageName: pkg, CorrelationId: id})
		if err != nil {
			return fmt.Errorf("clear stats: %w", err)
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "removed %d\n", resp.GetRemoved())
			return err
		})
	})
}

func runClearEvents(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, client attrv1.AttributionEngineClient) error {
		resp, err := client.ClearEvents(ctx, &attrv1.ClearEventsRequest{})
		if err != nil {
			return fmt.Errorf("clear events: %w", err)
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "invalidated %d\n", resp.GetInvalidated())
			return err
		})
	})
}

func runPolicy(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, client attrv1.AttributionEngineClient) error {
		resp, err := client.GetPolicy(ctx, &attrv1.GetPolicyRequest{})
		if err != nil {
			return fmt.Errorf("get policy: %w", err)
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
			return writePolicy(w, resp)
		})
	})
}
