package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	attrv1 "github.com/miradorstack/broadcast-response/internal/grpc/attributionv1"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Record a broadcast dispatch to a package",
		RunE:  runDispatch,
	}

	cmd.Flags().StringP("package", "p", "", "Receiving package (required)")
	cmd.Flags().Int64P("id", "i", 0, "Correlation id; 0 records nothing")
	cmd.Flags().String("importance", "cached_empty", "Receiver importance class at dispatch time")

	cmd.MarkFlagRequired("package")

	RootCmd.AddCommand(cmd)
}

func runDispatch(cmd *cobra.Command, args []string) error {
	pkg, _ := cmd.Flags().GetString("package")
	id, _ := cmd.Flags().GetInt64("id")
	importance, _ := cmd.Flags().GetString("importance")

	return withClient(cmd, func(ctx context.Context, client attrv1.AttributionEngineClient) error {
		resp, err := client.RecordDispatch(ctx, &attrv1.RecordDispatchRequest{
			PackageName:   pkg,
			CorrelationId: id,
			Importance:    importance,
		})
		if err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%s %s/%d\n", resp.GetOutcome(), pkg, id)
			return err
		})
	})
}
