package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	attrv1 "github.com/miradorstack/broadcast-response/internal/grpc/attributionv1"
)

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func render(w io.Writer, v any, text func(io.Writer) error) error {
	switch formatFlag {
	case "json":
		return printJSON(w, v)
	case "text", "":
		return text(w)
	default:
		return fmt.Errorf("unknown output format %q", formatFlag)
	}
}

func writeStats(w io.Writer, stats []*attrv1.ResponseStats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tID\tDISPATCHED\tPOSTED\tUPDATED\tCANCELLED")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
			s.PackageName, s.CorrelationId,
			s.BroadcastsDispatchedCount, s.NotificationsPostedCount,
			s.NotificationsUpdatedCount, s.NotificationsCancelledCount)
	}
	return tw.Flush()
}

func writeEvents(w io.Writer, events []*attrv1.NotificationEvent) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "no event")
		return err
	}
	for _, ev := range events {
		target := "unattributed"
		if ev.Attributed {
			target = fmt.Sprintf("attributed to %d", ev.CorrelationId)
		}
		if _, err := fmt.Fprintf(w, "%s %s/%s %s\n", ev.Kind, ev.PackageName, ev.NotificationKey, target); err != nil {
			return err
		}
	}
	return nil
}

func writePolicy(w io.Writer, p *attrv1.Policy) error {
	window := time.Duration(p.GetWindowDurationMs()) * time.Millisecond
	_, err := fmt.Fprintf(w, "window: %s\nforeground threshold: %s\n", window, p.GetForegroundThreshold())
	return err
}
