package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hamster-cli/internal/report"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report [START[-END]]",
	Short: "Show the total time per activity",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type reportJSON struct {
	From         string           `json:"from"`
	To           string           `json:"to"`
	Activities   []activityMinute `json:"activities"`
	TotalMinutes int64            `json:"total_minutes"`
}

type activityMinute struct {
	Activity        string `json:"activity"`
	Category        string `json:"category"`
	DurationMinutes int64  `json:"duration_minutes"`
}

func runReport(cmd *cobra.Command, args []string) error {
	r, err := parseRangeArg(args)
	if err != nil {
		return err
	}
	start, end := report.New(now).Resolve(r)

	facts, err := rt.store.GetFacts(cmd.Context(), timecalc.Stamp(start), timecalc.Stamp(end))
	if err != nil {
		return storageErr(err)
	}
	totals := report.Totals(report.InRange(facts, start, end))

	var grandTotal int64
	for _, t := range totals {
		grandTotal += t.Seconds
	}

	out := cmd.OutOrStdout()
	switch reportFormat {
	case "csv":
		fmt.Fprintln(out, "activity,category,duration_minutes")
		for _, t := range totals {
			fmt.Fprintf(out, "%s,%s,%d\n", csvEscape(t.Activity.Name), csvEscape(t.Activity.Category), t.Seconds/60)
		}
	case "json":
		doc := reportJSON{
			From:         start.Format("2006-01-02T15:04:05"),
			To:           end.Format("2006-01-02T15:04:05"),
			Activities:   make([]activityMinute, 0, len(totals)),
			TotalMinutes: grandTotal / 60,
		}
		for _, t := range totals {
			doc.Activities = append(doc.Activities, activityMinute{
				Activity:        t.Activity.Name,
				Category:        t.Activity.Category,
				DurationMinutes: t.Seconds / 60,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "md":
		label := start.Format("2006-01-02")
		if !timecalc.SameDay(start, end) {
			label += " - " + end.Format("2006-01-02")
		}
		fmt.Fprintf(out, "Report %s\n", label)
		fmt.Fprintln(out, "--------------------------------")
		for _, t := range totals {
			fmt.Fprintf(out, "%-24s%s\n", t.Activity, timecalc.FormatDuration(t.Seconds))
		}
		fmt.Fprintln(out, "--------------------------------")
		fmt.Fprintf(out, "%-24s%s\n", "Total", timecalc.FormatDuration(grandTotal))
	default:
		return fmt.Errorf("unknown report format %q (want md, csv or json)", reportFormat)
	}
	return nil
}
