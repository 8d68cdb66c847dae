package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hamster-cli/internal/model"
	"github.com/Tiliavir/hamster-cli/internal/report"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [START[-END]]",
	Short: "Export facts to stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

const exportStamp = "2006-01-02T15:04:05"

// exportRecord is one fact with local wall-clock times.
type exportRecord struct {
	ID              string   `json:"id"`
	Activity        string   `json:"activity"`
	Category        string   `json:"category"`
	Description     string   `json:"description,omitempty"`
	Tags            []string `json:"tags"`
	Start           string   `json:"start"`
	End             string   `json:"end,omitempty"`
	DurationMinutes int64    `json:"duration_minutes"`
	Source          string   `json:"source,omitempty"`
}

func toExportRecord(f model.Fact, loc *time.Location, nowStamp int64) exportRecord {
	rec := exportRecord{
		ID:       f.ID,
		Activity: f.Name,
		Category: f.Category,
		Tags:     f.Tags,
		Start:    timecalc.FromStamp(f.StartTime, loc).Format(exportStamp),
		Source:   f.Source,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if f.Description != nil {
		rec.Description = *f.Description
	}
	end := nowStamp
	if f.EndTime != nil {
		end = *f.EndTime
		rec.End = timecalc.FromStamp(end, loc).Format(exportStamp)
	}
	rec.DurationMinutes = (end - f.StartTime) / 60
	return rec
}

func runExport(cmd *cobra.Command, args []string) error {
	r, err := parseRangeArg(args)
	if err != nil {
		return err
	}
	start, end := report.New(now).Resolve(r)

	facts, err := rt.store.GetFacts(cmd.Context(), timecalc.Stamp(start), timecalc.Stamp(end))
	if err != nil {
		return storageErr(err)
	}
	current := now()
	records := make([]exportRecord, 0, len(facts))
	for _, f := range report.InRange(facts, start, end) {
		records = append(records, toExportRecord(f, current.Location(), timecalc.Stamp(current)))
	}

	out := cmd.OutOrStdout()
	switch exportFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "csv":
		printCSV(out, records)
		return nil
	}
	return fmt.Errorf("unknown export format %q (want csv or json)", exportFormat)
}

func printCSV(w io.Writer, records []exportRecord) {
	fmt.Fprintln(w, "date,activity,category,description,tags,start,end,duration_minutes")
	for _, r := range records {
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%d\n",
			r.Start[:len("2006-01-02")],
			csvEscape(r.Activity),
			csvEscape(r.Category),
			csvEscape(r.Description),
			csvEscape(strings.Join(r.Tags, " ")),
			r.Start,
			r.End,
			r.DurationMinutes,
		)
	}
}

// csvEscape quotes a field containing a comma, quote or line break, doubling
// inner quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
