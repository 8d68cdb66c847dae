package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hamster-cli/internal/model"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running activity or today's total",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	current := now()
	nowStamp := timecalc.Stamp(current)
	facts, err := rt.store.GetFacts(cmd.Context(),
		timecalc.Stamp(timecalc.StartOfDay(current)), timecalc.Stamp(timecalc.EndOfDay(current)))
	if err != nil {
		return storageErr(err)
	}

	var active *model.Fact
	if f, ok := rt.store.(activeFinder); ok {
		if active, err = f.Active(); err != nil {
			return storageErr(err)
		}
	} else {
		for i := len(facts) - 1; i >= 0; i-- {
			if facts[i].EndTime == nil {
				active = &facts[i]
				break
			}
		}
	}

	out := cmd.OutOrStdout()
	if active != nil {
		fmt.Fprintln(out, "Running:")
		fmt.Fprintf(out, "  Activity: %s\n", model.Activity{Name: active.Name, Category: active.Category})
		if active.Description != nil {
			fmt.Fprintf(out, "  Description: %s\n", *active.Description)
		}
		fmt.Fprintf(out, "  Since: %s\n", timecalc.FromStamp(active.StartTime, current.Location()).Format("15:04"))
		fmt.Fprintf(out, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(nowStamp-active.StartTime))
		return nil
	}

	var total int64
	for _, f := range facts {
		if f.EndTime != nil {
			total += *f.EndTime - f.StartTime
		}
	}
	fmt.Fprintln(out, "No activity is being tracked.")
	fmt.Fprintf(out, "Today: %s logged.\n", timecalc.FormatDuration(total))
	return nil
}
