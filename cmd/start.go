package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hamster-cli/internal/model"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
)

var startCmd = &cobra.Command{
	Use:   "start ACTIVITY [START[-END]]",
	Short: "Start tracking an activity",
	Long: `Start tracking ACTIVITY, written as name[@category][, description] [#tag ...].

With START the activity began in the past; with START-END a completed
activity is recorded. Neither may lie in the future.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	activity := args[0]

	var start, end int64
	when := now()
	if len(args) > 1 {
		r, err := rt.parser.ParseRange(args[1])
		if err != nil {
			return err
		}
		current := now()
		if r.Start.After(current) || (r.End != nil && r.End.After(current)) {
			return errors.New("Activity must start and finish before current time")
		}
		when = r.Start
		start = timecalc.Stamp(r.Start)
		if r.End != nil {
			end = timecalc.Stamp(*r.End)
		}
	}

	if err := rt.store.AddFact(cmd.Context(), activity, start, end); err != nil {
		return storageErr(err)
	}

	a := model.ParseActivity(activity)
	verb := "Started"
	if end != 0 {
		verb = "Recorded"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s\n", verb, model.Activity{Name: a.Name, Category: a.Category}, when.Format("15:04:05"))
	return nil
}
