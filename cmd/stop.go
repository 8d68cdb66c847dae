package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hamster-cli/internal/model"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
	"github.com/Tiliavir/hamster-cli/internal/tracker"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking the current activity",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

// activeFinder is implemented by stores that can report the running fact
// directly.
type activeFinder interface {
	Active() (*model.Fact, error)
}

func runStop(cmd *cobra.Command, _ []string) error {
	var active *model.Fact
	if f, ok := rt.store.(activeFinder); ok {
		var err error
		if active, err = f.Active(); err != nil {
			return storageErr(err)
		}
	}

	if err := rt.store.StopTracking(cmd.Context()); err != nil {
		if errors.Is(err, tracker.ErrNoActiveFact) {
			return errors.New("No active activity to stop.")
		}
		return storageErr(err)
	}

	out := cmd.OutOrStdout()
	if active == nil {
		fmt.Fprintln(out, "Stopped.")
		return nil
	}
	elapsed := timecalc.Stamp(now()) - active.StartTime
	fmt.Fprintf(out, "Stopped %s. Elapsed: %s\n",
		model.Activity{Name: active.Name, Category: active.Category}, formatElapsed(elapsed))
	return nil
}

func formatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
