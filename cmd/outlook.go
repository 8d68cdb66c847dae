package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/hamster-cli/internal/config"
	"github.com/Tiliavir/hamster-cli/internal/msgraph"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
)

var (
	outlookSyncFrom     string
	outlookSyncTo       string
	outlookSyncDate     string
	outlookSyncDryRun   bool
	outlookSyncCategory string
	outlookSyncTZ       string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as facts",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncCategory, "category", "", "Category for imported events (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

func parseDay(flag, value string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s value %q: %w", flag, value, err)
	}
	return d, nil
}

// syncWindow resolves the day flags into the import window. The default is
// today.
func syncWindow(current time.Time, date, from, to string) (time.Time, time.Time, error) {
	switch {
	case date != "":
		d, err := parseDay("date", date)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case from != "" || to != "":
		if from == "" {
			return time.Time{}, time.Time{}, errors.New("--from is required when --to is specified")
		}
		f, err := parseDay("from", from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end := timecalc.EndOfDay(current)
		if to != "" {
			t, err := parseDay("to", to)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			end = timecalc.EndOfDay(t)
		}
		return timecalc.StartOfDay(f), end, nil
	}
	return timecalc.StartOfDay(current), timecalc.EndOfDay(current), nil
}

func runOutlookSync(cmd *cobra.Command, _ []string) error {
	if rt.cfg.Backend != config.BackendFile {
		return fmt.Errorf("outlook sync needs the %q backend (configured: %q)", config.BackendFile, rt.cfg.Backend)
	}

	from, to, err := syncWindow(now(), outlookSyncDate, outlookSyncFrom, outlookSyncTo)
	if err != nil {
		return err
	}

	category := rt.cfg.Outlook.DefaultCategory
	if outlookSyncCategory != "" {
		category = outlookSyncCategory
	}
	timezone := rt.cfg.Outlook.Timezone
	if outlookSyncTZ != "" {
		timezone = outlookSyncTZ
	}

	out := cmd.OutOrStdout()
	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s)%s...\n\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)

	ctx := cmd.Context()
	tok, oauthCfg, err := msgraph.Authenticate(ctx, rt.cfg.Outlook.TenantID, rt.cfg.Outlook.ClientID, out, rt.log)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	events, err := msgraph.NewClient(ctx, tok, oauthCfg, rt.log).GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		return fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	rt.log.Debug("fetched calendar events", zap.Int("events", len(events)))

	result := msgraph.SyncEvents(events, msgraph.SyncOptions{
		Base:     rt.cfg.DataDir,
		DryRun:   outlookSyncDryRun,
		Category: category,
		Timezone: timezone,
		Out:      out,
		Log:      rt.log,
	})

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		return storageErr(fmt.Errorf("%d events could not be synced", result.Errors))
	}
	return nil
}
