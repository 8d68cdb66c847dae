package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/hamster-cli/internal/report"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
	"github.com/Tiliavir/hamster-cli/internal/timeparse"
)

var listSpanDates bool

var listCmd = &cobra.Command{
	Use:   "list [START[-END]]",
	Short: "List activities",
	Long: `List the facts started within the range. Without a range, today is
listed; without an END, the rest of the START day.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var listActivitiesCmd = &cobra.Command{
	Use:   "list-activities",
	Short: "List all activity names, one per line",
	Args:  cobra.NoArgs,
	RunE:  runListActivities,
}

var listCategoriesCmd = &cobra.Command{
	Use:   "list-categories",
	Short: "List all category names, one per line",
	Args:  cobra.NoArgs,
	RunE:  runListCategories,
}

func init() {
	listCmd.Flags().BoolVar(&listSpanDates, "span-dates", false, "Print full dates when the range covers several days")
}

// parseRangeArg parses the optional range argument of list-like commands.
func parseRangeArg(args []string) (timeparse.Range, error) {
	if len(args) == 0 {
		return timeparse.Range{}, nil
	}
	return rt.parser.ParseRange(args[0])
}

func runList(cmd *cobra.Command, args []string) error {
	r, err := parseRangeArg(args)
	if err != nil {
		return err
	}

	f := report.New(now)
	f.SpanDates = rt.cfg.List.SpanDates
	if cmd.Flags().Changed("span-dates") {
		f.SpanDates = listSpanDates
	}
	out := cmd.OutOrStdout()
	if isTerminal(out) {
		bold := lipgloss.NewStyle().Bold(true)
		f.HeaderStyle = func(s string) string { return bold.Render(s) }
	}

	start, end := f.Resolve(r)
	facts, err := rt.store.GetFacts(cmd.Context(), timecalc.Stamp(start), timecalc.Stamp(end))
	if err != nil {
		return storageErr(err)
	}
	fmt.Fprint(out, f.RenderReport(facts, r))
	return nil
}

func runListActivities(cmd *cobra.Command, _ []string) error {
	activities, err := rt.store.GetActivities(cmd.Context())
	if err != nil {
		return storageErr(err)
	}
	for _, a := range activities {
		fmt.Fprintln(cmd.OutOrStdout(), a)
	}
	return nil
}

func runListCategories(cmd *cobra.Command, _ []string) error {
	categories, err := rt.store.GetCategories(cmd.Context())
	if err != nil {
		return storageErr(err)
	}
	for _, c := range categories {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
