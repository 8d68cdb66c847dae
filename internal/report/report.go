// Package report renders facts as the aligned plain-text activity listing.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Tiliavir/hamster-cli/internal/model"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
	"github.com/Tiliavir/hamster-cli/internal/timeparse"
)

const (
	shortStamp = "15:04"
	longStamp  = "2006-01-02 15:04"

	minDurationWidth = 7
)

// Headers are the column labels of the listing.
type Headers struct {
	Start, End, Duration     string
	Activity, Category, Tags string
}

// DefaultHeaders returns the English column labels.
func DefaultHeaders() Headers {
	return Headers{
		Start:    "Start",
		End:      "End",
		Duration: "Duration",
		Activity: "Activity",
		Category: "Category",
		Tags:     "Tags",
	}
}

// ColumnWidths are the right-justified column widths of one report.
type ColumnWidths struct {
	Start, End, Duration int
}

// FormattedRow is a fact rendered into column strings.
type FormattedRow struct {
	Start, End, Duration string
	Activity, Category   string
	Tags                 string
}

// Formatter renders facts. The zero value is not usable; call New.
type Formatter struct {
	Headers Headers
	// SpanDates prints full dates when the report range covers more than one
	// calendar day. When false the time-only format is always used, which is
	// how the listing has always behaved.
	SpanDates bool
	// HeaderStyle, if set, decorates the header line.
	HeaderStyle func(string) string

	now func() time.Time
}

// New returns a Formatter with default headers reading the current moment
// from now. A nil now uses time.Now.
func New(now func() time.Time) *Formatter {
	if now == nil {
		now = time.Now
	}
	return &Formatter{Headers: DefaultHeaders(), now: now}
}

// ComputeColumnWidths sizes the time columns for full dates or times only.
func (f *Formatter) ComputeColumnWidths(withDate bool) ColumnWidths {
	stamp := len(shortStamp)
	if withDate {
		stamp = len(longStamp)
	}
	return ColumnWidths{
		Start:    max(width(f.Headers.Start), stamp),
		End:      max(width(f.Headers.End), stamp),
		Duration: max(width(f.Headers.Duration), minDurationWidth),
	}
}

// RenderRow renders one fact. Open facts have an empty end and are measured
// up to now.
func (f *Formatter) RenderRow(fact model.Fact, withDate bool) FormattedRow {
	layout := shortStamp
	if withDate {
		layout = longStamp
	}
	loc := f.now().Location()

	row := FormattedRow{
		Start:    timecalc.FromStamp(fact.StartTime, loc).Format(layout),
		Activity: fact.Name,
		Category: fact.Category,
	}

	end := timecalc.Stamp(f.now())
	if fact.EndTime != nil {
		end = *fact.EndTime
		row.End = timecalc.FromStamp(end, loc).Format(layout)
	}
	row.Duration = timecalc.FormatDuration(end - fact.StartTime)

	if len(fact.Tags) > 0 {
		tags := make([]string, len(fact.Tags))
		for i, t := range fact.Tags {
			tags[i] = "#" + t
		}
		row.Tags = strings.Join(tags, " ")
	}
	return row
}

// Resolve fills in the defaults of a listing range: a zero start is today's
// midnight and a missing end is the last second of the start day.
func (f *Formatter) Resolve(r timeparse.Range) (time.Time, time.Time) {
	start := r.Start
	if start.IsZero() {
		start = timecalc.StartOfDay(f.now())
	}
	end := timecalc.EndOfDay(start)
	if r.End != nil {
		end = *r.End
	}
	return start, end
}

// RenderReport renders the header, the separator and one line per fact
// starting inside the range, keeping the order of facts.
func (f *Formatter) RenderReport(facts []model.Fact, r timeparse.Range) string {
	start, end := f.Resolve(r)

	// The listing has always compared the start date with itself, so dates
	// only show up when SpanDates asks for the start/end comparison.
	withDate := f.SpanDates && !timecalc.SameDay(start, end)
	w := f.ComputeColumnWidths(withDate)

	var b strings.Builder
	header := line(w, FormattedRow{
		Start:    f.Headers.Start,
		End:      f.Headers.End,
		Duration: f.Headers.Duration,
		Activity: f.Headers.Activity,
		Category: f.Headers.Category,
		Tags:     f.Headers.Tags,
	})
	if f.HeaderStyle != nil {
		header = f.HeaderStyle(header)
	}
	b.WriteString(header)
	b.WriteByte('\n')

	first := 8 + w.Start + w.End + w.Duration
	second := 4 + width(f.Headers.Activity) + width(f.Headers.Category) + width(f.Headers.Tags)
	b.WriteString(strings.Repeat("-", first) + "+" + strings.Repeat("-", second))
	b.WriteByte('\n')

	for _, fact := range InRange(facts, start, end) {
		b.WriteString(line(w, f.RenderRow(fact, withDate)))
		b.WriteByte('\n')
	}
	return b.String()
}

// InRange keeps the facts starting within [start, end], in order. Stores
// return whole days, so callers narrow the result with this.
func InRange(facts []model.Fact, start, end time.Time) []model.Fact {
	from, to := timecalc.Stamp(start), timecalc.Stamp(end)
	var out []model.Fact
	for _, fact := range facts {
		if fact.StartTime < from || fact.StartTime > to {
			continue
		}
		out = append(out, fact)
	}
	return out
}

// Total is the tracked time of one activity.
type Total struct {
	Activity model.Activity
	Seconds  int64
}

// Totals sums closed facts per activity, sorted by name@category. Running
// facts are not counted.
func Totals(facts []model.Fact) []Total {
	sums := map[model.Activity]int64{}
	for _, fact := range facts {
		if fact.EndTime == nil {
			continue
		}
		sums[model.Activity{Name: fact.Name, Category: fact.Category}] += *fact.EndTime - fact.StartTime
	}
	out := make([]Total, 0, len(sums))
	for a, s := range sums {
		out = append(out, Total{Activity: a, Seconds: s})
	}
	slices.SortFunc(out, func(a, b Total) int {
		return strings.Compare(a.Activity.String(), b.Activity.String())
	})
	return out
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

func line(w ColumnWidths, row FormattedRow) string {
	return fmt.Sprintf(" %*s - %*s (%*s) | %s@%s %s",
		w.Start, row.Start,
		w.End, row.End,
		w.Duration, row.Duration,
		row.Activity, row.Category, row.Tags)
}
