package msgraph

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tiliavir/hamster-cli/internal/model"
	"github.com/Tiliavir/hamster-cli/internal/storage"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	// Base is the file store root.
	Base     string
	DryRun   bool
	Category string
	// Timezone is the IANA zone event times are read in; "" means UTC.
	Timezone string
	// Out receives one progress line per event. Nil discards.
	Out io.Writer
	Log *zap.Logger
}

// parseGraphTime parses a Graph dateTime. Without an offset suffix the value
// is read in tz.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildDescription joins the body preview and location.
func buildDescription(event CalendarEvent) *string {
	var parts []string
	if event.BodyPreview != "" {
		parts = append(parts, event.BodyPreview)
	}
	if event.Location.DisplayName != "" {
		parts = append(parts, event.Location.DisplayName)
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, "\n")
	return &s
}

// shouldSkip reports events that never become facts.
func shouldSkip(event CalendarEvent) bool {
	return event.IsCancelled ||
		event.IsAllDay ||
		event.Sensitivity == "private" ||
		event.ShowAs == "free" ||
		event.Start.DateTime == "" || event.End.DateTime == ""
}

// MapEventToFact converts a calendar event into a closed fact in category.
// The fact keeps the wall clock of the event in timezone.
func MapEventToFact(event CalendarEvent, timezone, category string) (model.Fact, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.Fact{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.Fact{}, fmt.Errorf("parsing end time: %w", err)
	}

	endStamp := timecalc.Stamp(end)
	return model.Fact{
		ID:          uuid.NewString(),
		Name:        event.Subject,
		Category:    category,
		Description: buildDescription(event),
		Tags:        []string{"outlook"},
		StartTime:   timecalc.Stamp(start),
		EndTime:     &endStamp,
		ExternalID:  event.ID,
		Source:      "outlook",
	}, nil
}

func findByExternalID(facts []model.Fact, externalID string) *model.Fact {
	for i := range facts {
		if facts[i].ExternalID == externalID {
			return &facts[i]
		}
	}
	return nil
}

func unchanged(a, b *model.Fact) bool {
	return a.Name == b.Name &&
		a.StartTime == b.StartTime &&
		a.EndTime != nil && b.EndTime != nil && *a.EndTime == *b.EndTime
}

// SyncEvents stores the importable events as facts. An event already stored
// under its external ID is skipped when unchanged and updated in place
// otherwise.
func SyncEvents(events []CalendarEvent, opts SyncOptions) SyncResult {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	var result SyncResult
	for _, event := range events {
		if shouldSkip(event) {
			log.Debug("ignoring event", zap.String("subject", event.Subject))
			continue
		}

		fact, err := MapEventToFact(event, opts.Timezone, opts.Category)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		existing, err := storage.LoadDay(opts.Base, storage.Day(fact.StartTime))
		if err != nil {
			fmt.Fprintf(out, "  ! Error loading day for %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		updated := false
		if found := findByExternalID(existing.Facts, event.ID); found != nil {
			if unchanged(found, &fact) {
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
				result.Skipped++
				continue
			}
			fact.ID = found.ID
			updated = true
		}

		if !opts.DryRun {
			if err := storage.UpdateFact(opts.Base, fact); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}
		dur := timecalc.FormatDuration(*fact.EndTime - fact.StartTime)
		if updated {
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s)\n", event.Subject, dur)
			result.Updated++
		} else {
			fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", event.Subject, dur)
			result.Imported++
		}
	}
	return result
}
