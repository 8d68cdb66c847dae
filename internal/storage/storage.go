package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tiliavir/hamster-cli/internal/model"
	"github.com/Tiliavir/hamster-cli/internal/timecalc"
	"github.com/Tiliavir/hamster-cli/internal/tracker"
)

// Day returns the UTC midnight of the calendar day a store stamp falls on.
// Day files are keyed by this wall-clock day.
func Day(stamp int64) time.Time {
	return timecalc.StartOfDay(time.Unix(stamp, 0).UTC())
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func LoadDay(base string, t time.Time) (model.DayFile, error) {
	path := dayFilePath(base, t)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: t.Format("2006-01-02"), Facts: []model.Fact{}}, nil
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func SaveDay(base string, t time.Time, df model.DayFile) error {
	path := dayFilePath(base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// UpdateFact replaces (by ID) or appends a fact in the day file of its start.
func UpdateFact(base string, fact model.Fact) error {
	day := Day(fact.StartTime)
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	for i, f := range df.Facts {
		if f.ID == fact.ID {
			df.Facts[i] = fact
			return SaveDay(base, day, df)
		}
	}
	df.Facts = append(df.Facts, fact)
	return SaveDay(base, day, df)
}

// LoadRange loads all facts stored on the days from `from` to `to` inclusive,
// ordered by start time.
func LoadRange(base string, from, to time.Time) ([]model.Fact, error) {
	var facts []model.Fact
	for d := timecalc.StartOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		facts = append(facts, df.Facts...)
	}
	slices.SortStableFunc(facts, func(a, b model.Fact) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return facts, nil
}

// Store is the file-backed tracker.Store. Facts live in
// <base>/YYYY/MM/DD.json, keyed by the day they start on.
type Store struct {
	base string
	log  *zap.Logger
	now  func() time.Time
}

var _ tracker.Store = (*Store)(nil)

// New returns a Store rooted at base. A nil log discards log output.
func New(base string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{base: base, log: log, now: time.Now}
}

// WithClock returns a copy of s reading the current moment from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	c := *s
	c.now = now
	return &c
}

// Base returns the root directory of the store.
func (s *Store) Base() string {
	return s.base
}

func (s *Store) AddFact(_ context.Context, activity string, start, end int64) error {
	fact := model.ParseActivity(activity)
	if fact.Name == "" {
		return fmt.Errorf("activity name is required in %q", activity)
	}
	if start == 0 {
		start = timecalc.Stamp(s.now())
	}
	fact.ID = uuid.NewString()
	fact.Source = "manual"
	fact.StartTime = start
	if end != 0 {
		fact.EndTime = &end
	}

	if fact.EndTime == nil {
		active, err := s.Active()
		if err != nil {
			return err
		}
		if active != nil {
			stop := max(start, active.StartTime)
			active.EndTime = &stop
			s.log.Info("auto-stopping running fact",
				zap.String("activity", active.Name),
				zap.String("category", active.Category))
			if err := UpdateFact(s.base, *active); err != nil {
				return err
			}
		}
	}

	s.log.Debug("adding fact",
		zap.String("id", fact.ID),
		zap.String("activity", fact.Name),
		zap.Int64("start", fact.StartTime),
		zap.Bool("running", fact.EndTime == nil))
	return UpdateFact(s.base, fact)
}

func (s *Store) StopTracking(_ context.Context) error {
	active, err := s.Active()
	if err != nil {
		return err
	}
	if active == nil {
		return tracker.ErrNoActiveFact
	}
	end := max(timecalc.Stamp(s.now()), active.StartTime)
	active.EndTime = &end
	s.log.Debug("stopping fact", zap.String("id", active.ID), zap.Int64("end", end))
	return UpdateFact(s.base, *active)
}

func (s *Store) GetFacts(_ context.Context, start, end int64) ([]model.Fact, error) {
	return LoadRange(s.base, Day(start), Day(end))
}

// Active returns the running fact, searching today and the previous six days
// (most recent first), or nil.
func (s *Store) Active() (*model.Fact, error) {
	today := Day(timecalc.Stamp(s.now()))
	for i := 0; i < 7; i++ {
		df, err := LoadDay(s.base, today.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		for j := len(df.Facts) - 1; j >= 0; j-- {
			if df.Facts[j].EndTime == nil {
				return &df.Facts[j], nil
			}
		}
	}
	return nil, nil
}

func (s *Store) GetActivities(_ context.Context) ([]model.Activity, error) {
	seen := map[model.Activity]bool{}
	var out []model.Activity
	err := s.walk(func(f model.Fact) {
		a := model.Activity{Name: f.Name, Category: f.Category}
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	})
	slices.SortFunc(out, func(a, b model.Activity) int {
		return strings.Compare(a.String(), b.String())
	})
	return out, err
}

func (s *Store) GetCategories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	err := s.walk(func(f model.Fact) {
		if f.Category != "" && !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	})
	slices.Sort(out)
	return out, err
}

// walk calls fn for every stored fact.
func (s *Store) walk(fn func(model.Fact)) error {
	err := filepath.WalkDir(s.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		rel, err := filepath.Rel(s.base, path)
		if err != nil {
			return err
		}
		day, err := time.Parse("2006/01/02.json", filepath.ToSlash(rel))
		if err != nil {
			return nil
		}
		df, err := LoadDay(s.base, day)
		if err != nil {
			s.log.Warn("skipping unreadable day file", zap.String("path", path), zap.Error(err))
			return nil
		}
		for _, f := range df.Facts {
			fn(f)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
