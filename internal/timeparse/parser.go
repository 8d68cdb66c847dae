// Package timeparse turns short command-line time expressions such as
// "13:20", "2010-03 13:15:40", "-1:30" or "9:00-17:00" into local moments.
package timeparse

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/hamster-cli/internal/timecalc"
)

// InvalidDateTimeError reports a token whose fields were recognised but do
// not form a valid calendar date or time of day.
type InvalidDateTimeError struct {
	// Text is the part of the token that was read as a date/time, without
	// any trailing remainder.
	Text string
}

func (e *InvalidDateTimeError) Error() string {
	return fmt.Sprintf("invalid date/time '%s'", e.Text)
}

// ParsedToken is the moment read from a token plus whatever text followed it.
type ParsedToken struct {
	Moment    time.Time
	Remainder string
}

// Range is a start moment and an optional end.
type Range struct {
	Start time.Time
	End   *time.Time
}

// Parser parses tokens relative to the moment returned by Now.
type Parser struct {
	now func() time.Time
}

// New returns a Parser reading the current moment from now. A nil now uses
// time.Now.
func New(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{now: now}
}

// ParseSingle reads one moment from the start of token. Tokens that do not
// match the grammar are not an error: they yield the current moment with the
// whole token as remainder.
func (p *Parser) ParseSingle(token string) (ParsedToken, error) {
	now := p.now()

	f, ok := Scan(token)
	if !ok {
		return ParsedToken{Moment: now, Remainder: token}, nil
	}
	rest := strings.TrimSpace(f.Rest)

	if f.Relative {
		ago := time.Duration(f.Hour.or(0))*time.Hour +
			time.Duration(f.Minute)*time.Minute +
			time.Duration(f.Second.or(0))*time.Second
		return ParsedToken{Moment: now.Add(-ago), Remainder: rest}, nil
	}

	moment, ok := absolute(f, now)
	if !ok {
		return ParsedToken{}, &InvalidDateTimeError{Text: token[:len(token)-len(f.Rest)]}
	}
	return ParsedToken{Moment: moment, Remainder: rest}, nil
}

// ParseRange reads a start moment and, when the remainder starts with "-",
// an end moment from the text after the dash.
func (p *Parser) ParseRange(token string) (Range, error) {
	start, err := p.ParseSingle(token)
	if err != nil {
		return Range{}, err
	}

	r := Range{Start: start.Moment}
	remainder := strings.TrimSpace(start.Remainder)
	if strings.HasPrefix(remainder, "-") {
		end, err := p.ParseSingle(remainder[1:])
		if err != nil {
			return Range{}, err
		}
		r.End = &end.Moment
	}
	return r, nil
}

// absolute applies the date fields to today's date one at a time, year then
// month then day, checking the date after each step, and combines it with
// the time of day.
func absolute(f Fields, now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	if f.Year.Set {
		y = f.Year.Value
		if y < 1 || d > timecalc.DaysInMonth(y, m) {
			return time.Time{}, false
		}
		if f.Month.Set {
			if f.Month.Value < 1 || f.Month.Value > 12 {
				return time.Time{}, false
			}
			m = time.Month(f.Month.Value)
			if d > timecalc.DaysInMonth(y, m) {
				return time.Time{}, false
			}
			if f.Day.Set {
				d = f.Day.Value
				if d < 1 || d > timecalc.DaysInMonth(y, m) {
					return time.Time{}, false
				}
			}
		}
	}

	hour, sec := f.Hour.or(0), f.Second.or(0)
	if hour > 23 || f.Minute > 59 || sec > 59 {
		return time.Time{}, false
	}
	return time.Date(y, m, d, hour, f.Minute, sec, 0, now.Location()), true
}
