package timeparse_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Tiliavir/hamster-cli/internal/timeparse"
)

var (
	loc = time.FixedZone("Local", 3600)
	// 2010-03-09 16:30:20, the reference moment used in the CLI help.
	refNow = time.Date(2010, 3, 9, 16, 30, 20, 0, loc)
)

func fixedParser(now time.Time) *timeparse.Parser {
	return timeparse.New(func() time.Time { return now })
}

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func TestParseSingle(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		want      time.Time
		remainder string
	}{
		{"time only", "13:20", at(2010, 3, 9, 13, 20, 0), ""},
		{"minute only", "20", at(2010, 3, 9, 0, 20, 0), ""},
		{"year and month", "2010-03 13:15:40", at(2010, 3, 9, 13, 15, 40), ""},
		{"full date hour minute", "2010-03-09 13:15", at(2010, 3, 9, 13, 15, 0), ""},
		{"full date bare number is minute", "2010-03-09 13", at(2010, 3, 9, 0, 13, 0), ""},
		{"month override keeps day", "2010-02 13:15:40", at(2010, 2, 9, 13, 15, 40), ""},
		{"year only", "2009 10:00", at(2009, 3, 9, 10, 0, 0), ""},
		{"single digit fields", "2010-3-1 9:5:7", at(2010, 3, 1, 9, 5, 7), ""},
		{"trailing text trimmed", "13:20 coding", at(2010, 3, 9, 13, 20, 0), "coding"},
		{"range remainder", "9:00-17:00", at(2010, 3, 9, 9, 0, 0), "-17:00"},
		{"relative minutes", "-30", refNow.Add(-30 * time.Minute), ""},
		{"relative hours minutes", "-1:30", refNow.Add(-90 * time.Minute), ""},
		{"relative with remainder", "-1:30 - 0:10", refNow.Add(-90 * time.Minute), "- 0:10"},
		{"backtracks to a bare minute", "13:20x", at(2010, 3, 9, 0, 13, 0), ":20x"},
	}
	p := fixedParser(refNow)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseSingle(tt.token)
			require.NoError(t, err)
			assert.True(t, got.Moment.Equal(tt.want), "moment = %v, want %v", got.Moment, tt.want)
			assert.Equal(t, tt.remainder, got.Remainder)
		})
	}
}

func TestParseSingleFallback(t *testing.T) {
	p := fixedParser(refNow)
	for _, token := range []string{"hello world", "", "abc 12:00", "-", "9x"} {
		got, err := p.ParseSingle(token)
		require.NoError(t, err, token)
		assert.True(t, got.Moment.Equal(refNow), "token %q: moment %v", token, got.Moment)
		assert.Equal(t, token, got.Remainder)
	}
}

func TestParseSingleInvalid(t *testing.T) {
	tests := []struct {
		token string
		text  string
	}{
		{"2010-13-40 99:99", "2010-13-40 99:99"},
		{"2010-13-40 99:99-10:00", "2010-13-40 99:99"},
		{"2010-02-30 10:00", "2010-02-30 10:00"},
		{"25:00", "25:00"},
		{"10:60 lunch", "10:60"},
		{"12:30:61", "12:30:61"},
		{"0000 10:00", "0000 10:00"},
	}
	p := fixedParser(refNow)
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := p.ParseSingle(tt.token)
			var invalid *timeparse.InvalidDateTimeError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.text, invalid.Text)
			assert.Equal(t, fmt.Sprintf("invalid date/time '%s'", tt.text), err.Error())
		})
	}
}

func TestParseSingleMonthOverrideOnLongDay(t *testing.T) {
	// Moving the 31st into February is rejected before the day is applied.
	p := fixedParser(time.Date(2010, 3, 31, 8, 0, 0, 0, loc))

	_, err := p.ParseSingle("2010-02 10:00")
	var invalid *timeparse.InvalidDateTimeError
	require.ErrorAs(t, err, &invalid)

	got, err := p.ParseSingle("2010-02-28 10:00")
	require.Error(t, err, "month is applied before day, so the 31st still fails")
	assert.Zero(t, got)
}

func TestParseRange(t *testing.T) {
	p := fixedParser(refNow)

	r, err := p.ParseRange("9:00-17:00")
	require.NoError(t, err)
	assert.True(t, r.Start.Equal(at(2010, 3, 9, 9, 0, 0)))
	require.NotNil(t, r.End)
	assert.True(t, r.End.Equal(at(2010, 3, 9, 17, 0, 0)))

	r, err = p.ParseRange("2010-03-01 9:00-2010-03-02 18:30")
	require.NoError(t, err)
	assert.True(t, r.Start.Equal(at(2010, 3, 1, 9, 0, 0)))
	require.NotNil(t, r.End)
	assert.True(t, r.End.Equal(at(2010, 3, 2, 18, 30, 0)))

	r, err = p.ParseRange("13:20")
	require.NoError(t, err)
	assert.True(t, r.Start.Equal(at(2010, 3, 9, 13, 20, 0)))
	assert.Nil(t, r.End)

	r, err = p.ParseRange("-2:00--1:00")
	require.NoError(t, err)
	assert.True(t, r.Start.Equal(refNow.Add(-2*time.Hour)))
	require.NotNil(t, r.End)
	assert.True(t, r.End.Equal(refNow.Add(-time.Hour)))
}

func TestParseRangeErrors(t *testing.T) {
	p := fixedParser(refNow)

	_, err := p.ParseRange("25:00-26:00")
	var invalid *timeparse.InvalidDateTimeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "25:00", invalid.Text)

	r, err := p.ParseRange("9:00-26:00")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "26:00", invalid.Text)
	assert.Zero(t, r)
}

func TestParseRangeFallbackEnd(t *testing.T) {
	p := fixedParser(refNow)
	for _, token := range []string{"9:00-later", "9:00 - 17:00"} {
		r, err := p.ParseRange(token)
		require.NoError(t, err, token)
		assert.True(t, r.Start.Equal(at(2010, 3, 9, 9, 0, 0)), token)
		require.NotNil(t, r.End, token)
		assert.True(t, r.End.Equal(refNow), "%s: end %v", token, r.End)
	}
}

func TestAbsoluteTokenRoundTrip(t *testing.T) {
	const layout = "2006-01-02 15:04:05"
	p := fixedParser(refNow)
	rapid.Check(t, func(rt *rapid.T) {
		sec := rapid.Int64Range(-2_000_000_000, 4_000_000_000).Draw(rt, "unix_sec")
		token := time.Unix(sec, 0).In(loc).Format(layout)

		got, err := p.ParseSingle(token)
		if err != nil {
			rt.Fatalf("ParseSingle(%q): %v", token, err)
		}
		if s := got.Moment.Format(layout); s != token {
			rt.Fatalf("ParseSingle(%q) formatted back as %q", token, s)
		}
		if got.Remainder != "" {
			rt.Fatalf("unexpected remainder %q", got.Remainder)
		}
	})
}

func TestRelativeTokenOffset(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sec := rapid.Int64Range(1_000_000_000, 1_900_000_000).Draw(rt, "now")
		now := time.Unix(sec, 0).In(loc)
		h := rapid.IntRange(0, 99).Draw(rt, "h")
		m := rapid.IntRange(0, 99).Draw(rt, "m")
		s := rapid.IntRange(0, 99).Draw(rt, "s")

		got, err := fixedParser(now).ParseSingle(fmt.Sprintf("-%02d:%02d:%02d", h, m, s))
		if err != nil {
			rt.Fatalf("ParseSingle: %v", err)
		}
		want := now.Add(-(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second))
		if !got.Moment.Equal(want) {
			rt.Fatalf("moment = %v, want %v", got.Moment, want)
		}
	})
}

func TestScanFields(t *testing.T) {
	f, ok := timeparse.Scan("2010-03-09 13:15:40 rest")
	require.True(t, ok)
	assert.Equal(t, timeparse.Field{Value: 2010, Set: true}, f.Year)
	assert.Equal(t, timeparse.Field{Value: 3, Set: true}, f.Month)
	assert.Equal(t, timeparse.Field{Value: 9, Set: true}, f.Day)
	assert.Equal(t, timeparse.Field{Value: 13, Set: true}, f.Hour)
	assert.Equal(t, 15, f.Minute)
	assert.Equal(t, timeparse.Field{Value: 40, Set: true}, f.Second)
	assert.Equal(t, " rest", f.Rest)
	assert.False(t, f.Relative)

	f, ok = timeparse.Scan("-5")
	require.True(t, ok)
	assert.True(t, f.Relative)
	assert.False(t, f.Hour.Set)
	assert.Equal(t, 5, f.Minute)

	_, ok = timeparse.Scan("yesterday")
	assert.False(t, ok)
}
