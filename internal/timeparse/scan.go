package timeparse

import (
	"strings"
	"unicode/utf8"
)

// Field is an optional numeric field of a date/time token.
type Field struct {
	Value int
	Set   bool
}

func (f Field) or(def int) int {
	if f.Set {
		return f.Value
	}
	return def
}

// Fields is what Scan extracts from a token before any calendar checks.
type Fields struct {
	Relative bool
	Year     Field
	Month    Field
	Day      Field
	Hour     Field
	Minute   int
	Second   Field
	// Rest is the unconsumed tail exactly as it appeared in the token.
	Rest string
}

// Scan matches token against the grammar
//
//	["-" | YEAR["-"MONTH["-"DAY]] " "] [HOUR ":"] MINUTE [":" SECOND] [rest]
//
// trying alternatives in order and backtracking on the digit counts. The
// whole token must be consumed; rest is a non-digit followed by at least one
// more character.
func Scan(token string) (Fields, bool) {
	for _, p := range prefixes(token) {
		if f, ok := scanClock(token, p); ok {
			return f, true
		}
	}
	return Fields{}, false
}

type prefix struct {
	fields Fields
	pos    int
}

// prefixes lists the candidate leading parts in match priority: the relative
// marker, no prefix at all, then every way to read a date followed by a space.
func prefixes(token string) []prefix {
	var out []prefix
	if strings.HasPrefix(token, "-") {
		out = append(out, prefix{fields: Fields{Relative: true}, pos: 1})
	}
	out = append(out, prefix{})

	year, ok := digits(token, 0, 4)
	if !ok {
		return out
	}
	base := Fields{Year: Field{Value: year, Set: true}}
	for _, month := range dashed(token, 4) {
		for _, day := range dashed(token, month.end) {
			f := base
			f.Month = Field{Value: month.value, Set: true}
			f.Day = Field{Value: day.value, Set: true}
			out = appendSpaced(out, token, f, day.end)
		}
		f := base
		f.Month = Field{Value: month.value, Set: true}
		out = appendSpaced(out, token, f, month.end)
	}
	return appendSpaced(out, token, base, 4)
}

func appendSpaced(out []prefix, token string, f Fields, pos int) []prefix {
	if pos < len(token) && token[pos] == ' ' {
		out = append(out, prefix{fields: f, pos: pos + 1})
	}
	return out
}

func scanClock(token string, p prefix) (Fields, bool) {
	var hours []number
	for _, h := range numbers(token, p.pos) {
		if h.end < len(token) && token[h.end] == ':' {
			hours = append(hours, number{value: h.value, end: h.end + 1, set: true})
		}
	}
	hours = append(hours, number{end: p.pos})

	for _, h := range hours {
		for _, m := range numbers(token, h.end) {
			for _, s := range seconds(token, m.end) {
				rest := token[s.end:]
				if rest != "" && !isRest(rest) {
					continue
				}
				f := p.fields
				if h.set {
					f.Hour = Field{Value: h.value, Set: true}
				}
				f.Minute = m.value
				if s.set {
					f.Second = Field{Value: s.value, Set: true}
				}
				f.Rest = rest
				return f, true
			}
		}
	}
	return Fields{}, false
}

type number struct {
	value int
	end   int
	set   bool
}

// numbers returns the 1-2 digit readings starting at pos, longest first.
func numbers(token string, pos int) []number {
	var out []number
	for n := 2; n >= 1; n-- {
		if v, ok := digits(token, pos, n); ok {
			out = append(out, number{value: v, end: pos + n, set: true})
		}
	}
	return out
}

// dashed returns "-NN" readings at pos, longest first.
func dashed(token string, pos int) []number {
	if pos >= len(token) || token[pos] != '-' {
		return nil
	}
	return numbers(token, pos+1)
}

// seconds returns ":NN" readings at pos followed by the empty reading.
func seconds(token string, pos int) []number {
	var out []number
	if pos < len(token) && token[pos] == ':' {
		out = numbers(token, pos+1)
	}
	return append(out, number{end: pos})
}

func digits(token string, pos, n int) (int, bool) {
	if pos+n > len(token) {
		return 0, false
	}
	v := 0
	for i := pos; i < pos+n; i++ {
		c := token[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

func isRest(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if r >= '0' && r <= '9' {
		return false
	}
	tail := s[size:]
	return tail != "" && !strings.Contains(tail, "\n")
}
